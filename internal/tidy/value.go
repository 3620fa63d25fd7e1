package tidy

import (
	"encoding/json"
	"strconv"
)

// Value is a float that may be missing.
type Value struct {
	Float float64
	Valid bool
}

// Missing is the zero Value.
var Missing = Value{}

// Some returns a present Value.
func Some(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Get returns the float and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float, v.Valid
}

// String renders the value, or "NA" when missing.
func (v Value) String() string {
	if !v.Valid {
		return "NA"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON encodes a missing value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null as Missing.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Missing
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
