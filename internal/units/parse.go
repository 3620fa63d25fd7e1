package units

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Suffix multipliers recognised by ParseMagnitude.
const (
	Thousand = 1_000.0
	Million  = 1_000_000.0
)

// ErrEmpty is wrapped by ParseError when the input is blank.
var ErrEmpty = errors.New("empty input")

// ErrNotFinite is wrapped by ParseError when the numeral is NaN or infinite.
var ErrNotFinite = errors.New("value is not finite")

// ParseError reports a magnitude string that could not be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse magnitude %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseMagnitude converts input into a float64.
//
// Numeric inputs pass through unchanged, so the function is idempotent over
// already-parsed values. Strings are trimmed; a trailing "k" multiplies by
// 1,000 and a trailing "M" by 1,000,000. Anything else must be a plain
// decimal numeral.
func ParseMagnitude(input any) (float64, error) {
	switch v := input.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return parseString(v)
	}

	// Remaining numeric kinds, including named types such as time.Month.
	rv := reflect.ValueOf(input)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), nil
	case rv.CanUint():
		return float64(rv.Uint()), nil
	case rv.CanFloat():
		return rv.Float(), nil
	}
	return 0, &ParseError{Input: fmt.Sprint(input), Err: fmt.Errorf("unsupported type %T", input)}
}

func parseString(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ParseError{Input: raw, Err: ErrEmpty}
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		factor = Thousand
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "M"):
		factor = Million
		s = strings.TrimSuffix(s, "M")
	}
	if s == "" {
		return 0, &ParseError{Input: raw, Err: ErrEmpty}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ParseError{Input: raw, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ParseError{Input: raw, Err: ErrNotFinite}
	}

	return f * factor, nil
}
