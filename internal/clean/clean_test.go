package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/malviz/internal/tidy"
)

func melt(t *testing.T, w tidy.WideTable) *tidy.RawTable {
	t.Helper()
	raw, err := tidy.Melt(w, "country", "metric")
	require.NoError(t, err)
	return raw
}

func TestCoerceValue_Tolerant(t *testing.T) {
	// "4.5k" has already been normalised upstream to 4500.
	cells := []string{"3", "bad", "4500"}
	want := []tidy.Value{tidy.Some(3), tidy.Missing, tidy.Some(4500)}

	for i, cell := range cells {
		assert.Equal(t, want[i], CoerceValue(cell, Options{}), "cell %q", cell)
	}
}

func TestCoerceValue_MissingIsNotZero(t *testing.T) {
	for _, cell := range []string{"", "  ", "NaN", "Inf", "n/a", "12K"} {
		v := CoerceValue(cell, Options{})
		assert.False(t, v.Valid, "cell %q", cell)
	}
	assert.Equal(t, tidy.Some(0), CoerceValue("0", Options{}))
}

func TestCoerceValue_Magnitude(t *testing.T) {
	assert.Equal(t, tidy.Some(2500), CoerceValue("2.5k", Options{Magnitude: true}))
	assert.Equal(t, tidy.Some(1_000_000), CoerceValue("1M", Options{Magnitude: true}))
	assert.Equal(t, tidy.Some(42), CoerceValue("42", Options{Magnitude: true}))
	assert.False(t, CoerceValue("1.2x", Options{Magnitude: true}).Valid)

	// Without the option suffixes are not understood.
	assert.False(t, CoerceValue("2.5k", Options{}).Valid)
}

func TestCoerceYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2000", 2000, true},
		{" 1990 ", 1990, true},
		{"2000.0", 2000, true},
		{"2000.5", 0, false},
		{"notes", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CoerceYear(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_Table(t *testing.T) {
	raw := melt(t, tidy.WideTable{
		Columns: []string{"country", "2000", "2001", "notes"},
		Rows: [][]string{
			{"B", "5", "", "x"},
			{"A", "10", "bad", "y"},
		},
	})

	tbl, rep := Coerce(raw, Options{})

	assert.Equal(t, "metric", tbl.Metric)
	assert.Equal(t, []tidy.Observation{
		{Country: "A", Year: 2000, Value: tidy.Some(10)},
		{Country: "A", Year: 2001, Value: tidy.Missing},
		{Country: "B", Year: 2000, Value: tidy.Some(5)},
		{Country: "B", Year: 2001, Value: tidy.Missing},
	}, tbl.Rows)

	assert.Equal(t, Report{
		Rows:         4,
		Missing:      2,
		Unparsable:   1,
		InvalidYears: []string{"notes"},
	}, rep)
}

func TestCoerce_DuplicateYearsKeepFirst(t *testing.T) {
	raw := melt(t, tidy.WideTable{
		Columns: []string{"country", "2000", "2000.0"},
		Rows:    [][]string{{"A", "1", "2"}},
	})

	tbl, rep := Coerce(raw, Options{})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, tidy.Some(1), tbl.Rows[0].Value)
	assert.Equal(t, 1, rep.Duplicates)
}

func TestCoerce_DoesNotMutateRaw(t *testing.T) {
	raw := melt(t, tidy.WideTable{
		Columns: []string{"country", "2000"},
		Rows:    [][]string{{"A", "1.5k"}},
	})

	Coerce(raw, Options{Magnitude: true})
	assert.Equal(t, "1.5k", raw.Rows[0].Value)
}
