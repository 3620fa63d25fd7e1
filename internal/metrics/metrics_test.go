package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/malviz/internal/filter"
	"github.com/roach88/malviz/internal/tidy"
)

func observations(values ...tidy.Value) []tidy.Observation {
	rows := make([]tidy.Observation, len(values))
	for i, v := range values {
		rows[i] = tidy.Observation{Country: "X", Year: 2000 + i, Value: v}
	}
	return rows
}

func TestSum(t *testing.T) {
	rows := observations(tidy.Some(1.5), tidy.Missing, tidy.Some(2.5))
	assert.InDelta(t, 4.0, Sum(rows, tidy.ObservationValue, nil), 1e-9)
	assert.Equal(t, 2, Count(rows, tidy.ObservationValue, nil))

	assert.Zero(t, Sum[tidy.Observation](nil, tidy.ObservationValue, nil))
}

func TestMean(t *testing.T) {
	rows := observations(tidy.Some(2), tidy.Missing, tidy.Some(4))

	got, err := Mean(rows, tidy.ObservationValue, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9)

	_, err = Mean(observations(tidy.Missing), tidy.ObservationValue, nil)
	require.Error(t, err)
	assert.True(t, IsEmptyInput(err))
	assert.Contains(t, err.Error(), "mean")
}

func TestMaxMin(t *testing.T) {
	rows := observations(tidy.Some(3), tidy.Some(0), tidy.Some(7), tidy.Missing)

	hi, err := Max(rows, tidy.ObservationValue, nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, hi)

	lo, err := Min(rows, tidy.ObservationValue, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lo)

	_, err = Max[tidy.Observation](nil, tidy.ObservationValue, nil)
	assert.True(t, IsEmptyInput(err))
	_, err = Min[tidy.Observation](nil, tidy.ObservationValue, nil)
	assert.True(t, IsEmptyInput(err))
}

func TestArgmax_FirstWinsTies(t *testing.T) {
	rows := observations(tidy.Some(5), tidy.Some(9), tidy.Some(9))

	got, err := Argmax(rows, tidy.ObservationValue, nil)
	require.NoError(t, err)
	assert.Equal(t, 2001, got.Year)
}

func TestArgminNonzero(t *testing.T) {
	rows := observations(tidy.Some(0), tidy.Some(0), tidy.Some(5), tidy.Some(3))

	got, err := ArgminNonzero(rows, tidy.ObservationValue, nil)
	require.NoError(t, err)
	assert.Equal(t, 2003, got.Year)
	assert.Equal(t, tidy.Some(3), got.Value)

	_, err = ArgminNonzero(observations(tidy.Some(0), tidy.Missing), tidy.ObservationValue, nil)
	assert.True(t, IsEmptyInput(err))
}

func TestArgmax_Empty(t *testing.T) {
	_, err := Argmax(observations(tidy.Missing), tidy.ObservationValue, nil)
	require.Error(t, err)

	var ee *EmptyInputError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "argmax", ee.Op)
}

func TestRatio_ZeroDenominator(t *testing.T) {
	rows := []tidy.JoinedRecord{
		{Country: "A", Year: 2000, Left: 10, Right: 0},
		{Country: "A", Year: 2001, Left: 5, Right: 50},
	}

	ratios := Ratio(rows, tidy.JoinedLeft, tidy.JoinedRight, nil)
	require.Len(t, ratios, 2)
	assert.Equal(t, tidy.Missing, ratios[0].Value)
	assert.Equal(t, tidy.Some(0.1), ratios[1].Value)

	best, err := Argmax(ratios, RatioOf[tidy.JoinedRecord], nil)
	require.NoError(t, err)
	assert.Equal(t, 2001, best.Row.Year)
}

func TestRatio_AllZeroDenominators(t *testing.T) {
	rows := []tidy.JoinedRecord{{Country: "A", Year: 2000, Left: 1, Right: 0}}

	ratios := Ratio(rows, tidy.JoinedLeft, tidy.JoinedRight, nil)
	_, err := Argmax(ratios, RatioOf[tidy.JoinedRecord], nil)
	assert.True(t, IsEmptyInput(err))
}

// Two countries with identical deaths/population ratios: the first row in
// (country, year) order wins.
func TestEndToEnd_TieBreak(t *testing.T) {
	rows := []tidy.JoinedRecord{
		{Country: "A", Year: 2000, Left: 10, Right: 100},
		{Country: "A", Year: 2001, Left: 20, Right: 200},
		{Country: "B", Year: 2000, Left: 30, Right: 300},
		{Country: "B", Year: 2001, Left: 40, Right: 400},
	}

	ratios := Ratio(rows, tidy.JoinedLeft, tidy.JoinedRight, nil)
	for _, r := range ratios {
		v, ok := r.Value.Get()
		require.True(t, ok)
		assert.InDelta(t, 0.10, v, 1e-12)
	}

	best, err := Argmax(ratios, RatioOf[tidy.JoinedRecord], nil)
	require.NoError(t, err)
	assert.Equal(t, tidy.Key{Country: "A", Year: 2000}, best.Row.Key())
}

func TestWhere(t *testing.T) {
	rows := []tidy.Observation{
		{Country: "A", Year: 2000, Value: tidy.Some(1)},
		{Country: "A", Year: 2006, Value: tidy.Some(2)},
		{Country: "B", Year: 2006, Value: tidy.Some(4)},
	}

	keep := Where[tidy.Observation](filter.Year(2006))
	assert.InDelta(t, 6.0, Sum(rows, tidy.ObservationValue, keep), 1e-9)

	assert.Nil(t, Where[tidy.Observation](nil))

	keep = Where[tidy.Observation](filter.All(filter.Year(2006), filter.Countries("A")))
	assert.InDelta(t, 2.0, Sum(rows, tidy.ObservationValue, keep), 1e-9)
}

func TestGroups(t *testing.T) {
	rows := []tidy.Observation{
		{Country: "B", Year: 2000, Value: tidy.Some(1)},
		{Country: "A", Year: 2000, Value: tidy.Some(2)},
		{Country: "B", Year: 2001, Value: tidy.Some(3)},
		{Country: "C", Year: 2000, Value: tidy.Missing},
	}
	byCountry := func(o tidy.Observation) string { return o.Country }

	assert.Equal(t, []Group{
		{Key: "B", Value: 4, Count: 2},
		{Key: "A", Value: 2, Count: 1},
	}, SumBy(rows, tidy.ObservationValue, byCountry, nil))

	assert.Equal(t, []Group{
		{Key: "B", Value: 2, Count: 2},
		{Key: "A", Value: 2, Count: 1},
	}, MeanBy(rows, tidy.ObservationValue, byCountry, nil))
}

func TestTopN(t *testing.T) {
	rows := []tidy.Observation{
		{Country: "A", Year: 2006, Value: tidy.Some(5)},
		{Country: "B", Year: 2006, Value: tidy.Some(9)},
		{Country: "C", Year: 2006, Value: tidy.Missing},
		{Country: "D", Year: 2006, Value: tidy.Some(5)},
		{Country: "E", Year: 2006, Value: tidy.Some(1)},
	}

	top := TopN(rows, tidy.ObservationValue, 3, nil)
	require.Len(t, top, 3)
	assert.Equal(t, "B", top[0].Country)
	assert.Equal(t, "A", top[1].Country)
	assert.Equal(t, "D", top[2].Country)

	assert.Len(t, TopN(rows, tidy.ObservationValue, 10, nil), 4)
	assert.Empty(t, TopN(rows, tidy.ObservationValue, 0, nil))
}
