package chart

import (
	"math/rand/v2"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/malviz/internal/canon"
	"github.com/roach88/malviz/internal/tidy"
)

func obs(country string, year int, v float64) tidy.Observation {
	return tidy.Observation{Country: country, Year: year, Value: tidy.Some(v)}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func underFives() *tidy.Table {
	return tidy.NewTable("under5", []tidy.Observation{
		obs("A", 2005, 1.0e6),
		obs("A", 2006, 1.2e6),
		obs("B", 2006, 3.0e6),
		obs("C", 2006, 2.1e6),
		{Country: "D", Year: 2006, Value: tidy.Missing},
	})
}

func TestRankedBar_Golden(t *testing.T) {
	spec, err := RankedBar(underFives(), RankOptions{Top: 10})
	require.NoError(t, err)

	data, err := canon.Snapshot(spec)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ranked_bar", data)
}

func TestRankedBar_TopAndYear(t *testing.T) {
	spec, err := RankedBar(underFives(), RankOptions{Year: 2006, Top: 2})
	require.NoError(t, err)

	require.Len(t, spec.Series, 1)
	s := spec.Series[0]
	assert.Equal(t, []string{"C", "B"}, s.Categories)
	assert.Equal(t, []string{"2.1M", "3.0M"}, s.Text)
	assert.Equal(t, "h", s.Style.Orientation)
	assert.Equal(t, "Top 2 by under5 (2006)", spec.Title)

	spec, err = RankedBar(underFives(), RankOptions{Year: 2005, Top: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, spec.Series[0].Categories)
	assert.Equal(t, []string{"#08306b"}, spec.Series[0].Colors)
}

func TestRankedBar_DefaultYearCapped(t *testing.T) {
	spec, err := RankedBar(underFives(), RankOptions{MaxYear: 2005, Top: 10})
	require.NoError(t, err)
	assert.Equal(t, "Top 1 by under5 (2005)", spec.Title)

	spec, err = RankedBar(underFives(), RankOptions{Top: 10})
	require.NoError(t, err)
	assert.Equal(t, "Top 3 by under5 (2006)", spec.Title)
}

func TestRankedBar_Errors(t *testing.T) {
	_, err := RankedBar(underFives(), RankOptions{Year: 1990, Top: 10})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = RankedBar(underFives(), RankOptions{Top: 0})
	assert.True(t, IsOptionError(err))

	_, err = RankedBar(tidy.NewTable("x", nil), RankOptions{Top: 3})
	assert.ErrorIs(t, err, ErrNoData)
}

func deaths() *tidy.Table {
	return tidy.NewTable("malaria", []tidy.Observation{
		obs("Zambia", 2023, 40),
		obs("Zambia", 2024, 38),
		obs("Zambia", 2025, 36),
		obs("Zambia", 2026, 35),
		obs("Namibia", 2024, 10),
		{Country: "Namibia", Year: 2025, Value: tidy.Missing},
	})
}

func TestTrendWithBand_Segments(t *testing.T) {
	opts := TrendOptions{
		Countries:      []string{"Zambia", "Namibia", "Nowhere"},
		ProjectionYear: 2024,
		BandMin:        0.3,
		BandMax:        0.7,
	}
	spec, err := TrendWithBand(deaths(), opts, newRand(1))
	require.NoError(t, err)

	require.Len(t, spec.Series, 3)
	assert.Equal(t, "Zambia", spec.Series[0].Name)
	assert.Equal(t, []float64{2023, 2024}, spec.Series[0].X)
	assert.Empty(t, spec.Series[0].Style.Dash)

	assert.Equal(t, "Zambia (projected)", spec.Series[1].Name)
	assert.Equal(t, []float64{2025, 2026}, spec.Series[1].X)
	assert.Equal(t, "dot", spec.Series[1].Style.Dash)
	assert.Equal(t, spec.Series[0].Style.Color, spec.Series[1].Style.Color)

	assert.Equal(t, "Namibia", spec.Series[2].Name)
	assert.Equal(t, []float64{10}, spec.Series[2].Y)

	require.Len(t, spec.Bands, 2)
	assert.Equal(t, "rgba(31,119,180,0.1)", spec.Bands[0].FillColor)
}

func TestTrendWithBand_BandBounds(t *testing.T) {
	tbl := deaths()
	before := append([]tidy.Observation(nil), tbl.Rows...)

	spec, err := TrendWithBand(tbl, TrendOptions{
		Countries:      []string{"Zambia"},
		ProjectionYear: 2024,
		BandMin:        0.3,
		BandMax:        0.7,
	}, newRand(7))
	require.NoError(t, err)

	const eps = 1e-9
	b := spec.Bands[0]
	hist := spec.Series[0].Y
	for i, v := range hist {
		assert.GreaterOrEqual(t, b.Upper[i]-v, 0.3-eps)
		assert.LessOrEqual(t, b.Upper[i]-v, 0.7+eps)
		assert.GreaterOrEqual(t, v-b.Lower[i], 0.3-eps)
		assert.LessOrEqual(t, v-b.Lower[i], 0.7+eps)
	}
	assert.Equal(t, before, tbl.Rows, "input table is not mutated")
}

func TestTrendWithBand_Deterministic(t *testing.T) {
	opts := TrendOptions{Countries: []string{"Zambia"}, ProjectionYear: 2024, BandMin: 0.3, BandMax: 0.7}

	a, err := TrendWithBand(deaths(), opts, newRand(42))
	require.NoError(t, err)
	b, err := TrendWithBand(deaths(), opts, newRand(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrendWithBand_Errors(t *testing.T) {
	opts := TrendOptions{Countries: []string{"Zambia"}, BandMin: 0.7, BandMax: 0.3}
	_, err := TrendWithBand(deaths(), opts, newRand(1))
	assert.True(t, IsOptionError(err))

	opts.BandMin, opts.BandMax = 0.3, 0.7
	_, err = TrendWithBand(deaths(), opts, nil)
	assert.True(t, IsOptionError(err))

	opts.Countries = []string{"Nowhere"}
	_, err = TrendWithBand(deaths(), opts, newRand(1))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestChoroplethByTime(t *testing.T) {
	tbl := tidy.NewTable("malaria", []tidy.Observation{
		obs("Zambia", 2001, 50),
		obs("Zambia", 2000, 100),
		obs("Namibia", 2000, 0),
		obs("Atlantis", 2001, 25),
		{Country: "Namibia", Year: 2002, Value: tidy.Missing},
	})

	spec, err := ChoroplethByTime(tbl, ChoroplethOptions{})
	require.NoError(t, err)

	require.Len(t, spec.Frames, 2, "years without data produce no frame")
	assert.Equal(t, 2000, spec.Frames[0].Year)
	assert.Equal(t, "2001", spec.Frames[1].Name)

	f0 := spec.Frames[0].Points
	require.Len(t, f0, 2)
	assert.Equal(t, Point{ID: "Namibia", Location: "NAM", Value: 0, Color: "#f7fbff"}, f0[0])
	assert.Equal(t, Point{ID: "Zambia", Location: "ZMB", Value: 100, Color: "#08306b"}, f0[1])

	assert.Equal(t, []string{"Atlantis"}, spec.Unmapped)
	assert.Equal(t, "ISO-3", spec.LocationMode)
	assert.Equal(t, "malaria", spec.ColorScale.Title)
}

func TestChoroplethByTime_Empty(t *testing.T) {
	_, err := ChoroplethByTime(tidy.NewTable("m", nil), ChoroplethOptions{})
	assert.ErrorIs(t, err, ErrNoData)
}

func bubbleInput() *tidy.Joined {
	return &tidy.Joined{
		LeftMetric:  "malaria",
		RightMetric: "under5",
		Rows: []tidy.JoinedRecord{
			{Country: "A", Year: 1989, Left: 99, Right: 9e6},
			{Country: "A", Year: 1990, Left: 20, Right: 2e6},
			{Country: "A", Year: 1991, Left: 40, Right: 4e6},
			{Country: "B", Year: 1990, Left: 50, Right: 1e6},
		},
	}
}

func bubbleOptions() BubbleOptions {
	return BubbleOptions{From: 1990, To: 2006, SizeScale: 300, Padding: 0.1, YMax: 100, FrameDuration: 1500}
}

func TestAnimatedBubble(t *testing.T) {
	spec, err := AnimatedBubble(bubbleInput(), bubbleOptions())
	require.NoError(t, err)

	require.Len(t, spec.Frames, 2)
	assert.Equal(t, 1990, spec.Frames[0].Year)
	assert.Equal(t, 1991, spec.Frames[1].Year)

	f0 := spec.Frames[0].Points
	require.Len(t, f0, 2)
	assert.Equal(t, "A", f0[0].ID)
	assert.InDelta(t, 600.0, f0[0].Size, 1e-9)
	assert.Equal(t, spec.Frames[1].Points[0].Color, f0[0].Color, "colour is stable per country")
	assert.NotEqual(t, f0[0].Color, f0[1].Color)

	assert.InDelta(t, 0.9e6, spec.XAxis.Range.Min, 1e-6)
	assert.InDelta(t, 4.4e6, spec.XAxis.Range.Max, 1e-6)
	assert.InDelta(t, 18.0, spec.YAxis.Range.Min, 1e-9)
	assert.Equal(t, 100.0, spec.YAxis.Range.Max)
	assert.Equal(t, &Animation{FrameDuration: 1500, Group: "country"}, spec.Animation)
}

func TestAnimatedBubble_NoCap(t *testing.T) {
	opts := bubbleOptions()
	opts.YMax = 0

	spec, err := AnimatedBubble(bubbleInput(), opts)
	require.NoError(t, err)
	assert.InDelta(t, 55.0, spec.YAxis.Range.Max, 1e-9)
}

func TestAnimatedBubble_CapBelowData(t *testing.T) {
	j := &tidy.Joined{
		LeftMetric:  "malaria",
		RightMetric: "under5",
		Rows: []tidy.JoinedRecord{
			{Country: "A", Year: 1990, Left: 150, Right: 2e6},
			{Country: "B", Year: 1990, Left: 400, Right: 1e6},
		},
	}

	spec, err := AnimatedBubble(j, bubbleOptions())
	require.NoError(t, err)
	assert.InDelta(t, 135.0, spec.YAxis.Range.Min, 1e-9)
	assert.InDelta(t, 440.0, spec.YAxis.Range.Max, 1e-9)
	assert.Less(t, spec.YAxis.Range.Min, spec.YAxis.Range.Max)
}

func TestAnimatedBubble_Errors(t *testing.T) {
	opts := bubbleOptions()
	opts.From, opts.To = 2010, 2020
	_, err := AnimatedBubble(bubbleInput(), opts)
	assert.ErrorIs(t, err, ErrNoData)

	opts = bubbleOptions()
	opts.FrameDuration = 0
	_, err = AnimatedBubble(bubbleInput(), opts)
	assert.True(t, IsOptionError(err))
}

func TestStackedArea(t *testing.T) {
	spec, err := StackedArea(deaths(), AreaOptions{Countries: []string{"Namibia", "Zambia"}})
	require.NoError(t, err)

	require.Len(t, spec.Series, 2)
	assert.Equal(t, []float64{2024}, spec.Series[0].X, "missing values are gaps")
	assert.Equal(t, "one", spec.Series[1].Style.StackGroup)
	assert.Equal(t, "lines+markers", spec.Series[1].Style.Mode)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("pie")
	assert.ErrorContains(t, err, "unknown chart kind")
}

func TestColorAt(t *testing.T) {
	s := bluesScale(0, 8)
	assert.Equal(t, "#f7fbff", s.colorAt(0))
	assert.Equal(t, "#6baed6", s.colorAt(4))
	assert.Equal(t, "#08306b", s.colorAt(8))
	assert.Equal(t, "#08306b", s.colorAt(100), "clamped")

	flat := bluesScale(5, 5)
	assert.Equal(t, "#08306b", flat.colorAt(5))
}
