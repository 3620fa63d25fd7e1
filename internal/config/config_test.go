package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CUE(t *testing.T) {
	d, err := Load("testdata/dashboard.cue")
	require.NoError(t, err)

	assert.Equal(t, "Test dashboard", d.Title)
	assert.Equal(t, filepath.Join("testdata", "data", "malaria.csv"), d.Datasets.Malaria.Path)
	assert.Equal(t, "country", d.Datasets.Malaria.IDColumn)
	assert.Equal(t, "malaria_deaths", d.Datasets.Malaria.Metric)
	assert.False(t, d.Datasets.Malaria.Magnitude)

	assert.Equal(t, "under5_population", d.Datasets.Population.Metric)
	assert.True(t, d.Datasets.Population.Magnitude)
	assert.Equal(t, "Sheet1", d.Datasets.Population.Sheet)

	assert.Equal(t, []string{"Zambia", "Namibia"}, d.Countries)
	assert.Equal(t, Ranking{Year: 2006, Top: 10}, d.Ranking)
}

func TestLoad_Defaults(t *testing.T) {
	d, err := ParseCUE([]byte(`
		datasets: malaria: path: "m.csv"
		datasets: population: path: "p.csv"
	`), "defaults.cue")
	require.NoError(t, err)

	assert.Equal(t, []string{"Zambia", "Namibia", "Lao", "Vanuatu", "Cambodia"}, d.Countries)
	assert.Equal(t, 2024, d.ProjectionYear)
	assert.Equal(t, int64(1), d.Seed)
	assert.Equal(t, Band{Min: 0.3, Max: 0.7}, d.Band)
	assert.Equal(t, Ranking{Year: 0, Top: 10}, d.Ranking)
	assert.Equal(t, 0, d.SummaryYear)
	assert.Equal(t, Bubble{From: 1990, To: 2006, SizeScale: 300, Padding: 0.1, YMax: 100, FrameMS: 1500}, d.Bubble)
}

func TestLoad_YAML(t *testing.T) {
	d, err := Load("testdata/dashboard.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "malaria.csv"), d.Datasets.Malaria.Path)
	assert.Equal(t, "/abs/population.csv", d.Datasets.Population.Path)
	assert.False(t, d.Datasets.Population.Magnitude)
	assert.Equal(t, Band{Min: 0.1, Max: 0.2}, d.Band)
	assert.Zero(t, d.Bubble.YMax)
	assert.Equal(t, 300.0, d.Bubble.SizeScale)
}

func TestLoad_Directory(t *testing.T) {
	d, err := Load("testdata/dir")
	require.NoError(t, err)

	assert.Equal(t, int64(7), d.Seed)
	assert.Equal(t, filepath.Join("testdata", "dir", "m.csv"), d.Datasets.Malaria.Path)
}

func TestParseCUE_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		message string
	}{
		{
			name:  "missing dataset path",
			src:   `datasets: malaria: path: "m.csv"`,
			field: "datasets.population.path",
		},
		{
			name: "unknown field",
			src: `
				datasets: malaria: path: "m.csv"
				datasets: population: path: "p.csv"
				colour: "red"
			`,
			field: "colour",
		},
		{
			name: "band inverted",
			src: `
				datasets: malaria: path: "m.csv"
				datasets: population: path: "p.csv"
				band: {min: 0.9, max: 0.1}
			`,
			field:   "band",
			message: "exceeds max",
		},
		{
			name: "bubble years inverted",
			src: `
				datasets: malaria: path: "m.csv"
				datasets: population: path: "p.csv"
				bubble: {from: 2006, to: 1990}
			`,
			field: "bubble",
		},
		{
			name: "negative top",
			src: `
				datasets: malaria: path: "m.csv"
				datasets: population: path: "p.csv"
				ranking: top: -1
			`,
			field: "ranking.top",
		},
		{
			name: "empty countries",
			src: `
				datasets: malaria: path: "m.csv"
				datasets: population: path: "p.csv"
				countries: []
			`,
			field: "countries",
		},
		{
			name:  "syntax",
			src:   `datasets: {`,
			field: "cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.src), "bad.cue")
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			if tt.message != "" {
				assert.Contains(t, ce.Message, tt.message)
			}
		})
	}
}

func TestCompileError_Position(t *testing.T) {
	_, err := ParseCUE([]byte("datasets: malaria: path: \"m.csv\"\ndatasets: population: path: \"p.csv\"\nseed: \"x\"\n"), "pos.cue")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.True(t, ce.Pos.IsValid())
	assert.Contains(t, err.Error(), ".cue:")
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte("datasets: [unclosed"))
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "yaml", ce.Field)
}

func TestFromMap_Overrides(t *testing.T) {
	d, err := FromMap(map[string]any{
		"datasets": map[string]any{
			"malaria":    map[string]any{"path": "m.csv"},
			"population": map[string]any{"path": "p.csv"},
		},
		"countries": []any{"A", "B"},
		"ranking":   map[string]any{"top": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, d.Countries)
	assert.Equal(t, 3, d.Ranking.Top)

	d.ResolvePaths("/data")
	assert.Equal(t, "/data/m.csv", d.Datasets.Malaria.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "unsupported file type")
}
