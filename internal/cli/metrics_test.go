package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Text(t *testing.T) {
	out, _, err := execute(t, "metrics", "testdata/dashboard.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Summary year 2001")
	assert.Contains(t, out, "Total under-five population:   600")
	assert.Contains(t, out, "Top country:                   B 2001 (400)")
	assert.Contains(t, out, "Average under-five population: 300")
	assert.Contains(t, out, "Highest malaria deaths:        B 2000 (30)")
	assert.Contains(t, out, "Lowest malaria deaths:         A 2000 (10)")
	assert.Contains(t, out, "Highest deaths per under-five: A 2000 (0.1000)")
	assert.Contains(t, out, "Rows: 4 malaria, 4 population, 4 joined (0 dropped as missing)")
	assert.Contains(t, out, "Mean malaria deaths by country:\n  A                    15\n  B                    15\n")
	assert.Contains(t, out, "Under-five population by year:\n  2000                 1.6 k\n  2001                 600\n")
}

func TestMetrics_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "metrics", "testdata/dashboard.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		RunID  string        `json:"run_id"`
		Data   MetricsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.RunID, 36)
	require.NotNil(t, resp.Data.Summary)
	assert.Equal(t, 600.0, resp.Data.Summary.TotalUnderFive)
	assert.Equal(t, "A", resp.Data.Summary.HighestRatio.Country)
	assert.Equal(t, 4, resp.Data.Join.Rows)
	assert.Len(t, resp.Data.Population.ID, 64)

	require.Len(t, resp.Data.Breakdown.UnderFiveByYear, 2)
	assert.Equal(t, "2000", resp.Data.Breakdown.UnderFiveByYear[0].Key)
	assert.Equal(t, 1600.0, resp.Data.Breakdown.UnderFiveByYear[0].Value)
	assert.Equal(t, 2, resp.Data.Breakdown.UnderFiveByYear[0].Count)
}

func TestMetrics_MissingDataset(t *testing.T) {
	out, _, err := execute(t, "metrics", "testdata/missing_data.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
