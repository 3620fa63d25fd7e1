package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const failingScenario = `
name: failing
description: "Expects the wrong total"
datasets:
  malaria:
    csv: |
      country,2000
      A,1
  population:
    csv: |
      country,2000
      A,10
config:
  countries: [A]
assertions:
  - type: metric
    metric: total_under_five
    value: 11
`

func TestTestCommand_Passes(t *testing.T) {
	out, _, err := execute(t, "test", "testdata/scenarios")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ basic")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_Fails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(failingScenario), 0644))

	out, _, err := execute(t, "test", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "expected 11, got 10")
}

func TestTestCommand_FailsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(failingScenario), 0644))

	out, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, "1 scenario(s) failed", resp.Error.Message)
}

func TestTestCommand_Golden(t *testing.T) {
	dir := t.TempDir()
	scenario, err := os.ReadFile("testdata/scenarios/basic.yaml")
	require.NoError(t, err)
	path := filepath.Join(dir, "basic.yaml")
	require.NoError(t, os.WriteFile(path, scenario, 0644))

	out, _, err := execute(t, "test", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ basic (golden updated)")
	golden := filepath.Join(dir, "golden", "basic.golden")
	assert.FileExists(t, golden)

	_, _, err = execute(t, "test", path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0644))
	out, _, err = execute(t, "test", path)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestTestCommand_Filter(t *testing.T) {
	out, _, err := execute(t, "test", "testdata/scenarios", "--filter", "nothing-*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommand_MissingPath(t *testing.T) {
	_, _, err := execute(t, "test", "testdata/nowhere")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario path not found")
}

func TestCollectScenarios_SortsAndDedupes(t *testing.T) {
	files, err := collectScenarios([]string{
		"testdata/scenarios/basic.yaml",
		"testdata/scenarios",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "basic.yaml")}, files)
}

func TestCollectScenarios_BadFilter(t *testing.T) {
	_, err := collectScenarios([]string{"testdata/scenarios"}, "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
