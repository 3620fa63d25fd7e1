package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/malviz/internal/tidy"
)

func TestReadCSV(t *testing.T) {
	in := "\ufeffcountry,2000,2001\nA,1.5,12k\n,,\nB,3\n"

	w, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"country", "2000", "2001"}, w.Columns)
	assert.Equal(t, [][]string{{"A", "1.5", "12k"}, {"B", "3"}}, w.Rows)
}

func TestReadCSV_Empty(t *testing.T) {
	w, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, w.Columns)
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("country,2000\n\"A,1\n"))
	require.Error(t, err)
}

func TestLoadFile_CSVMelts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deaths.csv")
	require.NoError(t, os.WriteFile(path, []byte("country,2000,2001\nA,1,2\nB,3,4\n"), 0o644))

	w, err := LoadFile(path, "")
	require.NoError(t, err)

	raw, err := tidy.Melt(w, "country", "malaria")
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 4)
}

func TestLoadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pop.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"country", "2000", "2001"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A", "1.2M", "340"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	w, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"country", "2000", "2001"}, w.Columns)
	assert.Equal(t, [][]string{{"A", "1.2M", "340"}}, w.Rows)

	_, err = LoadFile(path, "Missing")
	require.Error(t, err)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), "")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, err = LoadFile(path, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
