package testutil

import (
	"strings"

	"github.com/roach88/malviz/internal/tidy"
)

// Wide builds a wide table from comma-separated lines. The first line is
// the header. Cells are not trimmed or unquoted.
func Wide(header string, rows ...string) tidy.WideTable {
	w := tidy.WideTable{Columns: strings.Split(header, ",")}
	for _, r := range rows {
		w.Rows = append(w.Rows, strings.Split(r, ","))
	}
	return w
}
