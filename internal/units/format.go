package units

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatMagnitude renders v with one decimal in millions ("1.2M") when
// v >= 1e6, and in thousands ("340.0K", "0.3K") otherwise.
func FormatMagnitude(v float64) string {
	if v >= Million {
		return fmt.Sprintf("%.1fM", v/Million)
	}
	return fmt.Sprintf("%.1fK", v/Thousand)
}

// FormatSI renders v with an SI prefix and at most one decimal, e.g.
// "12.3 M" or "1.6 k". Values below 1,000 carry no prefix: "600".
func FormatSI(v float64) string {
	return strings.TrimSpace(humanize.SIWithDigits(v, 1, ""))
}

// FormatCount renders v with thousands separators and at most two decimals.
func FormatCount(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}
