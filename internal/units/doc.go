// Package units converts between human-readable magnitude strings and
// numbers.
//
// The population dataset writes counts as "12.3k" or "4.5M". ParseMagnitude
// turns those into float64 values; FormatMagnitude renders values back into
// the one-decimal "1.2M" / "340.0K" labels used on ranked bar charts.
//
// Suffixes are case-sensitive: "k" means thousands and "M" means millions.
// "K" and "m" are not recognised and fail to parse.
package units
