package inventory

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

// normalizeColumnName makes header matching insensitive to case, padding and
// separators: "Stock levels", "stock_levels" and "STOCK-LEVELS" all match.
func normalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

var numberSanitizer = strings.NewReplacer(",", "", "$", "", "%", "", " ", "")

// MaxCellMagnitude bounds every numeric cell. Products and sums of bounded
// cells stay far inside float64 range.
const MaxCellMagnitude = 1e15

// parseNumber parses a loosely formatted numeric cell. ok is false when a
// non-empty cell could not be read as a finite number within MaxCellMagnitude.
func parseNumber(raw string) (value float64, ok bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, true
	}
	v = numberSanitizer.Replace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > MaxCellMagnitude {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"2006.01.02",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseDate tries the accepted date layouts in order; the first match wins,
// so ambiguous slash dates read day-first.
func parseDate(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
