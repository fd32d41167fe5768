// Package parse converts raw spreadsheet cell strings into typed values.
//
// The plant workbook mixes date formats (DD/MM/YYYY, YYYY-MM-DD, two-digit
// years), LATAM and US number formats, and free-text names that differ only
// by case or accents. Every function here recovers with a safe default
// instead of returning an error, so one malformed cell never aborts an
// aggregation.
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Date parses a calendar date out of a raw cell. Supported shapes:
//
//	DD/MM/YYYY and DD/MM/YY (two-digit years expand to 2000+YY)
//	YYYY-MM-DD (ISO)
//	DD-MM-YYYY and DD-MM-YY
//
// The result is normalized to local midnight so that the same calendar day
// always yields the same key regardless of the source format. Unparseable
// input returns ok=false; the row is dropped downstream, never an error.
func Date(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	if strings.Contains(cleaned, "/") {
		return dayMonthYear(strings.Split(cleaned, "/"))
	}

	if strings.Contains(cleaned, "-") {
		parts := strings.Split(cleaned, "-")
		if len(parts) == 3 && len(parts[0]) == 4 {
			// ISO: YYYY-MM-DD
			y, errY := strconv.Atoi(parts[0])
			m, errM := strconv.Atoi(parts[1])
			d, errD := strconv.Atoi(parts[2])
			if errY != nil || errM != nil || errD != nil || m < 1 || m > 12 || d < 1 || d > 31 {
				return time.Time{}, false
			}
			return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
		}
		return dayMonthYear(parts)
	}

	return time.Time{}, false
}

func dayMonthYear(parts []string) (time.Time, bool) {
	if len(parts) != 3 {
		return time.Time{}, false
	}
	d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	if y < 100 {
		y += 2000
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
}

// DayKey renders a date as DD/MM for daily history buckets.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%02d/%02d", t.Day(), int(t.Month()))
}

// Number parses a quantity cell that may use LATAM (1.200,50) or US
// (1,200.50-style comma decimals are NOT expected here) formatting, or carry
// a trailing %. Empty or non-numeric input yields 0.
//
// Separator resolution, in priority order:
//  1. both '.' and ',' present: '.' is a thousands separator, ',' decimal.
//  2. only '.' present: treated as a thousands separator and removed, even
//     when it occurs once. Quantities in this workbook are integers in
//     practice ("1.200" means twelve hundred bags). Known domain assumption,
//     pending confirmation from the data source format; do not generalize.
//  3. only ',' present: decimal comma.
func Number(raw string) float64 {
	str := strings.TrimSpace(raw)
	if str == "" {
		return 0
	}

	percent := strings.Contains(str, "%")
	if percent {
		str = strings.TrimSpace(strings.ReplaceAll(str, "%", ""))
	}

	hasDot := strings.Contains(str, ".")
	hasComma := strings.Contains(str, ",")
	switch {
	case hasDot && hasComma:
		str = strings.ReplaceAll(str, ".", "")
		str = strings.Replace(str, ",", ".", 1)
	case hasDot:
		str = strings.ReplaceAll(str, ".", "")
	case hasComma:
		str = strings.Replace(str, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0
	}
	if percent {
		return f / 100
	}
	return f
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CleanName canonicalizes a free-text name for grouping: trim, uppercase,
// accents removed, so "Rápido" and "RAPIDO" collapse to the same key.
func CleanName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// StrictKey is CleanName with everything but letters and digits removed,
// for fuzzy matching where punctuation varies between sheets.
func StrictKey(raw string) string {
	var b strings.Builder
	for _, r := range CleanName(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SafeSeriesKey converts a display name into an identifier usable as a chart
// data-series key: no leading digit, no special characters. The display name
// is kept separately; this never feeds back into business logic.
func SafeSeriesKey(raw string) string {
	var b strings.Builder
	b.WriteString("id_")
	for _, r := range strings.TrimSpace(raw) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// DurationToMinutes converts a duration cell to whole minutes.
// Three segments are H:MM:SS; two segments are M:S per the downtime sheet's
// convention. Anything else is 0.
func DurationToMinutes(raw string) int {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	switch len(parts) {
	case 3:
		h := atoiSafe(parts[0])
		m := atoiSafe(parts[1])
		s := atoiSafe(parts[2])
		return h*60 + m + int(math.Round(float64(s)/60))
	case 2:
		m := atoiSafe(parts[0])
		s := atoiSafe(parts[1])
		return int(math.Round(float64(m) + float64(s)/60))
	default:
		return 0
	}
}

// ClockHHMM normalizes a time-of-day cell ("6:5:00", "14:30:15") to zero
// padded HH:MM. Malformed input yields "00:00".
func ClockHHMM(raw string) string {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", atoiSafe(parts[0]), atoiSafe(parts[1]))
}

// ClockMinutes returns minutes since midnight for an HH:MM string.
func ClockMinutes(hhmm string) int {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) < 2 {
		return 0
	}
	return atoiSafe(parts[0])*60 + atoiSafe(parts[1])
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
