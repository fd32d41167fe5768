// Package aggregate turns filtered spreadsheet rows into the dashboard
// aggregates: downtime Pareto, production OEE, breakage rates and stock
// snapshots. All builders are pure functions over an immutable row slice;
// running one twice over the same input produces identical output.
package aggregate

import (
	"fmt"
	"time"

	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/internal/parse"
)

// Range is an inclusive calendar-day window. Start is normalized to
// 00:00:00 and End to 23:59:59 of their days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a Range from YYYY-MM-DD query parameters.
func NewRange(start, end string) (Range, error) {
	s, err := time.ParseInLocation("2006-01-02", start, time.Local)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.ParseInLocation("2006-01-02", end, time.Local)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return Range{
		Start: s,
		End:   e.Add(24*time.Hour - time.Second),
	}, nil
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Key renders the range for cache keys and log fields.
func (r Range) Key() string {
	return r.Start.Format("2006-01-02") + "_" + r.End.Format("2006-01-02")
}

// DatedRow pairs a row with its parsed calendar date so each aggregator
// parses the date column once.
type DatedRow struct {
	Row  domain.RawRow
	Date time.Time
}

// FilterByDate keeps rows whose date column parses and falls inside r.
// Rows with unparseable dates are dropped silently.
func FilterByDate(rows []domain.RawRow, column string, r Range) []DatedRow {
	out := make([]DatedRow, 0, len(rows))
	for _, row := range rows {
		d, ok := parse.Date(row.Get(column))
		if !ok || !r.Contains(d) {
			continue
		}
		out = append(out, DatedRow{Row: row, Date: d})
	}
	return out
}
