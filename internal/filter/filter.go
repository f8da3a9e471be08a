// Package filter narrows lists of swim results by event criteria.
//
// Results can be filtered on:
//   - Distances (exact, e.g. "100m")
//   - Strokes (Freestyle, Backstroke, Breaststroke, Butterfly, IM)
//   - Courses (SCM or LCM)
//   - Date ranges (from/to dates, inclusive)
//
// Within one criterion any listed value may match; every active criterion must
// match. A record whose date cannot be read is never excluded by a date range.
//
// Example usage:
//
//	// Long course freestyle swims since 2020
//	f := filter.NewFilter()
//	f.Strokes = []result.Stroke{result.StrokeFreestyle}
//	f.Courses = []result.Course{result.CourseLCM}
//	f.DateFrom, _ = filter.ParseDate("2020-01-01")
//
//	filtered := f.Apply(records)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/result"
)

// Filter represents record filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Distances []string        `json:"distances,omitempty"`
	Strokes   []result.Stroke `json:"strokes,omitempty"`
	Courses   []result.Course `json:"courses,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all records until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Distances: []string{},
		Strokes:   []result.Stroke{},
		Courses:   []result.Course{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Distances) == 0 &&
		len(f.Strokes) == 0 &&
		len(f.Courses) == 0
}

// Matches checks if a record matches all active filter criteria.
// An empty filter matches all records.
func (f *Filter) Matches(rec result.Record) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil {
		if date, ok := parseRecordDate(rec.Date); ok {
			if f.DateFrom != nil && date.Before(*f.DateFrom) {
				return false
			}
			if f.DateTo != nil && date.After(*f.DateTo) {
				return false
			}
		}
	}

	if len(f.Distances) > 0 && !containsFold(f.Distances, normalizeDistance(rec.Distance)) {
		return false
	}

	if len(f.Strokes) > 0 && !contains(f.Strokes, rec.Stroke) {
		return false
	}

	if len(f.Courses) > 0 && !contains(f.Courses, rec.Course) {
		return false
	}

	return true
}

// Apply returns the records that match the filter, keeping their order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(records []result.Record) []result.Record {
	if f.IsEmpty() {
		return records
	}

	filtered := make([]result.Record, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Jan 2, 2020 | Distances: 100m | Strokes: Freestyle | Courses: LCM"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Distances) > 0 {
		parts = append(parts, fmt.Sprintf("Distances: %s", strings.Join(f.Distances, ", ")))
	}
	if len(f.Strokes) > 0 {
		parts = append(parts, fmt.Sprintf("Strokes: %s", joinValues(f.Strokes)))
	}
	if len(f.Courses) > 0 {
		parts = append(parts, fmt.Sprintf("Courses: %s", joinValues(f.Courses)))
	}

	return strings.Join(parts, " | ")
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, x := range values {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
