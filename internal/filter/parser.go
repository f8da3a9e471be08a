package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/result"
)

// dateFormats are the layouts archive pages use for meet dates.
var dateFormats = []string{
	"2006-01-02",
	"2/1/2006",
	"02/01/2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseStroke reads a stroke name or abbreviation such as "free", "fly" or "IM".
func ParseStroke(s string) (result.Stroke, error) {
	stroke := result.ClassifyEvent(s).Stroke
	if stroke == result.StrokeUnknown {
		return "", fmt.Errorf("unknown stroke: %q", s)
	}
	return stroke, nil
}

// ParseCourse reads "scm", "lcm", "short" or "long" (any case).
func ParseCourse(s string) (result.Course, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scm", "short", "short course":
		return result.CourseSCM, nil
	case "lcm", "long", "long course":
		return result.CourseLCM, nil
	}
	return "", fmt.Errorf("unknown course: %q (must be 'scm' or 'lcm')", s)
}

// ParseDistance accepts "100", "100m" or "100 m" and returns "100m".
func ParseDistance(s string) (string, error) {
	d := normalizeDistance(s)
	n, err := strconv.Atoi(strings.TrimSuffix(d, "m"))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid distance: %q", s)
	}
	return d, nil
}

// ParseDate reads a date in one of the layouts used on results pages.
func ParseDate(s string) (*time.Time, error) {
	t, ok := parseRecordDate(s)
	if !ok {
		return nil, fmt.Errorf("invalid date: %q (use YYYY-MM-DD)", s)
	}
	return &t, nil
}

// Parse builds a filter from raw values as given on the command line or in a
// query string. Empty values leave the criterion unset.
func Parse(distances, strokes, courses []string, from, to string) (*Filter, error) {
	f := NewFilter()

	for _, raw := range nonEmpty(distances) {
		d, err := ParseDistance(raw)
		if err != nil {
			return nil, err
		}
		f.Distances = append(f.Distances, d)
	}
	for _, raw := range nonEmpty(strokes) {
		s, err := ParseStroke(raw)
		if err != nil {
			return nil, err
		}
		f.Strokes = append(f.Strokes, s)
	}
	for _, raw := range nonEmpty(courses) {
		c, err := ParseCourse(raw)
		if err != nil {
			return nil, err
		}
		f.Courses = append(f.Courses, c)
	}

	if strings.TrimSpace(from) != "" {
		d, err := ParseDate(from)
		if err != nil {
			return nil, err
		}
		f.DateFrom = d
	}
	if strings.TrimSpace(to) != "" {
		d, err := ParseDate(to)
		if err != nil {
			return nil, err
		}
		// Inclusive of the whole end day
		end := d.Add(24*time.Hour - time.Second)
		f.DateTo = &end
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return nil, fmt.Errorf("start date must be before end date")
	}
	return f, nil
}

func parseRecordDate(s string) (time.Time, bool) {
	normalized := strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeDistance(s string) string {
	d := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if d != "" && !strings.HasSuffix(d, "m") {
		d += "m"
	}
	return d
}

// nonEmpty trims values and splits comma separated lists.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
