package page

import "strings"

// Field is a semantic column of a results table.
type Field string

const (
	FieldName   Field = "name"
	FieldEvent  Field = "event"
	FieldTime   Field = "time"
	FieldSplits Field = "splits"
	FieldClub   Field = "club"
	FieldDate   Field = "date"
)

// Unmapped marks a field with no column.
const Unmapped = -1

// headerKeywords is tested in order against each header cell; the first
// category with a matching keyword claims the cell.
var headerKeywords = []struct {
	field    Field
	keywords []string
}{
	{FieldName, []string{"name", "swimmer", "athlete"}},
	{FieldEvent, []string{"event", "race"}},
	{FieldTime, []string{"time", "result"}},
	{FieldSplits, []string{"split"}},
	{FieldClub, []string{"club", "team"}},
	{FieldDate, []string{"date", "meet"}},
}

// ColumnMapping holds the zero-based column index of each field.
// Name, Event and Time are always assigned; the rest may be Unmapped.
type ColumnMapping struct {
	Name   int
	Event  int
	Time   int
	Splits int
	Club   int
	Date   int
}

// DefaultMapping is the positional layout assumed when headers say nothing:
// name, event, time in the first three columns.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		Name:   0,
		Event:  1,
		Time:   2,
		Splits: Unmapped,
		Club:   Unmapped,
		Date:   Unmapped,
	}
}

// Index returns the column for f, or Unmapped.
func (m ColumnMapping) Index(f Field) int {
	switch f {
	case FieldName:
		return m.Name
	case FieldEvent:
		return m.Event
	case FieldTime:
		return m.Time
	case FieldSplits:
		return m.Splits
	case FieldClub:
		return m.Club
	case FieldDate:
		return m.Date
	}
	return Unmapped
}

// maxRequired is the highest of the name, event and time columns.
func (m ColumnMapping) maxRequired() int {
	return max(m.Name, m.Event, m.Time)
}

// MapColumns infers the column mapping from header cell texts.
//
// A header claims the first field whose keyword it contains. When several
// headers claim the same field the rightmost one wins. Name, event and time
// fall back to columns 0, 1 and 2.
func MapColumns(headers []string) ColumnMapping {
	found := make(map[Field]int)

	for i, h := range headers {
		if f, ok := classifyHeader(h); ok {
			found[f] = i
		}
	}

	m := DefaultMapping()
	for f, idx := range found {
		switch f {
		case FieldName:
			m.Name = idx
		case FieldEvent:
			m.Event = idx
		case FieldTime:
			m.Time = idx
		case FieldSplits:
			m.Splits = idx
		case FieldClub:
			m.Club = idx
		case FieldDate:
			m.Date = idx
		}
	}
	return m
}

func classifyHeader(header string) (Field, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, hk := range headerKeywords {
		for _, kw := range hk.keywords {
			if strings.Contains(h, kw) {
				return hk.field, true
			}
		}
	}
	return "", false
}
