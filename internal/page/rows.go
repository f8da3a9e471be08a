package page

import (
	"iter"

	"github.com/pfrederiksen/swim-archive/internal/result"
)

// HeaderTexts returns the cell texts of the table's first row.
func HeaderTexts(t *Table) []string {
	rows := t.Rows()
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, 0, len(rows[0]))
	for _, c := range rows[0] {
		headers = append(headers, c.Text)
	}
	return headers
}

// ExtractRows yields one record per data row of t, skipping the header row.
//
// Cells are expanded by their colspan before columns are read. Rows too short
// to reach the name, event and time columns are skipped, as are rows with an
// empty name or time. The sequence can be ranged over more than once.
func ExtractRows(t *Table, m ColumnMapping) iter.Seq[result.Record] {
	return func(yield func(result.Record) bool) {
		rows := t.Rows()
		if len(rows) < 2 {
			return
		}

		for _, cells := range rows[1:] {
			rec, ok := extractRow(cells, m)
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Extract maps the header of t and collects every record.
func Extract(t *Table) []result.Record {
	m := MapColumns(HeaderTexts(t))
	records := make([]result.Record, 0)
	for rec := range ExtractRows(t, m) {
		records = append(records, rec)
	}
	return records
}

func extractRow(cells []Cell, m ColumnMapping) (result.Record, bool) {
	texts := expandCells(cells)
	if len(texts) <= m.maxRequired() {
		return result.Record{}, false
	}

	name := cellAt(texts, m.Name)
	rawTime := cellAt(texts, m.Time)
	if name == "" || rawTime == "" {
		return result.Record{}, false
	}

	rec := result.NewRecord(
		name,
		cellAt(texts, m.Event),
		rawTime,
		cellAt(texts, m.Splits),
		cellAt(texts, m.Club),
		cellAt(texts, m.Date),
	)
	return rec, true
}

// expandCells repeats each cell's text once per spanned column.
func expandCells(cells []Cell) []string {
	texts := make([]string, 0, len(cells))
	for _, c := range cells {
		span := c.Span
		if span < 1 {
			span = 1
		}
		for i := 0; i < span; i++ {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

func cellAt(texts []string, idx int) string {
	if idx < 0 || idx >= len(texts) {
		return ""
	}
	return texts[idx]
}
