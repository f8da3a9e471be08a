package page

import (
	"github.com/andybalholm/cascadia"
)

// Strategy tries to pick the results table from a page.
type Strategy func(p Page) (*Table, bool)

// DefaultStrategies is the ordered chain used by Locate: well-known class and
// id names first, then the table with the most rows.
var DefaultStrategies = []Strategy{
	BySelector(cascadia.MustCompile("table.results-table")),
	BySelector(cascadia.MustCompile("table.results")),
	BySelector(cascadia.MustCompile("table#results-table")),
	BySelector(cascadia.MustCompile("table#results")),
	LargestTable,
}

// BySelector returns a strategy picking the first table matched by sel.
func BySelector(sel cascadia.Selector) Strategy {
	return func(p Page) (*Table, bool) {
		tables := p.FindTables(sel)
		if len(tables) == 0 {
			return nil, false
		}
		return tables[0], true
	}
}

// LargestTable picks the table with the most rows; ties go to the earlier table.
func LargestTable(p Page) (*Table, bool) {
	var best *Table
	bestRows := -1
	for _, t := range p.Tables() {
		if n := t.RowCount(); n > bestRows {
			best, bestRows = t, n
		}
	}
	return best, best != nil
}

// Locate returns the table most likely to hold results.
// ok is false when the page has no tables.
func Locate(p Page) (*Table, bool) {
	return LocateWith(p, DefaultStrategies)
}

// LocateWith runs strategies in order and returns the first match.
func LocateWith(p Page, strategies []Strategy) (*Table, bool) {
	for _, s := range strategies {
		if t, ok := s(p); ok {
			return t, true
		}
	}
	return nil, false
}
