// Package page parses archive HTML pages and extracts result records from them.
//
// A parsed page is exposed through the Page interface: its tables, its links,
// and tables matching a compiled selector. On top of that the package locates
// the table most likely to hold results, infers which column carries which
// field from the header row, and walks the data rows producing result records.
// Malformed rows are skipped, never reported.
package page
