package page

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Link is an anchor with an href attribute.
type Link struct {
	Href string
	Text string
}

// Cell is a table cell with its trimmed text and horizontal span.
type Cell struct {
	Text  string
	Span  int
	Links []Link
}

// Page is the capability set the extractor needs from a parsed page.
type Page interface {
	// URL is the address the page was fetched from.
	URL() string
	// Tables returns every table in document order.
	Tables() []*Table
	// FindTables returns the tables matched by m in document order.
	FindTables(m goquery.Matcher) []*Table
	// Links returns every anchor carrying an href, in document order.
	Links() []Link
}

var (
	tableMatcher = cascadia.MustCompile("table")
	rowMatcher   = cascadia.MustCompile("tr")
	cellMatcher  = cascadia.MustCompile("td, th")
	linkMatcher  = cascadia.MustCompile("a[href]")
)

// Document is a Page backed by a goquery document.
type Document struct {
	doc *goquery.Document
	url string
}

// ParseError reports markup that could not be read into a document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing HTML: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads HTML from r. sourceURL is recorded for link resolution.
func Parse(r io.Reader, sourceURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &Document{doc: doc, url: sourceURL}, nil
}

// URL returns the source URL of the document
func (d *Document) URL() string {
	return d.url
}

// Tables returns all tables in the document
func (d *Document) Tables() []*Table {
	return d.FindTables(tableMatcher)
}

// FindTables returns tables matched by m
func (d *Document) FindTables(m goquery.Matcher) []*Table {
	tables := make([]*Table, 0)
	d.doc.FindMatcher(m).Each(func(i int, sel *goquery.Selection) {
		if goquery.NodeName(sel) != "table" {
			return
		}
		tables = append(tables, &Table{sel: sel})
	})
	return tables
}

// Links returns all anchors with an href
func (d *Document) Links() []Link {
	return links(d.doc.Selection)
}

// Table is a single HTML table.
type Table struct {
	sel *goquery.Selection
}

// RowCount returns the number of tr elements inside the table, nested tables included.
func (t *Table) RowCount() int {
	return t.sel.FindMatcher(rowMatcher).Length()
}

// Rows returns the cells of each row in document order.
func (t *Table) Rows() [][]Cell {
	rows := make([][]Cell, 0)
	t.sel.FindMatcher(rowMatcher).Each(func(i int, tr *goquery.Selection) {
		cells := make([]Cell, 0)
		tr.FindMatcher(cellMatcher).Each(func(j int, td *goquery.Selection) {
			cells = append(cells, Cell{
				Text:  strings.TrimSpace(td.Text()),
				Span:  colspan(td),
				Links: links(td),
			})
		})
		rows = append(rows, cells)
	})
	return rows
}

// maxColspan mirrors the HTML limit on colspan.
const maxColspan = 1000

// colspan reads the colspan attribute; missing or invalid values count as 1.
func colspan(sel *goquery.Selection) int {
	v, ok := sel.Attr("colspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxColspan)
}

func links(sel *goquery.Selection) []Link {
	out := make([]Link, 0)
	sel.FindMatcher(linkMatcher).Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		out = append(out, Link{
			Href: href,
			Text: strings.TrimSpace(a.Text()),
		})
	})
	return out
}
