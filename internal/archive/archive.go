// Package archive searches a swimming federation results archive for an
// athlete's performances.
//
// A search reads the archive's results index, follows a bounded number of
// candidate result pages, extracts every results table row and keeps the rows
// whose athlete name (and optionally club) match. One failing page never
// aborts a search; only an unreachable index does.
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/swim-archive/internal/logger"
	"github.com/pfrederiksen/swim-archive/internal/page"
	"github.com/pfrederiksen/swim-archive/internal/result"
)

const (
	DefaultBaseURL  = "https://archive.swimming.org.nz"
	ResultsIndex    = "/results.html"
	DefaultMaxPages = 10
)

// Fetcher loads and parses a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (page.Page, error)
}

// Archive runs searches against one archive site
type Archive struct {
	fetcher  Fetcher
	baseURL  string
	maxPages int
}

// New creates an Archive. A non-positive maxPages means DefaultMaxPages.
func New(f Fetcher, baseURL string, maxPages int) *Archive {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Archive{
		fetcher:  f,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: maxPages,
	}
}

// IndexURL returns the address of the results index page
func (a *Archive) IndexURL() string {
	return a.baseURL + ResultsIndex
}

// SearchAthlete returns every record whose name contains name and, when club
// is non-blank, whose club contains club. Both matches ignore case. Records
// are returned in page order, then row order.
func (a *Archive) SearchAthlete(ctx context.Context, name, club string) ([]result.Record, error) {
	name = strings.TrimSpace(name)
	club = strings.TrimSpace(club)
	if name == "" {
		return nil, fmt.Errorf("%w: athlete name is required", ErrValidation)
	}

	searchID := uuid.NewString()
	start := time.Now()
	defer func() {
		logger.RecordTiming("search", time.Since(start))
	}()

	index, err := a.fetcher.Fetch(ctx, a.IndexURL())
	if err != nil {
		return nil, fetchError("results index "+a.IndexURL(), err)
	}

	candidates := a.candidatePages(index)
	logger.Debug("Searching candidate pages", logger.Fields{
		"search_id":  searchID,
		"athlete":    name,
		"club":       club,
		"candidates": len(candidates),
	})

	matcher := newMatcher(name, club)
	matched := make([]result.Record, 0)

	for _, u := range candidates {
		for _, rec := range a.pageRecords(ctx, searchID, u) {
			if matcher.match(rec) {
				matched = append(matched, rec)
				logger.IncrCounter("records.matched")
			}
		}
	}

	logger.Info("Search finished", logger.Fields{
		"search_id": searchID,
		"athlete":   name,
		"club":      club,
		"pages":     len(candidates),
		"records":   len(matched),
	})

	return matched, nil
}

// PersonalBests searches for the athlete and reduces the matches to the
// fastest record per distance, stroke and course.
func (a *Archive) PersonalBests(ctx context.Context, name, club string) ([]result.Record, error) {
	records, err := a.SearchAthlete(ctx, name, club)
	if err != nil {
		return nil, err
	}
	return result.PersonalBests(records), nil
}

// ScrapePage extracts every record from the results table of one page.
func (a *Archive) ScrapePage(ctx context.Context, rawURL string) ([]result.Record, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrValidation)
	}

	p, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fetchError(rawURL, err)
	}

	records, ok := ExtractPage(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	return records, nil
}

// ExtractPage locates the results table of p and extracts its records.
// ok is false when the page has no tables.
func ExtractPage(p page.Page) ([]result.Record, bool) {
	tbl, ok := page.Locate(p)
	if !ok {
		return nil, false
	}
	records := page.Extract(tbl)
	logger.AddCounter("records.extracted", float64(len(records)))
	return records, true
}

// candidatePages returns up to maxPages links from the index whose href
// mentions "result" or "meet", resolved against the site base URL.
func (a *Archive) candidatePages(index page.Page) []string {
	base, err := url.Parse(a.baseURL + "/")
	if err != nil {
		return nil
	}

	urls := make([]string, 0, a.maxPages)
	for _, l := range index.Links() {
		if len(urls) == a.maxPages {
			break
		}
		href := strings.ToLower(l.Href)
		if !strings.Contains(href, "result") && !strings.Contains(href, "meet") {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(l.Href))
		if err != nil {
			continue
		}
		urls = append(urls, base.ResolveReference(ref).String())
	}
	return urls
}

// pageRecords fetches one candidate page and extracts its records. Fetch
// failures and pages without tables contribute nothing.
func (a *Archive) pageRecords(ctx context.Context, searchID, u string) []result.Record {
	p, err := a.fetcher.Fetch(ctx, u)
	if err != nil {
		logger.IncrCounter("pages.failed")
		logger.Warn("Skipping page", logger.Fields{"search_id": searchID, "url": u}, err)
		return nil
	}

	records, ok := ExtractPage(p)
	if !ok {
		logger.IncrCounter("pages.skipped")
		logger.Debug("No results table", logger.Fields{"search_id": searchID, "url": u})
		return nil
	}
	return records
}

// fetchError classifies a fetcher error as ErrParse or ErrFetch.
func fetchError(what string, err error) error {
	var perr *page.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %s: %v", ErrParse, what, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrFetch, what, err)
}

type matcher struct {
	name string
	club string
}

func newMatcher(name, club string) matcher {
	return matcher{name: strings.ToLower(name), club: strings.ToLower(club)}
}

func (m matcher) match(rec result.Record) bool {
	if !strings.Contains(strings.ToLower(rec.Name), m.name) {
		return false
	}
	return m.club == "" || strings.Contains(strings.ToLower(rec.Club), m.club)
}
