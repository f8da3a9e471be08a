// Package harvest collects competition download links from the archive's
// year-indexed results pages.
//
// The harvester reads the results index, finds one link per year, then visits
// each year page and records every competition link it can find, both loose
// anchors and links inside table rows. Year pages are fetched with retries and
// at a fixed pace so a full run stays polite to the source site.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/swim-archive/internal/logger"
	"github.com/pfrederiksen/swim-archive/internal/page"
)

// DefaultDelay is the pause between year page requests.
const DefaultDelay = time.Second

// ErrNoYears is returned when the index page yields no year links.
var ErrNoYears = errors.New("no year links found")

// Fetcher loads a page, retrying as it sees fit.
type Fetcher interface {
	FetchWithRetry(ctx context.Context, rawURL string) (page.Page, error)
}

// YearLink points at the results page for one year.
type YearLink struct {
	Year string
	URL  string
	Text string
}

// Competition is one harvested download link.
type Competition struct {
	Year         string `json:"year"`
	Name         string `json:"competition_name"`
	DownloadLink string `json:"download_link"`
}

var (
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	downloadExtensions  = []string{".pdf", ".xls", ".xlsx", ".csv", ".txt", ".zip"}
	competitionKeywords = []string{"meet", "championship", "competition", "event", "result"}
	skippedHrefs        = []string{"#", "mailto:", "javascript:", "../"}
)

// Harvester walks the archive year by year
type Harvester struct {
	fetcher Fetcher
	baseURL string
	delay   time.Duration
}

// New creates a Harvester. delay is the pause between finishing one year page
// and requesting the next; zero means DefaultDelay.
func New(f Fetcher, baseURL string, delay time.Duration) *Harvester {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Harvester{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		delay:   delay,
	}
}

// ResultsPageURL returns the address of the year index
func (h *Harvester) ResultsPageURL() string {
	return h.baseURL + "/results.html"
}

// Run harvests every year page. It fails only when the index page cannot be
// fetched or lists no years; unreachable year pages are skipped.
func (h *Harvester) Run(ctx context.Context) ([]Competition, error) {
	runID := uuid.NewString()

	logger.Info("Fetching results index", logger.Fields{"run_id": runID, "url": h.ResultsPageURL()})
	index, err := h.fetcher.FetchWithRetry(ctx, h.ResultsPageURL())
	if err != nil {
		return nil, fmt.Errorf("fetching results index: %w", err)
	}

	years := FindYearLinks(index, h.ResultsPageURL())
	if len(years) == 0 {
		return nil, ErrNoYears
	}
	logger.Info("Found year links", logger.Fields{"run_id": runID, "years": len(years)})

	all := make([]Competition, 0)
	for i, y := range years {
		if i > 0 {
			if err := h.pause(ctx); err != nil {
				return all, err
			}
		}

		fields := logger.Fields{"run_id": runID, "year": y.Year, "url": y.URL, "n": i + 1, "of": len(years)}
		p, err := h.fetcher.FetchWithRetry(ctx, y.URL)
		if err != nil {
			logger.Warn("Skipping year page", fields, err)
			logger.IncrCounter("harvest.years_failed")
			continue
		}

		comps := FindCompetitions(p, y.Year, h.baseURL)
		fields["competitions"] = len(comps)
		logger.Info("Harvested year page", fields)
		logger.AddCounter("harvest.competitions", float64(len(comps)))

		all = append(all, comps...)
	}

	return all, nil
}

// pause waits out the delay between year pages, returning early if ctx ends.
func (h *Harvester) pause(ctx context.Context) error {
	timer := time.NewTimer(h.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FindYearLinks returns one link per four-digit year found in anchor text or
// href, resolved against pageURL and sorted by year, newest first. If no year
// appears anywhere, links mentioning "result" or "year" are used instead.
func FindYearLinks(p page.Page, pageURL string) []YearLink {
	links := p.Links()
	years := make([]YearLink, 0)
	seen := make(map[string]bool)

	for _, l := range links {
		year := yearPattern.FindString(l.Text + " " + l.Href)
		if year == "" || seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, YearLink{Year: year, URL: resolve(pageURL, l.Href), Text: l.Text})
	}

	if len(years) == 0 {
		for _, l := range links {
			href := strings.ToLower(l.Href)
			text := strings.ToLower(l.Text)
			if !containsAny(href, "result", "year") && !containsAny(text, "result", "year") {
				continue
			}
			label := text
			if label == "" {
				label = href
			}
			years = append(years, YearLink{Year: label, URL: resolve(pageURL, l.Href), Text: l.Text})
		}
	}

	sort.SliceStable(years, func(i, j int) bool {
		return years[i].Year > years[j].Year
	})
	return years
}

// FindCompetitions lists the competition links on a year page, resolved
// against baseURL and de-duplicated by download link (first wins).
func FindCompetitions(p page.Page, year, baseURL string) []Competition {
	comps := make([]Competition, 0)

	for _, l := range p.Links() {
		href := strings.ToLower(l.Href)
		isDownload := containsAny(href, downloadExtensions...)
		isCompetition := containsAny(strings.ToLower(l.Text), competitionKeywords...)
		if !isDownload && !isCompetition && l.Text == "" {
			continue
		}
		if containsAny(href, skippedHrefs...) {
			continue
		}

		name := l.Text
		if name == "" {
			name = l.Href
		}
		comps = append(comps, Competition{Year: year, Name: name, DownloadLink: resolve(baseURL, l.Href)})
	}

	for _, tbl := range p.Tables() {
		for _, cells := range tbl.Rows() {
			if len(cells) < 2 {
				continue
			}
			name := cells[0].Text
			link := rowDownloadLink(cells)
			if name == "" || link == "" {
				continue
			}
			comps = append(comps, Competition{Year: year, Name: name, DownloadLink: resolve(baseURL, link)})
		}
	}

	return dedupe(comps)
}

// rowDownloadLink returns the first cell's leading link that points at a file.
func rowDownloadLink(cells []page.Cell) string {
	for _, c := range cells {
		if len(c.Links) == 0 {
			continue
		}
		href := c.Links[0].Href
		if containsAny(strings.ToLower(href), downloadExtensions...) {
			return href
		}
	}
	return ""
}

func dedupe(comps []Competition) []Competition {
	seen := make(map[string]bool)
	unique := make([]Competition, 0, len(comps))
	for _, c := range comps {
		if !seen[c.DownloadLink] {
			seen[c.DownloadLink] = true
			unique = append(unique, c)
		}
	}
	return unique
}

func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
