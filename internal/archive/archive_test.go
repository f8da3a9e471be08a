package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/fetcher"
	"github.com/pfrederiksen/swim-archive/internal/page"
	"github.com/pfrederiksen/swim-archive/internal/result"
)

const meetOne = `
<html><body>
<table class="results">
	<tr><th>Name</th><th>Event</th><th>Time</th><th>Club</th><th>Date</th></tr>
	<tr><td>Jane Smith</td><td>100m Freestyle</td><td>1:05.00</td><td>North Shore</td><td>2019-03-02</td></tr>
	<tr><td>Tom Brown</td><td>100m Freestyle</td><td>1:01.00</td><td>Capital</td><td>2019-03-02</td></tr>
	<tr><td>JANE SMITHERS</td><td>50m Backstroke</td><td>35.10</td><td>Capital</td><td>2019-03-02</td></tr>
</table>
</body></html>`

const meetTwo = `
<html><body>
<table>
	<tr><th>Swimmer</th><th>Event</th><th>Result</th><th>Team</th></tr>
	<tr><td>Jane Smith</td><td>100m Freestyle</td><td>1:02:15</td><td>North Shore</td></tr>
	<tr><td>Jane Smith</td><td>100m Freestyle</td><td>DQ</td><td>North Shore</td></tr>
	<tr><td>Jane Smith</td><td>50m Backstroke LCM</td><td>34.00</td><td>North Shore</td></tr>
</table>
</body></html>`

// archiveServer serves an index and a set of pages, recording every path hit.
type archiveServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits []string
}

func newArchiveServer(t *testing.T, index string, pages map[string]string) *archiveServer {
	t.Helper()
	s := &archiveServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits = append(s.hits, r.URL.Path)
		s.mu.Unlock()

		if r.URL.Path == ResultsIndex {
			w.Write([]byte(index))
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *archiveServer) pageHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		if h != ResultsIndex {
			n++
		}
	}
	return n
}

func newTestArchive(baseURL string, maxPages int) *Archive {
	f := fetcher.New(fetcher.Options{Timeout: 2 * time.Second, Backoff: time.Millisecond})
	return New(f, baseURL, maxPages)
}

func TestSearchAthlete(t *testing.T) {
	index := `
		<a href="/meets/one.html">Meet One</a>
		<a href="about.html">About</a>
		<a href="/results/two.html">Results Two</a>
		<a href="/results/missing.html">Gone</a>
		<a href="/results/notable.html">No table</a>`

	srv := newArchiveServer(t, index, map[string]string{
		"/meets/one.html":       meetOne,
		"/results/two.html":     meetTwo,
		"/results/notable.html": `<p>Coming soon</p>`,
	})

	tests := []struct {
		name      string
		athlete   string
		club      string
		wantTimes []string
	}{
		{
			name:      "name substring across pages",
			athlete:   "jane smith",
			wantTimes: []string{"1:05.00", "35.10", "1:02.15", "DQ", "34.00"},
		},
		{
			name:      "club filter",
			athlete:   "Jane",
			club:      "north",
			wantTimes: []string{"1:05.00", "1:02.15", "DQ", "34.00"},
		},
		{
			name:      "blank club is no filter",
			athlete:   "Tom",
			club:      "   ",
			wantTimes: []string{"1:01.00"},
		},
		{
			name:      "no match",
			athlete:   "Nobody",
			wantTimes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArchive(srv.URL, 0)
			records, err := a.SearchAthlete(context.Background(), tt.athlete, tt.club)
			if err != nil {
				t.Fatalf("SearchAthlete() error: %v", err)
			}
			if len(records) != len(tt.wantTimes) {
				t.Fatalf("SearchAthlete() returned %d records, want %d: %+v", len(records), len(tt.wantTimes), records)
			}
			for i, want := range tt.wantTimes {
				if records[i].Time != want {
					t.Errorf("records[%d].Time = %q, want %q", i, records[i].Time, want)
				}
			}
		})
	}
}

func TestSearchAthlete_PageCap(t *testing.T) {
	var links strings.Builder
	pages := make(map[string]string)
	for i := 0; i < 25; i++ {
		path := fmt.Sprintf("/results/meet-%02d.html", i)
		fmt.Fprintf(&links, `<a href="%s">Meet %d</a>`, path, i)
		pages[path] = meetOne
	}

	tests := []struct {
		name     string
		maxPages int
		want     int
	}{
		{name: "default cap", maxPages: 0, want: DefaultMaxPages},
		{name: "custom cap", maxPages: 3, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newArchiveServer(t, links.String(), pages)
			a := newTestArchive(srv.URL, tt.maxPages)

			records, err := a.SearchAthlete(context.Background(), "Jane Smith", "")
			if err != nil {
				t.Fatalf("SearchAthlete() error: %v", err)
			}
			if got := srv.pageHits(); got != tt.want {
				t.Errorf("visited %d pages, want %d", got, tt.want)
			}
			if len(records) != tt.want*2 {
				t.Errorf("SearchAthlete() returned %d records, want %d", len(records), tt.want*2)
			}
		})
	}
}

func TestSearchAthlete_IndexUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestArchive(srv.URL, 0).SearchAthlete(context.Background(), "Jane", "")
	if !errors.Is(err, ErrFetch) {
		t.Errorf("SearchAthlete() error = %v, want ErrFetch", err)
	}
}

func TestSearchAthlete_Validation(t *testing.T) {
	a := newTestArchive("http://127.0.0.1:1", 0)
	for _, name := range []string{"", "   "} {
		if _, err := a.SearchAthlete(context.Background(), name, ""); !errors.Is(err, ErrValidation) {
			t.Errorf("SearchAthlete(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestPersonalBests(t *testing.T) {
	index := `<a href="/meets/one.html">One</a><a href="/results/two.html">Two</a>`
	srv := newArchiveServer(t, index, map[string]string{
		"/meets/one.html":   meetOne,
		"/results/two.html": meetTwo,
	})

	pbs, err := newTestArchive(srv.URL, 0).PersonalBests(context.Background(), "Jane Smith", "North Shore")
	if err != nil {
		t.Fatalf("PersonalBests() error: %v", err)
	}

	want := []struct {
		key  result.Key
		time string
	}{
		{result.Key{Distance: "100m", Stroke: result.StrokeFreestyle, Course: result.CourseSCM}, "1:02.15"},
		{result.Key{Distance: "50m", Stroke: result.StrokeBackstroke, Course: result.CourseLCM}, "34.00"},
	}
	if len(pbs) != len(want) {
		t.Fatalf("PersonalBests() returned %d records, want %d: %+v", len(pbs), len(want), pbs)
	}
	for i, w := range want {
		if pbs[i].Key() != w.key || pbs[i].Time != w.time {
			t.Errorf("pbs[%d] = %+v, want key %+v time %q", i, pbs[i], w.key, w.time)
		}
	}
}

func TestScrapePage(t *testing.T) {
	srv := newArchiveServer(t, "", map[string]string{
		"/meets/one.html": meetOne,
		"/empty.html":     `<html><body><p>nothing here</p></body></html>`,
		"/blank.html":     "",
	})
	a := newTestArchive(srv.URL, 0)

	t.Run("extracts all rows", func(t *testing.T) {
		records, err := a.ScrapePage(context.Background(), srv.URL+"/meets/one.html")
		if err != nil {
			t.Fatalf("ScrapePage() error: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("ScrapePage() returned %d records, want 3", len(records))
		}
	})

	t.Run("no tables is NotFound", func(t *testing.T) {
		_, err := a.ScrapePage(context.Background(), srv.URL+"/empty.html")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ScrapePage() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("blank body is NotFound", func(t *testing.T) {
		_, err := a.ScrapePage(context.Background(), srv.URL+"/blank.html")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ScrapePage() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		_, err := a.ScrapePage(context.Background(), srv.URL+"/missing.html")
		if !errors.Is(err, ErrFetch) {
			t.Errorf("ScrapePage() error = %v, want ErrFetch", err)
		}
	})

	t.Run("blank url", func(t *testing.T) {
		_, err := a.ScrapePage(context.Background(), " ")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ScrapePage() error = %v, want ErrValidation", err)
		}
	})
}

func TestNew_Defaults(t *testing.T) {
	a := New(nil, "", 0)
	if a.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", a.baseURL, DefaultBaseURL)
	}
	if a.maxPages != DefaultMaxPages {
		t.Errorf("maxPages = %d, want %d", a.maxPages, DefaultMaxPages)
	}
	if a.IndexURL() != DefaultBaseURL+ResultsIndex {
		t.Errorf("IndexURL() = %q", a.IndexURL())
	}

	trimmed := New(nil, "https://example.test/", 5)
	if trimmed.IndexURL() != "https://example.test/results.html" {
		t.Errorf("IndexURL() = %q, want trailing slash trimmed", trimmed.IndexURL())
	}
}

type failingFetcher struct {
	err error
}

func (f failingFetcher) Fetch(context.Context, string) (page.Page, error) {
	return nil, f.err
}

func TestScrapePage_ParseFailure(t *testing.T) {
	a := New(failingFetcher{err: &page.ParseError{Err: fmt.Errorf("bad markup")}}, "http://example.test", 0)

	_, err := a.ScrapePage(context.Background(), "http://example.test/meet.html")
	if !errors.Is(err, ErrParse) {
		t.Errorf("ScrapePage() error = %v, want ErrParse", err)
	}
	if errors.Is(err, ErrFetch) {
		t.Errorf("ScrapePage() error = %v, must not also be ErrFetch", err)
	}
}
