// Package fetcher downloads archive pages and hands them to the page parser.
//
// A Fetcher owns one HTTP client so connections are reused across pages. Fetch
// makes a single attempt, which is what live searches use. FetchWithRetry
// retries network and status failures with a constant backoff, which is what
// the bulk harvester uses.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"
	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/swim-archive/internal/logger"
	"github.com/pfrederiksen/swim-archive/internal/page"
)

const (
	UserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 3
	DefaultBackoff = 2 * time.Second
)

// ErrStatus is returned when the server answers with a non-2xx status.
var ErrStatus = errors.New("unexpected status code")

// Options configures a Fetcher. Zero values take the defaults above.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// Retries is the total number of attempts made by FetchWithRetry.
	Retries int
	// Backoff is the wait between attempts.
	Backoff time.Duration
}

// Fetcher fetches and parses archive pages
type Fetcher struct {
	client  *http.Client
	base    *sling.Sling
	retries int
	backoff time.Duration
}

// New creates a Fetcher
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 1 {
		opts.Retries = DefaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	return &Fetcher{
		client: client,
		base: sling.New().
			Client(client).
			Set("User-Agent", opts.UserAgent).
			Set("Accept", "text/html,application/xhtml+xml"),
		retries: opts.Retries,
		backoff: opts.Backoff,
	}
}

// Fetch makes one attempt to download and parse rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (page.Page, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("page.fetch", time.Since(start))
	}()

	req, err := f.base.New().Get(rawURL).Request()
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req = req.WithContext(ctx)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}

	// An empty body is a valid, empty document.
	_, name, _ := charset.DetermineEncoding(raw, resp.Header.Get("Content-Type"))
	body, err := charset.NewReaderLabel(name, bytes.NewReader(raw))
	if err != nil {
		return nil, &page.ParseError{Err: fmt.Errorf("decoding page as %s: %w", name, err)}
	}

	doc, err := page.Parse(body, resp.Request.URL.String())
	if err != nil {
		return nil, err
	}

	logger.IncrCounter("pages.fetched")
	return doc, nil
}

// FetchWithRetry fetches rawURL, retrying failed attempts up to the configured
// attempt count with a constant wait in between. Parse failures are not retried.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (page.Page, error) {
	var doc page.Page
	attempt := 0

	op := func() error {
		attempt++
		p, err := f.Fetch(ctx, rawURL)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		doc = p
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.backoff), uint64(f.retries-1)),
		ctx,
	)

	notify := func(err error, wait time.Duration) {
		logger.Warn("Page fetch failed, retrying", logger.Fields{
			"url":     rawURL,
			"attempt": attempt,
			"of":      f.retries,
			"wait":    wait.String(),
		}, err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return doc, nil
}

// retryable reports whether err came from the network or the server rather
// than from reading the markup.
func retryable(err error) bool {
	var perr *page.ParseError
	return !errors.As(err, &perr)
}
