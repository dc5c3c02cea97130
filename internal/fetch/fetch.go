// Package fetch retrieves job postings over HTTP with retries, rotating
// browser-like request headers, and an optional headless-browser fallback for
// pages that render client-side.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/cover-agent/internal/extract"
	"github.com/jonathan/cover-agent/internal/session"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxAttempts is the total number of requests made for one URL,
// including the first.
const DefaultMaxAttempts = 3

// DefaultBackoffBase seeds the exponential backoff between attempts.
const DefaultBackoffBase = 2 * time.Second

// maxJitter is added to every backoff sleep to avoid synchronized retries.
const maxJitter = 500 * time.Millisecond

// MinContentLength is the extracted-text length below which a fetch is
// treated as a soft failure worth retrying.
const MinContentLength = 50

// maxRedirects bounds redirect chains; loops are not worth retrying.
const maxRedirects = 10

// ErrTooManyRedirects marks a redirect chain that exceeded maxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// userAgents is rotated across attempts; some boards throttle by UA.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

// Result holds one fetched page: raw HTML plus the extracted posting text.
type Result struct {
	URL        string
	HTML       string
	Content    string
	Title      string
	StatusCode int
}

// Error classifies a fetch failure. Retryable failures (timeouts, connection
// errors, 429/502/503/504) are retried up to the attempt budget; everything
// else fails immediately.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Fetcher.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	// UseBrowser enables headless-browser re-rendering when the plain HTTP
	// response extracts to almost nothing. Requires Chrome on the host.
	UseBrowser bool
	Verbose    bool
	// Store, when set, receives the extracted content under the
	// job-description key after a successful fetch.
	Store *session.Store
}

// DefaultOptions returns the standard fetch configuration.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
		BackoffBase: DefaultBackoffBase,
	}
}

// Fetcher retrieves pages with retry and extraction wired in.
type Fetcher struct {
	opts   *Options
	client *http.Client
}

// New builds a Fetcher. A nil opts uses DefaultOptions.
func New(opts *Options) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	return &Fetcher{
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
	}
}

// Fetch retrieves urlStr and extracts the posting text. Retryable failures
// and too-short extractions are retried with exponential backoff; a final
// attempt that still extracts under MinContentLength characters is returned
// with a logged warning rather than an error.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	var lastErr error
	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := f.sleep(ctx, attempt); err != nil {
				return nil, &Error{URL: urlStr, Message: "cancelled during backoff", Cause: err}
			}
			if f.opts.Verbose {
				log.Printf("[VERBOSE] Retrying fetch (attempt %d/%d): %s", attempt, f.opts.MaxAttempts, urlStr)
			}
		}

		result, err := f.attempt(ctx, urlStr, attempt)
		if err != nil {
			var fetchErr *Error
			if errors.As(err, &fetchErr) && !fetchErr.Retryable {
				return nil, err
			}
			lastErr = err
			continue
		}

		result.Content = extract.Content(result.HTML, urlStr)
		if len(result.Content) < MinContentLength && f.opts.UseBrowser {
			f.renderFallback(ctx, urlStr, result)
		}
		result.Title = extract.Title(result.HTML)

		if len(result.Content) < MinContentLength {
			if attempt < f.opts.MaxAttempts {
				lastErr = &Error{
					URL:       urlStr,
					Message:   fmt.Sprintf("extracted only %d characters", len(result.Content)),
					Retryable: true,
				}
				continue
			}
			log.Printf("Warning: page yielded only %d characters of content: %s", len(result.Content), urlStr)
		}

		f.publish(result)
		return result, nil
	}

	return nil, lastErr
}

// attempt performs a single GET, classifying failures for retry.
func (f *Fetcher) attempt(ctx context.Context, urlStr string, attempt int) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", userAgents[(attempt-1)%len(userAgents)])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Retryable: true, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	return &Result{URL: urlStr, HTML: string(body), StatusCode: resp.StatusCode}, nil
}

// renderFallback re-renders the page in a headless browser and keeps the
// result when it extracts more content than the plain fetch did.
func (f *Fetcher) renderFallback(ctx context.Context, urlStr string, result *Result) {
	html, err := RenderPage(ctx, urlStr, f.opts.Timeout, f.opts.Verbose)
	if err != nil {
		if f.opts.Verbose {
			log.Printf("[VERBOSE] Browser rendering failed for %s: %v", urlStr, err)
		}
		return
	}
	content := extract.Content(html, urlStr)
	if len(content) > len(result.Content) {
		result.HTML = html
		result.Content = content
	}
}

// publish stores the extracted content for downstream stages. An already-set
// key is left alone.
func (f *Fetcher) publish(result *Result) {
	if f.opts.Store == nil || result.Content == "" {
		return
	}
	if err := f.opts.Store.Put(session.KeyJobDescription, result.Content); err != nil && f.opts.Verbose {
		log.Printf("[VERBOSE] Job description already recorded: %v", err)
	}
}

// sleep waits out the backoff before the given attempt, honoring ctx.
// Attempt n sleeps base * 2^(n-2) plus up to maxJitter.
func (f *Fetcher) sleep(ctx context.Context, attempt int) error {
	delay := f.opts.BackoffBase * (1 << (attempt - 2))
	delay += time.Duration(rand.Int63n(int64(maxJitter)))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classifyTransportError maps client.Do failures onto the retry policy:
// timeouts and connection errors retry, redirect loops do not.
func classifyTransportError(urlStr string, err error) *Error {
	if errors.Is(err, ErrTooManyRedirects) {
		return &Error{URL: urlStr, Message: "redirect loop", Cause: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{URL: urlStr, Message: "request timed out", Retryable: true, Cause: err}
	}

	return &Error{URL: urlStr, Message: "connection failed", Retryable: true, Cause: err}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
