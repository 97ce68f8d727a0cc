package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/util"
	"github.com/egedemirkapi/entity-scanner/internal/worker"
)

const defaultMaxRedirects = 3

// Fetcher fetches HTML content from company sites
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	timeout    time.Duration
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithRobots makes the fetcher honour robots.txt
func WithRobots(r *util.RobotsChecker) FetcherOption {
	return func(f *Fetcher) {
		f.robots = r
	}
}

// WithLimiter paces requests per target domain
func WithLimiter(l *worker.Limiter) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(cfg model.HTTPConfig, opts ...FetcherOption) *Fetcher {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = model.DefaultUserAgent
	}

	f := &Fetcher{
		// No client-level timeout: the per-fetch context carries the deadline
		// so a slow site can be told apart from a cancelled caller.
		httpClient: &http.Client{
			Transport: util.NewTransport(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  cfg.MaxBodyBytes,
		timeout:   cfg.Timeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML        string
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves HTML content from the given URL.
// Failures are *HTTPStatusError, *TimeoutError or *ScrapeError; a cancelled
// caller context is returned as the context's own error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, &ScrapeError{Err: fmt.Errorf("robots check: %w", err)}
		}
		if !allowed {
			return nil, &ScrapeError{Err: ErrDisallowedByRobots}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &ScrapeError{Err: err}
		}
	}

	fetchCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &ScrapeError{Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, f.classify(ctx, fetchCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, f.classify(ctx, fetchCtx, err)
	}

	return &FetchResult{
		HTML:        string(data),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// classify maps a transport failure onto the fetch error kinds
func (f *Fetcher) classify(parent, fetchCtx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{After: f.timeout}
	}
	return &ScrapeError{Err: err}
}
