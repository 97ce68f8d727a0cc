package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/egedemirkapi/entity-scanner/internal/extract"
	"github.com/egedemirkapi/entity-scanner/internal/llm"
	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/observability"
	"github.com/egedemirkapi/entity-scanner/internal/score"
	"github.com/egedemirkapi/entity-scanner/internal/util"
	"github.com/egedemirkapi/entity-scanner/internal/validate"
	"github.com/egedemirkapi/entity-scanner/internal/worker"
)

// Scanner orchestrates the complete scan process
type Scanner struct {
	steps   []Step
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time

	// Collaborators, replaceable through options before the steps are built
	validator *validate.URLValidator
	fetcher   *Fetcher
	scorer    *score.Scorer
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLogger sets the scanner's logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics reports scans to m
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// WithClock replaces the clock that stamps scrapedAt
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithValidator replaces the URL validator
func WithValidator(v *validate.URLValidator) Option {
	return func(s *Scanner) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithFetcher replaces the page fetcher
func WithFetcher(f *Fetcher) Option {
	return func(s *Scanner) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithScorer replaces the comparison engine
func WithScorer(sc *score.Scorer) Option {
	return func(s *Scanner) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// NewScanner wires the scan steps from cfg around the given model client
func NewScanner(cfg model.Config, client *llm.Client, opts ...Option) *Scanner {
	s := &Scanner{
		logger:    slog.Default(),
		now:       time.Now,
		validator: validate.NewURLValidator(nil),
		scorer:    score.NewScorer(score.WithRules(cfg.Scoring)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = NewFetcher(cfg.HTTP, fetcherOptions(cfg)...)
	}

	s.steps = []Step{
		NewValidateStep(s.validator),
		NewExtractStep(s.fetcher, extract.NewFactExtractor()),
		NewGeneralQueryStep(client),
		NewPricingQueryStep(client),
		NewScoreStep(s.scorer),
		NewAssembleStep(s.now, cfg.Output.IncludeChecks),
	}

	return s
}

// fetcherOptions derives robots and politeness settings from cfg
func fetcherOptions(cfg model.Config) []FetcherOption {
	var opts []FetcherOption
	if cfg.HTTP.RespectRobots {
		transport := util.NewTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		opts = append(opts, WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout, transport)))
	}
	if cfg.RateLimiting.RequestsPerSecond > 0 {
		opts = append(opts, WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)))
	}
	return opts
}

// Scan runs every step against rawURL and returns the success payload.
// The first failing step ends the scan; no partial result is returned.
func (s *Scanner) Scan(ctx context.Context, rawURL string) (result *model.ScanResult, err error) {
	state := &State{
		ScanID: uuid.NewString(),
		RawURL: rawURL,
	}
	logger := s.logger.With("scan_id", state.ScanID, "url", rawURL)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("scan panicked", "panic", r, "stack", string(debug.Stack()))
			result, err = nil, &panicError{value: r}
		}
		s.metrics.RecordScan(outcomeOf(err))
	}()

	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			logger.Warn("scan cancelled", "step", step.Name(), "reason", err)
			return nil, err
		}

		logger.Debug("executing step", "step", step.Name())
		stepStart := time.Now()

		if err := step.Do(ctx, state); err != nil {
			logger.Warn("step failed", "step", step.Name(), "error", err)
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		s.metrics.ObserveStep(step.Name(), time.Since(stepStart))
	}

	s.metrics.RecordVerdict(state.Result.Status, state.Result.Confidence)
	logger.Info("scan completed",
		"company", state.Result.CompanyName,
		"status", state.Result.Status,
		"confidence", state.Result.Confidence,
		"duration", time.Since(start),
	)

	return state.Result, nil
}

// Respond scans rawURL and folds any failure into the flat error payload
func (s *Scanner) Respond(ctx context.Context, rawURL string) model.Response {
	result, err := s.Scan(ctx, rawURL)
	if err != nil {
		return model.Response{Err: &model.ErrorResult{Error: UserMessage(err)}}
	}
	return model.Response{Result: result}
}

// ScanURL lets the batch worker pool drive the scanner
func (s *Scanner) ScanURL(ctx context.Context, rawURL string) (*model.ScanResult, error) {
	return s.Scan(ctx, rawURL)
}

var _ worker.Scanner = (*Scanner)(nil)

// outcomeOf buckets a scan error for metrics
func outcomeOf(err error) string {
	if err == nil {
		return observability.OutcomeSuccess
	}
	if IsValidationError(err) {
		return observability.OutcomeValidation
	}

	var statusErr *HTTPStatusError
	var timeoutErr *TimeoutError
	var scrapeErr *ScrapeError
	if errors.As(err, &statusErr) || errors.As(err, &timeoutErr) || errors.As(err, &scrapeErr) {
		return observability.OutcomeFetch
	}

	var queryErr *llm.QueryError
	if errors.Is(err, llm.ErrRateLimited) || errors.Is(err, llm.ErrAuthFailed) || errors.As(err, &queryErr) {
		return observability.OutcomeModel
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return observability.OutcomeCanceled
	}

	return observability.OutcomeInternal
}
