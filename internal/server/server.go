// Package server exposes scans over an HTTP API.
//
// Routes:
//   - POST /v1/scan  {"url": "..."} returns the flat scan payload
//   - GET  /health   liveness probe
//   - GET  /metrics  Prometheus metrics
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/observability"
)

const (
	shutdownTimeout = 15 * time.Second
	maxRequestBytes = 64 << 10
)

// ScanService runs one scan. *pipeline.Scanner satisfies it.
type ScanService interface {
	Scan(ctx context.Context, rawURL string) (*model.ScanResult, error)
}

// Server is the HTTP API around a ScanService
type Server struct {
	cfg     model.ServerConfig
	scanner ScanService
	metrics *observability.Metrics
	logger  *slog.Logger
	router  *gin.Engine
	version string
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server's logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records request counts and serves /metrics from m
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithVersion is reported by /health
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a Server and registers its routes
func New(cfg model.ServerConfig, scanner ScanService, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		scanner: scanner,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestID(), s.observe())

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := router.Group("/v1")
	v1.POST("/scan", s.handleScan)

	s.router = router
	return s
}

// Handler returns the routed http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
