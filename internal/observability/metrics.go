// Package observability provides Prometheus metrics for scans.
//
// Metrics include:
//   - Scan counters by outcome
//   - Verdict counters by status and a confidence histogram
//   - Per-step latency histograms
//   - HTTP API request counters
//
// A nil *Metrics is valid and records nothing, so collaborators can take
// metrics as an optional dependency.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

const metricsNamespace = "entity_scanner"

// Scan outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeFetch      = "fetch_error"
	OutcomeModel      = "model_error"
	OutcomeCanceled   = "canceled"
	OutcomeInternal   = "internal_error"
)

// Metrics holds every collector the scanner reports to
type Metrics struct {
	// ScansTotal counts finished scans.
	// Labels: outcome (success, validation_error, fetch_error, model_error, canceled, internal_error)
	ScansTotal *prometheus.CounterVec

	// VerdictsTotal counts verdicts by status.
	// Labels: status (ACCURATE, UNCERTAIN, HALLUCINATING)
	VerdictsTotal *prometheus.CounterVec

	// Confidence is the distribution of confidence scores
	Confidence prometheus.Histogram

	// StepDurationSeconds measures each pipeline step.
	// Labels: step
	StepDurationSeconds *prometheus.HistogramVec

	// HTTPRequestsTotal counts API requests.
	// Labels: method, route, code
	HTTPRequestsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all collectors on reg.
// Registering twice on the same registry panics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "scans_total",
				Help:      "Total number of scans by outcome",
			},
			[]string{"outcome"},
		),
		VerdictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "verdicts_total",
				Help:      "Total number of verdicts by status",
			},
			[]string{"status"},
		),
		Confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "confidence",
				Help:      "Distribution of confidence scores",
				Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
		StepDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of each scan step in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"step"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of API requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		gatherer: reg,
	}
}

// RecordScan counts a finished scan
func (m *Metrics) RecordScan(outcome string) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(outcome).Inc()
}

// RecordVerdict counts a verdict and observes its confidence
func (m *Metrics) RecordVerdict(status model.Status, confidence int) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(string(status)).Inc()
	m.Confidence.Observe(float64(confidence))
}

// ObserveStep records how long a step took
func (m *Metrics) ObserveStep(step string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDurationSeconds.WithLabelValues(step).Observe(d.Seconds())
}

// RecordHTTPRequest counts an API request
func (m *Metrics) RecordHTTPRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
