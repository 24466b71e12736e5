// Package metrics defines the Prometheus collectors for document submissions
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the submission collectors. It implements
// application.SubmissionObserver.
type Metrics struct {
	SubmissionsTotal   *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	UpstreamStatus     *prometheus.CounterVec
	PermitWait         prometheus.Histogram
}

var _ application.SubmissionObserver = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crpt_submissions_total",
				Help: "Document submissions by outcome (ok, invalid_input, cancelled, transport, unavailable, internal).",
			},
			[]string{"outcome"},
		),
		SubmissionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crpt_submission_duration_seconds",
				Help:    "Time from submit to result, permit wait included.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		UpstreamStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crpt_upstream_responses_total",
				Help: "Responses from the document API by HTTP status code.",
			},
			[]string{"code"},
		),
		PermitWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crpt_permit_wait_seconds",
				Help:    "Time spent waiting for a submission permit.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
		),
	}

	reg.MustRegister(
		m.SubmissionsTotal,
		m.SubmissionDuration,
		m.UpstreamStatus,
		m.PermitWait,
	)

	return m
}

// RegisterPermitsInUse exposes the limiter occupancy as a gauge.
func RegisterPermitsInUse(reg prometheus.Registerer, inUse func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "crpt_permits_in_use",
			Help: "Submission permits acquired and not yet released.",
		},
		func() float64 { return float64(inUse()) },
	))
}

func (m *Metrics) ObservePermitWait(wait time.Duration) {
	m.PermitWait.Observe(wait.Seconds())
}

func (m *Metrics) ObserveSubmission(outcome application.Outcome, status int, elapsed time.Duration) {
	m.SubmissionsTotal.WithLabelValues(string(outcome)).Inc()
	m.SubmissionDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	if status != 0 {
		m.UpstreamStatus.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

// Handler returns the Prometheus scrape HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
