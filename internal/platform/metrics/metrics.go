// Package metrics provides Prometheus metrics for the trend API
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trendscope"

var (
	// HTTPRequestsTotal counts served requests by route pattern
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// QueriesTotal counts trend queries by logic mode and outcome
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of trend queries",
		},
		[]string{"mode", "outcome"},
	)

	// QueryDuration measures end to end query latency
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of trend queries in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
		},
		[]string{"mode"},
	)

	// SeriesReturned observes how many series a successful query produced
	SeriesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "series_returned",
			Help:      "Distribution of series count per successful query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	// SourceCallDuration measures generative source round trips
	SourceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_call_duration_seconds",
			Help:      "Duration of generative source calls in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	// SourceRateWait measures time spent waiting on the outbound limiter
	SourceRateWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_rate_wait_seconds",
			Help:      "Time spent waiting for the outbound rate limiter",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
	)

	// SourceConfigured reports whether a generative source is configured (1) or not (0)
	SourceConfigured = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_configured",
			Help:      "Generative source configured (1 = yes, 0 = no)",
		},
	)

	// JournalErrorsTotal counts outcome journal write failures
	JournalErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_errors_total",
			Help:      "Total number of outcome journal write failures",
		},
	)

	// SessionInFlight is 1 while any session fetch goroutine is running, including discarded ones
	SessionInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_in_flight",
			Help:      "Dashboard session fetch running (1 = busy, 0 = idle)",
		},
	)

	// SessionStaleTotal counts completions discarded because a newer submission superseded them
	SessionStaleTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_stale_completions_total",
			Help:      "Total number of discarded stale query completions",
		},
	)
)

// RecordHTTP records one served request
func RecordHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordQuery records one trend query outcome; series is only observed for ok outcomes
func RecordQuery(mode, outcome string, series int, elapsed time.Duration) {
	QueriesTotal.WithLabelValues(mode, outcome).Inc()
	QueryDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if outcome == "ok" {
		SeriesReturned.Observe(float64(series))
	}
}

// RecordSourceCall records one generative source round trip
func RecordSourceCall(model, status string, elapsed time.Duration) {
	SourceCallDuration.WithLabelValues(model, status).Observe(elapsed.Seconds())
}

// RecordRateWait records time spent blocked on the outbound limiter
func RecordRateWait(d time.Duration) { SourceRateWait.Observe(d.Seconds()) }

// RecordJournalError records a failed journal write
func RecordJournalError() { JournalErrorsTotal.Inc() }

// RecordStale records a discarded stale completion
func RecordStale() { SessionStaleTotal.Inc() }

// SetSourceConfigured flips the source configured gauge
func SetSourceConfigured(ok bool) { SourceConfigured.Set(boolGauge(ok)) }

// SetInFlight flips the session fetch gauge
func SetInFlight(loading bool) { SessionInFlight.Set(boolGauge(loading)) }

// Handler exposes the default registry
func Handler() http.Handler { return promhttp.Handler() }

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
