package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/desertthunder/songbook/internal/shared"
)

// Metrics holds the Prometheus collectors for the HTTP API.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	songOps  *prometheus.CounterVec
	gatherer prometheus.Gatherer
}

// NewMetrics registers the songbook collectors with reg.
// Tests pass a fresh [prometheus.NewRegistry] to avoid duplicate registration.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "songbook_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "songbook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		songOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "songbook_song_operations_total",
			Help: "Total number of song collection operations by operation and result",
		}, []string{"operation", "result"}),

		gatherer: reg,
	}
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := patternOf(r)
			m.requests.WithLabelValues(route, strconv.Itoa(rec.Status())).Inc()
			m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveSongOp counts one song operation; result is "ok" or the error kind.
func (m *Metrics) ObserveSongOp(operation string, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = shared.KindOf(err).String()
	}
	m.songOps.WithLabelValues(operation, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
