package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssargent/pitkit/pkg/pit"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// PIT codec metrics
	unpackTotal      *prometheus.CounterVec
	unpackEntries    prometheus.Histogram
	archiveOpsTotal  *prometheus.CounterVec
	archiveSnapshots prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitkit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pitkit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pitkit_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		unpackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitkit_pit_unpack_total",
				Help: "Total number of PIT unpack attempts by result",
			},
			[]string{"result"},
		),

		unpackEntries: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pitkit_pit_entries",
				Help:    "Number of entries in successfully unpacked tables",
				Buckets: prometheus.LinearBuckets(0, 8, 10),
			},
		),

		archiveOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitkit_archive_operations_total",
				Help: "Total number of archive operations",
			},
			[]string{"operation", "status"},
		),

		archiveSnapshots: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pitkit_archive_snapshots",
				Help: "Number of snapshots in the archive as of the last listing",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitkit_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUnpack records the outcome of unpacking an uploaded table
func (m *Metrics) RecordUnpack(t *pit.Table, err error) {
	switch {
	case err == nil:
		m.unpackTotal.WithLabelValues("ok").Inc()
		m.unpackEntries.Observe(float64(t.EntryCount()))
	case errors.Is(err, pit.ErrBadMagic):
		m.unpackTotal.WithLabelValues("bad_magic").Inc()
	case errors.Is(err, pit.ErrTruncated):
		m.unpackTotal.WithLabelValues("truncated").Inc()
	default:
		m.unpackTotal.WithLabelValues(statusError).Inc()
	}
}

// RecordArchiveOperation records an archive operation
func (m *Metrics) RecordArchiveOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.archiveOpsTotal.WithLabelValues(operation, status).Inc()
}

// UpdateArchiveStats sets the snapshot gauge
func (m *Metrics) UpdateArchiveStats(snapshots int) {
	m.archiveSnapshots.Set(float64(snapshots))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get("X-API-Key") != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
