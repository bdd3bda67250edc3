package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
	rejectedTotal   *prometheus.CounterVec

	advisoryCallsTotal    *prometheus.CounterVec
	advisoryDuration      *prometheus.HistogramVec
	advisoryRetriesTotal  *prometheus.CounterVec
	breakerTransitions    *prometheus.CounterVec
	receiptScansTotal     *prometheus.CounterVec
	clientEventsPublished *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eac",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "eac",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rejectedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "http",
			Name:      "rejected_total",
			Help:      "Requests rejected by traffic control.",
		},
		[]string{"service", "reason"},
	)
	advisoryCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "advisory",
			Name:      "calls_total",
			Help:      "Advisory service calls by operation and outcome.",
		},
		[]string{"service", "operation", "outcome"},
	)
	advisoryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eac",
			Subsystem: "advisory",
			Name:      "call_duration_seconds",
			Help:      "Advisory service call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"service", "operation"},
	)
	advisoryRetriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "advisory",
			Name:      "retries_total",
			Help:      "Retried remote calls by operation.",
		},
		[]string{"service", "operation"},
	)
	breakerTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "advisory",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions.",
		},
		[]string{"service", "operation", "to"},
	)
	receiptScansTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "ledger",
			Name:      "receipt_scans_total",
			Help:      "Receipt scans by result.",
		},
		[]string{"service", "result"},
	)
	clientEventsPublished := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Client change events published by reason and status.",
		},
		[]string{"service", "reason", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		rejectedTotal,
		advisoryCallsTotal,
		advisoryDuration,
		advisoryRetriesTotal,
		breakerTransitions,
		receiptScansTotal,
		clientEventsPublished,
	)

	return &HTTPServerMetrics{
		service:               service,
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		rejectedTotal:         rejectedTotal,
		advisoryCallsTotal:    advisoryCallsTotal,
		advisoryDuration:      advisoryDuration,
		advisoryRetriesTotal:  advisoryRetriesTotal,
		breakerTransitions:    breakerTransitions,
		receiptScansTotal:     receiptScansTotal,
		clientEventsPublished: clientEventsPublished,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses path parameters so label cardinality stays bounded.
func normalizePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "v1" {
		return path
	}
	switch parts[1] {
	case "clients":
		if len(parts) >= 3 {
			parts[2] = "{id}"
		}
		if len(parts) >= 5 && (parts[3] == "phases" || parts[3] == "checklist") {
			parts[4] = "{item}"
		}
	case "transactions":
		if parts[2] != "export" {
			parts[2] = "{id}"
		}
	case "settings":
		if len(parts) >= 4 && parts[2] == "categories" {
			parts[3] = "{name}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func (m *HTTPServerMetrics) RecordRejected(reason string) {
	m.rejectedTotal.WithLabelValues(m.service, reason).Inc()
}

func (m *HTTPServerMetrics) RecordAdvisoryCall(operation, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.advisoryCallsTotal.WithLabelValues(m.service, operation, outcome).Inc()
	m.advisoryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RetryAttempt(operation string) {
	m.advisoryRetriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *HTTPServerMetrics) BreakerStateChanged(operation, _ string, to string) {
	m.breakerTransitions.WithLabelValues(m.service, operation, to).Inc()
}

func (m *HTTPServerMetrics) RecordReceiptScan(result string) {
	m.receiptScansTotal.WithLabelValues(m.service, result).Inc()
}

func (m *HTTPServerMetrics) RecordEventPublished(reason string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.clientEventsPublished.WithLabelValues(m.service, reason, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
