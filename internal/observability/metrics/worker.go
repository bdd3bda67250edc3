package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	service  string
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	eventLag        *prometheus.HistogramVec
	alertsRaised    *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "worker",
			Name:      "events_processed_total",
			Help:      "Client change events processed by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eac",
			Subsystem: "worker",
			Name:      "event_process_duration_seconds",
			Help:      "Event processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "eac",
			Subsystem: "worker",
			Name:      "events_in_flight",
			Help:      "Number of events being evaluated.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	eventLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eac",
			Subsystem: "worker",
			Name:      "event_lag_seconds",
			Help:      "Delay between a client change and its evaluation.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service"},
	)
	alertsRaised := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eac",
			Subsystem: "alerts",
			Name:      "raised_total",
			Help:      "Compliance alerts raised by kind.",
		},
		[]string{"service", "kind"},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, eventLag, alertsRaised)

	return &WorkerMetrics{
		service:         service,
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		eventLag:        eventLag,
		alertsRaised:    alertsRaised,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartEvent() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishEvent(duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(m.service, status).Inc()
	m.processDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveEventLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.eventLag.WithLabelValues(m.service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordAlert(kind string) {
	m.alertsRaised.WithLabelValues(m.service, kind).Inc()
}
