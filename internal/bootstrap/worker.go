package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/config"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
	"github.com/kirillkom/eac-compliance-desk/internal/core/usecase"
	"github.com/kirillkom/eac-compliance-desk/internal/observability/metrics"
)

const eventHandleTimeout = 30 * time.Second

// Worker re-evaluates compliance alerts whenever the API commits a client change.
type Worker struct {
	Config  config.Config
	Metrics *metrics.WorkerMetrics

	events  ports.EventSubscriber
	monitor ports.ClientChangeHandler
	now     func() time.Time
	closeFn func()
}

func NewWorker(ctx context.Context, cfg config.Config) (*Worker, error) {
	if !cfg.EventsEnabled {
		return nil, fmt.Errorf("worker requires EVENTS_ENABLED=true")
	}
	var closers closerStack
	workerMetrics := metrics.NewWorkerMetrics("worker")

	store, closeStore, err := openStateStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	closers.push(closeStore)

	bus, err := connectEvents(cfg, nil)
	if err != nil {
		closers.run()
		return nil, fmt.Errorf("init event bus: %w", err)
	}
	closers.push(bus.Close)

	return &Worker{
		Config:  cfg,
		Metrics: workerMetrics,
		events:  bus,
		monitor: usecase.NewAlertMonitor(store, time.Now),
		now:     time.Now,
		closeFn: closers.run,
	}, nil
}

// Run consumes client change events until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	return w.events.SubscribeClientChanged(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, event domain.ClientChangedEvent) error {
	start := w.now()
	w.Metrics.StartEvent()
	if !event.At.IsZero() {
		w.Metrics.ObserveEventLag(start.Sub(event.At))
	}

	handleCtx, cancel := context.WithTimeout(ctx, eventHandleTimeout)
	defer cancel()

	alerts, err := w.monitor.HandleClientChanged(handleCtx, event)
	w.Metrics.FinishEvent(w.now().Sub(start), err)
	if err != nil {
		return fmt.Errorf("evaluate client_id=%s: %w", event.ClientID, err)
	}

	for _, alert := range alerts {
		w.Metrics.RecordAlert(string(alert.Kind))
		slog.Warn("compliance_alert",
			"kind", alert.Kind,
			"client_id", alert.ClientID,
			"phase_id", alert.PhaseID,
			"value", alert.Value,
			"threshold", alert.Threshold,
			"reason", event.Reason,
		)
	}
	slog.Debug("client_change_evaluated", "client_id", event.ClientID, "alerts", len(alerts))
	return nil
}

func (w *Worker) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
