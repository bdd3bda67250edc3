package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/eac-compliance-desk/internal/config"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
	"github.com/kirillkom/eac-compliance-desk/internal/core/usecase"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/extractor"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/llm"
	"github.com/kirillkom/eac-compliance-desk/internal/observability/metrics"
)

// App is the wired API process.
type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	Session  ports.SessionService
	Settings ports.SettingsService
	Ledger   ports.LedgerService
	Receipts ports.ReceiptReviewService
	Desk     ports.AuditDeskService
	Advisory ports.AdvisoryService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	var closers closerStack
	fail := func(err error) (*App, error) {
		closers.run()
		return nil, err
	}

	httpMetrics := metrics.NewHTTPServerMetrics("api")

	jurisdictions, err := config.LoadJurisdictions(cfg.JurisdictionsFile)
	if err != nil {
		return fail(fmt.Errorf("load jurisdictions: %w", err))
	}

	store, closeStore, err := openStateStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers.push(closeStore)

	advisor, err := newAdvisor(ctx, cfg, httpMetrics)
	if err != nil {
		return fail(fmt.Errorf("init advisor: %w", err))
	}
	instrumented := llm.Instrument(advisor, httpMetrics, llm.WithCallTimeout(cfg.AdvisoryTimeout))

	evidence, closeEvidence, err := newEvidenceStorage(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("init evidence storage: %w", err))
	}
	closers.push(closeEvidence)

	var publisher ports.EventPublisher
	if cfg.EventsEnabled {
		bus, err := connectEvents(cfg, httpMetrics)
		if err != nil {
			return fail(fmt.Errorf("init event bus: %w", err))
		}
		closers.push(bus.Close)
		publisher = &instrumentedPublisher{next: bus, recorder: httpMetrics}
	} else {
		slog.Info("client_events_disabled")
	}

	textLayer := extractor.NewRouter()
	ws := usecase.LoadWorkspace(ctx, store, jurisdictions)

	settingsUC := usecase.NewSettingsUseCase(ws)
	ledgerUC := usecase.NewLedgerUseCase(ws, instrumented, evidence, textLayer, xlsx.NewExporter())
	deskUC := usecase.NewAuditDeskUseCase(ws, publisher)
	advisoryUC := usecase.NewAdvisoryUseCase(ws, instrumented, textLayer)

	slog.Info("api_wired",
		"state_backend", cfg.StateBackend,
		"advisor", cfg.AdvisorProvider,
		"evidence_backend", cfg.EvidenceBackend,
		"events_enabled", cfg.EventsEnabled,
	)

	return &App{
		Config:  cfg,
		Metrics: httpMetrics,

		Session:  settingsUC,
		Settings: settingsUC,
		Ledger:   ledgerUC,
		Receipts: ledgerUC,
		Desk:     deskUC,
		Advisory: advisoryUC,

		closeFn: closers.run,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// closerStack releases resources in reverse acquisition order.
type closerStack struct {
	fns []func()
}

func (s *closerStack) push(fn func()) {
	if fn != nil {
		s.fns = append(s.fns, fn)
	}
}

func (s *closerStack) run() {
	for i := len(s.fns) - 1; i >= 0; i-- {
		s.fns[i]()
	}
	s.fns = nil
}
