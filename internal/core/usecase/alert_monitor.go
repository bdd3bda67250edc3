package usecase

import (
	"context"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

// AlertMonitor re-evaluates alerts for one client from persisted state. It
// runs in the worker process, which shares only the state store with the API.
type AlertMonitor struct {
	store ports.StateStore
	now   func() time.Time
}

func NewAlertMonitor(store ports.StateStore, now func() time.Time) *AlertMonitor {
	if now == nil {
		now = time.Now
	}
	return &AlertMonitor{store: store, now: now}
}

func (m *AlertMonitor) HandleClientChanged(ctx context.Context, event domain.ClientChangedEvent) ([]domain.Alert, error) {
	clients := LoadOrDefault(ctx, m.store, domain.KeyClients, SeedClients())
	cfg := LoadOrDefault(ctx, m.store, domain.KeyAlertConfig, domain.DefaultAlertConfig())
	if err := validateAlertConfig(cfg); err != nil {
		cfg = domain.DefaultAlertConfig()
	}

	client, err := compliance.FindClient(clients, event.ClientID)
	if err != nil {
		return nil, err
	}
	return compliance.Evaluate([]domain.Client{compliance.Normalize(client)}, cfg, m.now()), nil
}
