package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

type AuditDeskUseCase struct {
	ws        *Workspace
	publisher ports.EventPublisher
}

// NewAuditDeskUseCase wires the auditor workspace. publisher may be nil.
func NewAuditDeskUseCase(ws *Workspace, publisher ports.EventPublisher) *AuditDeskUseCase {
	return &AuditDeskUseCase{ws: ws, publisher: publisher}
}

func (uc *AuditDeskUseCase) Clients(_ context.Context, query string, sort compliance.SortKey) []domain.Client {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return compliance.FilterAndSort(uc.ws.clients, query, sort)
}

func (uc *AuditDeskUseCase) Client(_ context.Context, id string) (domain.Client, error) {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return compliance.FindClient(uc.ws.clients, id)
}

// SelectClient makes id the active client and switches the jurisdiction to
// the client's country.
func (uc *AuditDeskUseCase) SelectClient(ctx context.Context, id string) (domain.Client, error) {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	client, err := compliance.FindClient(uc.ws.clients, id)
	if err != nil {
		return domain.Client{}, err
	}
	uc.ws.session.ActiveClientID = client.ID
	if client.Country.Valid() && client.Country != uc.ws.session.Country {
		uc.ws.session.Country = client.Country
		uc.ws.save(ctx, domain.KeyJurisdiction, client.Country)
	}
	return client, nil
}

func (uc *AuditDeskUseCase) Portfolio(_ context.Context) compliance.PortfolioStats {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return compliance.Portfolio(uc.ws.clients)
}

func (uc *AuditDeskUseCase) SetPhaseStatus(ctx context.Context, clientID, phaseID string, status domain.PhaseStatus) (domain.Client, error) {
	return uc.commit(ctx, domain.ReasonPhaseStatus, func(clients []domain.Client) ([]domain.Client, domain.Client, error) {
		return compliance.SetPhaseStatus(clients, clientID, phaseID, status)
	})
}

func (uc *AuditDeskUseCase) ToggleChecklistItem(ctx context.Context, clientID, itemID string) (domain.Client, error) {
	return uc.commit(ctx, domain.ReasonChecklist, func(clients []domain.Client) ([]domain.Client, domain.Client, error) {
		return compliance.ToggleChecklistItem(clients, clientID, itemID)
	})
}

// ConfirmAnomalies merges reviewed anomaly reports into the client record:
// the number of reports still open becomes the client's anomaly count.
func (uc *AuditDeskUseCase) ConfirmAnomalies(ctx context.Context, clientID string, reports []domain.AnomalyReport) (domain.Client, error) {
	open := 0
	for _, r := range reports {
		if r.Status == "" || r.Status == domain.AnomalyOpen {
			open++
		}
	}
	return uc.commit(ctx, domain.ReasonAnomalyConfirmed, func(clients []domain.Client) ([]domain.Client, domain.Client, error) {
		return compliance.SetAnomalyCount(clients, clientID, open)
	})
}

func (uc *AuditDeskUseCase) Alerts(_ context.Context) []domain.Alert {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return compliance.Evaluate(uc.ws.clients, uc.ws.alertConfig, uc.ws.now())
}

type clientMutation func([]domain.Client) ([]domain.Client, domain.Client, error)

// commit applies mutate to the client collection, saves it and announces the
// change. Publishing happens after the lock is released.
func (uc *AuditDeskUseCase) commit(ctx context.Context, reason domain.ChangeReason, mutate clientMutation) (domain.Client, error) {
	uc.ws.mu.Lock()
	next, updated, err := mutate(uc.ws.clients)
	if err != nil {
		uc.ws.mu.Unlock()
		return domain.Client{}, err
	}
	uc.ws.clients = next
	uc.ws.save(ctx, domain.KeyClients, uc.ws.clients)
	at := uc.ws.now().UTC()
	uc.ws.mu.Unlock()

	uc.publish(ctx, domain.ClientChangedEvent{ClientID: updated.ID, Reason: reason, At: at})
	return updated, nil
}

func (uc *AuditDeskUseCase) publish(ctx context.Context, event domain.ClientChangedEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishClientChanged(ctx, event); err != nil {
		slog.Warn("client_event_publish_failed",
			"client_id", event.ClientID,
			"reason", string(event.Reason),
			"error", err,
		)
	}
}
