package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

func TestSetPhaseStatusSavesAndPublishes(t *testing.T) {
	store := newStoreFake()
	publisher := &publisherFake{}
	uc := NewAuditDeskUseCase(newTestWorkspace(store), publisher)

	client, err := uc.SetPhaseStatus(context.Background(), "c2", "p3", domain.PhaseInProgress)
	if err != nil {
		t.Fatalf("SetPhaseStatus() error = %v", err)
	}
	if client.Workflow[2].Status != domain.PhaseInProgress {
		t.Fatalf("expected updated phase, got %s", client.Workflow[2].Status)
	}
	if store.saveCount(domain.KeyClients) != 1 {
		t.Fatalf("expected clients to be saved")
	}
	if len(publisher.events) != 1 || publisher.events[0].ClientID != "c2" || publisher.events[0].Reason != domain.ReasonPhaseStatus {
		t.Fatalf("unexpected events %+v", publisher.events)
	}
	if !publisher.events[0].At.Equal(fixedNow) {
		t.Fatalf("expected event time from clock, got %s", publisher.events[0].At)
	}

	var saved []domain.Client
	if ok, err := store.Load(context.Background(), domain.KeyClients, &saved); !ok || err != nil {
		t.Fatalf("expected saved clients, ok=%v err=%v", ok, err)
	}
	if saved[1].Workflow[2].Status != domain.PhaseInProgress {
		t.Fatalf("saved snapshot does not contain the update")
	}
}

func TestSetPhaseStatusErrorsLeaveStateUntouched(t *testing.T) {
	store := newStoreFake()
	publisher := &publisherFake{}
	uc := NewAuditDeskUseCase(newTestWorkspace(store), publisher)

	if _, err := uc.SetPhaseStatus(context.Background(), "c9", "p1", domain.PhaseCompleted); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.saveCount(domain.KeyClients) != 0 || len(publisher.events) != 0 {
		t.Fatalf("failed mutation must not save or publish")
	}
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	publisher := &publisherFake{err: errors.New("nats down")}
	uc := NewAuditDeskUseCase(newTestWorkspace(newStoreFake()), publisher)

	client, err := uc.ToggleChecklistItem(context.Background(), "c1", "d3")
	if err != nil {
		t.Fatalf("ToggleChecklistItem() error = %v", err)
	}
	if !client.Checklist[2].Completed {
		t.Fatalf("expected toggled item")
	}
}

func TestToggleChecklistTwiceRestoresClient(t *testing.T) {
	uc := NewAuditDeskUseCase(newTestWorkspace(newStoreFake()), nil)
	ctx := context.Background()

	before, _ := uc.Client(ctx, "c3")
	if _, err := uc.ToggleChecklistItem(ctx, "c3", "d1"); err != nil {
		t.Fatalf("first toggle error = %v", err)
	}
	after, err := uc.ToggleChecklistItem(ctx, "c3", "d1")
	if err != nil {
		t.Fatalf("second toggle error = %v", err)
	}
	for i := range before.Checklist {
		if before.Checklist[i] != after.Checklist[i] {
			t.Fatalf("checklist item %d differs after double toggle", i)
		}
	}
}

func TestConfirmAnomaliesWritesOpenCount(t *testing.T) {
	publisher := &publisherFake{}
	uc := NewAuditDeskUseCase(newTestWorkspace(newStoreFake()), publisher)

	client, err := uc.ConfirmAnomalies(context.Background(), "c1", []domain.AnomalyReport{
		{ID: "a1", Status: domain.AnomalyOpen},
		{ID: "a2", Status: domain.AnomalyIgnored},
		{ID: "a3", Status: domain.AnomalyOpen},
		{ID: "a4", Status: domain.AnomalyResolved},
	})
	if err != nil {
		t.Fatalf("ConfirmAnomalies() error = %v", err)
	}
	if client.AnomalyCount != 2 {
		t.Fatalf("expected 2 open anomalies, got %d", client.AnomalyCount)
	}
	if publisher.events[0].Reason != domain.ReasonAnomalyConfirmed {
		t.Fatalf("unexpected reason %s", publisher.events[0].Reason)
	}
}

func TestAlertsUseCurrentConfig(t *testing.T) {
	ws := newTestWorkspace(newStoreFake())
	uc := NewAuditDeskUseCase(ws, nil)

	alerts := uc.Alerts(context.Background())
	kinds := map[domain.AlertKind]int{}
	for _, a := range alerts {
		kinds[a.Kind]++
	}
	// At 2025-06-10: c2 and c3 score low, c3 has 12 anomalies, and every
	// client has p2 (06-15) within 7 days.
	if kinds[domain.AlertLowScore] != 2 || kinds[domain.AlertHighIssues] != 1 || kinds[domain.AlertDeadlineApproaching] != 3 {
		t.Fatalf("unexpected alert mix %v", kinds)
	}

	if _, err := NewSettingsUseCase(ws).SetAlertConfig(context.Background(), domain.ComplianceAlertConfig{ScoreThreshold: 0, IssueThreshold: 100, DeadlineAlertDays: 0}); err != nil {
		t.Fatalf("SetAlertConfig() error = %v", err)
	}
	if got := uc.Alerts(context.Background()); len(got) != 0 {
		t.Fatalf("expected no alerts with relaxed thresholds, got %+v", got)
	}
}

func TestSelectClientSwitchesJurisdiction(t *testing.T) {
	store := newStoreFake()
	ws := newTestWorkspace(store)
	uc := NewAuditDeskUseCase(ws, nil)

	if _, err := uc.SelectClient(context.Background(), "c3"); err != nil {
		t.Fatalf("SelectClient() error = %v", err)
	}
	j := NewSettingsUseCase(ws).Jurisdiction(context.Background())
	if j.Country != domain.Tanzania || j.Currency != "TZS" {
		t.Fatalf("expected Tanzania jurisdiction, got %+v", j)
	}
	if ws.session.ActiveClientID != "c3" {
		t.Fatalf("expected active client c3")
	}
	if store.saveCount(domain.KeyJurisdiction) != 1 {
		t.Fatalf("expected jurisdiction to be saved")
	}
}

func TestClientsAndPortfolio(t *testing.T) {
	uc := NewAuditDeskUseCase(newTestWorkspace(newStoreFake()), nil)

	risky := uc.Clients(context.Background(), "", compliance.SortByRisk)
	if risky[0].ID != "c3" {
		t.Fatalf("expected riskiest client first, got %s", risky[0].ID)
	}
	stats := uc.Portfolio(context.Background())
	if stats.TotalClients != 3 || stats.AtRisk != 2 || stats.AverageScore != 65 {
		t.Fatalf("unexpected portfolio %+v", stats)
	}
	if _, err := uc.Client(context.Background(), "zz"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
