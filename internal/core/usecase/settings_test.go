package usecase

import (
	"context"
	"slices"
	"testing"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

func TestLoginPersistsSession(t *testing.T) {
	store := newStoreFake()
	uc := NewSettingsUseCase(newTestWorkspace(store))

	session, err := uc.Login(context.Background(), domain.RoleAuditor)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !session.LoggedIn || session.Role != domain.RoleAuditor {
		t.Fatalf("unexpected session %+v", session)
	}

	restored := NewSettingsUseCase(newTestWorkspace(store)).Session(context.Background())
	if restored.Role != domain.RoleAuditor || !restored.LoggedIn {
		t.Fatalf("expected session restored from store, got %+v", restored)
	}

	if out := uc.Logout(context.Background()); out.LoggedIn {
		t.Fatalf("expected logged out session")
	}
	if _, err := uc.Login(context.Background(), domain.Role("root")); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestSetLanguage(t *testing.T) {
	store := newStoreFake()
	uc := NewSettingsUseCase(newTestWorkspace(store))

	if _, err := uc.SetLanguage(context.Background(), domain.LanguageLuganda); err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}
	if store.saveCount(domain.KeySessionLanguage) != 1 {
		t.Fatalf("expected language to be saved")
	}
	if _, err := uc.SetLanguage(context.Background(), domain.Language("fr")); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetJurisdictionRejectsUnknownCountry(t *testing.T) {
	uc := NewSettingsUseCase(newTestWorkspace(newStoreFake()))

	_, err := uc.SetJurisdiction(context.Background(), domain.Country("Narnia"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	j, err := uc.SetJurisdiction(context.Background(), domain.Kenya)
	if err != nil {
		t.Fatalf("SetJurisdiction() error = %v", err)
	}
	if j.Currency != "KES" || j.VATRate != 0.16 {
		t.Fatalf("unexpected Kenya jurisdiction %+v", j)
	}
}

func TestSetAlertConfig(t *testing.T) {
	store := newStoreFake()
	uc := NewSettingsUseCase(newTestWorkspace(store))

	cfg := domain.ComplianceAlertConfig{ScoreThreshold: 60, IssueThreshold: 2, DeadlineAlertDays: 14}
	if _, err := uc.SetAlertConfig(context.Background(), cfg); err != nil {
		t.Fatalf("SetAlertConfig() error = %v", err)
	}
	if uc.AlertConfig(context.Background()) != cfg {
		t.Fatalf("expected alert config to be applied")
	}
	if store.saveCount(domain.KeyAlertConfig) != 1 {
		t.Fatalf("expected alert config to be saved")
	}

	_, err := uc.SetAlertConfig(context.Background(), domain.ComplianceAlertConfig{ScoreThreshold: 101})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCustomCategories(t *testing.T) {
	uc := NewSettingsUseCase(newTestWorkspace(newStoreFake()))
	ctx := context.Background()

	cats, err := uc.AddCategory(ctx, "  Professional Services ")
	if err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if !slices.Contains(cats, "Professional Services") {
		t.Fatalf("expected trimmed custom category, got %v", cats)
	}
	again, _ := uc.AddCategory(ctx, "Professional Services")
	if len(again) != len(cats) {
		t.Fatalf("expected duplicate add to be ignored")
	}
	if _, err := uc.AddCategory(ctx, "   "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	if _, err := uc.RemoveCategory(ctx, domain.CategoryRent); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected default category removal to be rejected, got %v", err)
	}
	if _, err := uc.RemoveCategory(ctx, "Unknown"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	after, err := uc.RemoveCategory(ctx, "Professional Services")
	if err != nil {
		t.Fatalf("RemoveCategory() error = %v", err)
	}
	if len(after) != len(domain.DefaultCategories) {
		t.Fatalf("expected only default categories, got %v", after)
	}
}
