package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type SettingsUseCase struct {
	ws *Workspace
}

func NewSettingsUseCase(ws *Workspace) *SettingsUseCase {
	return &SettingsUseCase{ws: ws}
}

func (uc *SettingsUseCase) Session(_ context.Context) domain.Session {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return uc.ws.session
}

func (uc *SettingsUseCase) Login(ctx context.Context, role domain.Role) (domain.Session, error) {
	if !role.Valid() {
		return domain.Session{}, domain.WrapError(domain.ErrInvalidInput, "login", fmt.Errorf("unknown role %q", role))
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	uc.ws.session.Role = role
	uc.ws.session.LoggedIn = true
	uc.ws.save(ctx, domain.KeySessionRole, role)
	uc.ws.save(ctx, domain.KeySessionLoggedIn, true)
	return uc.ws.session, nil
}

func (uc *SettingsUseCase) Logout(ctx context.Context) domain.Session {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	uc.ws.session.LoggedIn = false
	uc.ws.session.ActiveClientID = ""
	uc.ws.save(ctx, domain.KeySessionLoggedIn, false)
	return uc.ws.session
}

func (uc *SettingsUseCase) SetLanguage(ctx context.Context, lang domain.Language) (domain.Session, error) {
	if !lang.Valid() {
		return domain.Session{}, domain.WrapError(domain.ErrInvalidInput, "set language", fmt.Errorf("unsupported language %q", lang))
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	uc.ws.session.Language = lang
	uc.ws.save(ctx, domain.KeySessionLanguage, lang)
	return uc.ws.session, nil
}

func (uc *SettingsUseCase) Jurisdiction(_ context.Context) domain.Jurisdiction {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return uc.ws.jurisdictionLocked()
}

// SetJurisdiction changes the active country. Recorded transactions keep the
// taxes derived when they were entered.
func (uc *SettingsUseCase) SetJurisdiction(ctx context.Context, country domain.Country) (domain.Jurisdiction, error) {
	if !country.Valid() {
		return domain.Jurisdiction{}, domain.WrapError(domain.ErrInvalidInput, "set jurisdiction", fmt.Errorf("unknown country %q", country))
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	uc.ws.session.Country = country
	uc.ws.save(ctx, domain.KeyJurisdiction, country)
	return uc.ws.jurisdictionLocked(), nil
}

func (uc *SettingsUseCase) AlertConfig(_ context.Context) domain.ComplianceAlertConfig {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return uc.ws.alertConfig
}

func (uc *SettingsUseCase) SetAlertConfig(ctx context.Context, cfg domain.ComplianceAlertConfig) (domain.ComplianceAlertConfig, error) {
	if err := validateAlertConfig(cfg); err != nil {
		return domain.ComplianceAlertConfig{}, domain.WrapError(domain.ErrInvalidInput, "set alert config", err)
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	uc.ws.alertConfig = cfg
	uc.ws.save(ctx, domain.KeyAlertConfig, cfg)
	return cfg, nil
}

// Categories lists the default categories followed by custom ones.
func (uc *SettingsUseCase) Categories(_ context.Context) []string {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return uc.ws.categoriesLocked()
}

func (uc *SettingsUseCase) AddCategory(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "add category", errors.New("category name is empty"))
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	if slices.Contains(uc.ws.categoriesLocked(), name) {
		return uc.ws.categoriesLocked(), nil
	}
	uc.ws.customCategories = append(slices.Clone(uc.ws.customCategories), name)
	uc.ws.save(ctx, domain.KeyCustomCategories, uc.ws.customCategories)
	return uc.ws.categoriesLocked(), nil
}

func (uc *SettingsUseCase) RemoveCategory(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if slices.Contains(domain.DefaultCategories, name) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "remove category", fmt.Errorf("%q is a default category", name))
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	idx := slices.Index(uc.ws.customCategories, name)
	if idx < 0 {
		return nil, domain.WrapError(domain.ErrNotFound, "remove category", fmt.Errorf("category=%s", name))
	}
	uc.ws.customCategories = slices.Delete(slices.Clone(uc.ws.customCategories), idx, idx+1)
	uc.ws.save(ctx, domain.KeyCustomCategories, uc.ws.customCategories)
	return uc.ws.categoriesLocked(), nil
}

func (w *Workspace) categoriesLocked() []string {
	out := make([]string, 0, len(domain.DefaultCategories)+len(w.customCategories))
	out = append(out, domain.DefaultCategories...)
	return append(out, w.customCategories...)
}

func validateAlertConfig(cfg domain.ComplianceAlertConfig) error {
	switch {
	case cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 100:
		return fmt.Errorf("score threshold %d out of range 0..100", cfg.ScoreThreshold)
	case cfg.IssueThreshold < 0:
		return fmt.Errorf("issue threshold %d is negative", cfg.IssueThreshold)
	case cfg.DeadlineAlertDays < 0:
		return fmt.Errorf("deadline alert days %d is negative", cfg.DeadlineAlertDays)
	}
	return nil
}

// normalizeCategories trims names and drops blanks, defaults and duplicates.
func normalizeCategories(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(domain.DefaultCategories, name) || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
