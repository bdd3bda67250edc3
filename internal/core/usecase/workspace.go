package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

const stateSaveTimeout = 5 * time.Second

// Workspace is the in-memory state shared by the use cases of one process.
// Every mutation commits under mu and is then saved through the store; the
// in-memory copy stays authoritative when a save fails.
type Workspace struct {
	mu sync.Mutex

	store         ports.StateStore
	jurisdictions domain.JurisdictionTable
	now           func() time.Time

	session          domain.Session
	alertConfig      domain.ComplianceAlertConfig
	clients          []domain.Client
	transactions     []domain.Transaction
	customCategories []string
	scan             pendingScan
}

type pendingScan struct {
	token      string
	ready      bool
	draft      domain.ReceiptDraft
	receiptURL string
}

type WorkspaceOption func(*Workspace)

func WithClock(now func() time.Time) WorkspaceOption {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

// LoadWorkspace restores every persisted key. Missing or unreadable values
// fall back to defaults and the seed dataset; loading never fails.
func LoadWorkspace(
	ctx context.Context,
	store ports.StateStore,
	jurisdictions domain.JurisdictionTable,
	opts ...WorkspaceOption,
) *Workspace {
	if jurisdictions == nil {
		jurisdictions = domain.DefaultJurisdictions()
	}
	w := &Workspace{
		store:         store,
		jurisdictions: jurisdictions,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	role := LoadOrDefault(ctx, store, domain.KeySessionRole, domain.RoleClient)
	if !role.Valid() {
		role = domain.RoleClient
	}
	lang := LoadOrDefault(ctx, store, domain.KeySessionLanguage, domain.LanguageEnglish)
	if !lang.Valid() {
		lang = domain.LanguageEnglish
	}
	country := LoadOrDefault(ctx, store, domain.KeyJurisdiction, domain.Uganda)
	if !country.Valid() {
		country = domain.Uganda
	}
	w.session = domain.Session{
		Role:     role,
		LoggedIn: LoadOrDefault(ctx, store, domain.KeySessionLoggedIn, false),
		Language: lang,
		Country:  country,
	}

	w.alertConfig = LoadOrDefault(ctx, store, domain.KeyAlertConfig, domain.DefaultAlertConfig())
	if err := validateAlertConfig(w.alertConfig); err != nil {
		slog.Warn("state_value_rejected", "key", domain.KeyAlertConfig, "error", err)
		w.alertConfig = domain.DefaultAlertConfig()
	}

	clients := LoadOrDefault(ctx, store, domain.KeyClients, SeedClients())
	w.clients = make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		w.clients = append(w.clients, compliance.Normalize(c))
	}

	seedJurisdiction, _ := w.jurisdictions.Lookup(domain.Uganda)
	w.transactions = LoadOrDefault(ctx, store, domain.KeyTransactions, SeedTransactions(seedJurisdiction))
	for i := range w.transactions {
		if w.transactions[i].Type != domain.TransactionExpense {
			w.transactions[i].TaxCalculated = nil
		}
	}
	if w.transactions == nil {
		w.transactions = []domain.Transaction{}
	}

	w.customCategories = normalizeCategories(LoadOrDefault(ctx, store, domain.KeyCustomCategories, []string{}))
	return w
}

// LoadOrDefault reads key into a fresh T, returning def when the key is
// absent or cannot be read.
func LoadOrDefault[T any](ctx context.Context, store ports.StateStore, key string, def T) T {
	if store == nil {
		return def
	}
	var value T
	found, err := store.Load(ctx, key, &value)
	if err != nil {
		slog.Warn("state_load_failed", "key", key, "error", err)
		return def
	}
	if !found {
		return def
	}
	return value
}

// save must be called with mu held so stored snapshots follow commit order.
func (w *Workspace) save(ctx context.Context, key string, value any) {
	if w.store == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stateSaveTimeout)
	defer cancel()
	if err := w.store.Save(saveCtx, key, value); err != nil {
		slog.Error("state_save_failed", "key", key, "error", err)
	}
}

func (w *Workspace) jurisdictionLocked() domain.Jurisdiction {
	if j, ok := w.jurisdictions.Lookup(w.session.Country); ok {
		return j
	}
	j, _ := w.jurisdictions.Lookup(domain.Uganda)
	return j
}

func (w *Workspace) today() domain.Date {
	return domain.DateOf(w.now())
}
