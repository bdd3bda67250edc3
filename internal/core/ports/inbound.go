package ports

import (
	"context"
	"io"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// SessionService is the inbound contract for role, login and language.
type SessionService interface {
	Session(ctx context.Context) domain.Session
	Login(ctx context.Context, role domain.Role) (domain.Session, error)
	Logout(ctx context.Context) domain.Session
	SetLanguage(ctx context.Context, lang domain.Language) (domain.Session, error)
}

// SettingsService is the inbound contract for workspace settings.
type SettingsService interface {
	Jurisdiction(ctx context.Context) domain.Jurisdiction
	SetJurisdiction(ctx context.Context, country domain.Country) (domain.Jurisdiction, error)
	AlertConfig(ctx context.Context) domain.ComplianceAlertConfig
	SetAlertConfig(ctx context.Context, cfg domain.ComplianceAlertConfig) (domain.ComplianceAlertConfig, error)
	Categories(ctx context.Context) []string
	AddCategory(ctx context.Context, name string) ([]string, error)
	RemoveCategory(ctx context.Context, name string) ([]string, error)
}

// LedgerService is the inbound contract for the transaction ledger.
type LedgerService interface {
	Transactions(ctx context.Context) []domain.Transaction
	AddTransaction(ctx context.Context, in domain.NewTransaction) (domain.Transaction, error)
	SetEvidenceStatus(ctx context.Context, id string, status domain.EvidenceStatus) (domain.Transaction, error)
	Score(ctx context.Context) compliance.ScoreResult
	Summary(ctx context.Context) compliance.TaxSummary
	Export(ctx context.Context, w io.Writer) error
	ExportFormat() (contentType, extension string)
}

// ReceiptReviewService is the inbound contract for scan, review and confirm.
type ReceiptReviewService interface {
	ScanReceipt(ctx context.Context, evidence domain.Evidence) (domain.ReceiptScan, error)
	CancelScan(ctx context.Context)
	ConfirmReceipt(ctx context.Context, token string, edits domain.ReceiptDraft) (domain.Transaction, error)
}

// AuditDeskService is the inbound contract for the auditor workspace.
type AuditDeskService interface {
	Clients(ctx context.Context, query string, sort compliance.SortKey) []domain.Client
	Client(ctx context.Context, id string) (domain.Client, error)
	SelectClient(ctx context.Context, id string) (domain.Client, error)
	Portfolio(ctx context.Context) compliance.PortfolioStats
	SetPhaseStatus(ctx context.Context, clientID, phaseID string, status domain.PhaseStatus) (domain.Client, error)
	ToggleChecklistItem(ctx context.Context, clientID, itemID string) (domain.Client, error)
	ConfirmAnomalies(ctx context.Context, clientID string, reports []domain.AnomalyReport) (domain.Client, error)
	Alerts(ctx context.Context) []domain.Alert
}

// AdvisoryService is the inbound contract for advisory requests.
type AdvisoryService interface {
	Chat(ctx context.Context, message string, history []domain.ChatMessage, deepReasoning bool) (string, error)
	DetectAnomalies(ctx context.Context) ([]domain.AnomalyReport, error)
	Commentary(ctx context.Context) (string, error)
	AnalyzeEvidence(ctx context.Context, evidence domain.Evidence, prompt string) (string, error)
}

// ClientChangeHandler is the inbound contract for the alert worker.
type ClientChangeHandler interface {
	HandleClientChanged(ctx context.Context, event domain.ClientChangedEvent) ([]domain.Alert, error)
}
