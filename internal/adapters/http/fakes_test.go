package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/kirillkom/eac-compliance-desk/internal/config"
	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type sessionFake struct {
	session domain.Session
}

func (f *sessionFake) Session(context.Context) domain.Session { return f.session }

func (f *sessionFake) Login(_ context.Context, role domain.Role) (domain.Session, error) {
	f.session.Role = role
	f.session.LoggedIn = true
	return f.session, nil
}

func (f *sessionFake) Logout(context.Context) domain.Session {
	f.session.LoggedIn = false
	return f.session
}

func (f *sessionFake) SetLanguage(_ context.Context, lang domain.Language) (domain.Session, error) {
	f.session.Language = lang
	return f.session, nil
}

type settingsFake struct {
	jurisdiction domain.Jurisdiction
	alerts       domain.ComplianceAlertConfig
	categories   []string
	err          error
}

func (f *settingsFake) Jurisdiction(context.Context) domain.Jurisdiction { return f.jurisdiction }

func (f *settingsFake) SetJurisdiction(_ context.Context, country domain.Country) (domain.Jurisdiction, error) {
	j, ok := domain.DefaultJurisdictions().Lookup(country)
	if !ok {
		return domain.Jurisdiction{}, domain.ErrInvalidInput
	}
	f.jurisdiction = j
	return j, nil
}

func (f *settingsFake) AlertConfig(context.Context) domain.ComplianceAlertConfig { return f.alerts }

func (f *settingsFake) SetAlertConfig(_ context.Context, cfg domain.ComplianceAlertConfig) (domain.ComplianceAlertConfig, error) {
	f.alerts = cfg
	return cfg, nil
}

func (f *settingsFake) Categories(context.Context) []string { return f.categories }

func (f *settingsFake) AddCategory(_ context.Context, name string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.categories = append(f.categories, name)
	return f.categories, nil
}

func (f *settingsFake) RemoveCategory(_ context.Context, name string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

type ledgerFake struct {
	added     []domain.NewTransaction
	err       error
	exportErr error
}

func (f *ledgerFake) Transactions(context.Context) []domain.Transaction {
	return []domain.Transaction{{ID: "t1", Amount: 100, Type: domain.TransactionIncome}}
}

func (f *ledgerFake) AddTransaction(_ context.Context, in domain.NewTransaction) (domain.Transaction, error) {
	if f.err != nil {
		return domain.Transaction{}, f.err
	}
	f.added = append(f.added, in)
	return domain.Transaction{ID: "t2", Date: in.Date, Amount: in.Amount, Type: in.Type, Category: in.Category}, nil
}

func (f *ledgerFake) SetEvidenceStatus(_ context.Context, id string, status domain.EvidenceStatus) (domain.Transaction, error) {
	if f.err != nil {
		return domain.Transaction{}, f.err
	}
	return domain.Transaction{ID: id, EvidenceStatus: status}, nil
}

func (f *ledgerFake) Score(context.Context) compliance.ScoreResult {
	return compliance.ScoreResult{Score: 100, Status: domain.StatusCompliant, Unscored: true}
}

func (f *ledgerFake) Summary(context.Context) compliance.TaxSummary {
	return compliance.TaxSummary{Transactions: 1, Currencies: []compliance.CurrencyTotals{{Currency: "UGX", Transactions: 1}}}
}

func (f *ledgerFake) Export(_ context.Context, w io.Writer) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	_, err := w.Write([]byte("PK-ledger"))
	return err
}

func (f *ledgerFake) ExportFormat() (string, string) {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
}

type receiptsFake struct {
	scanned   []domain.Evidence
	scanErr   error
	confirmed []string
	cancelled int
}

func (f *receiptsFake) ScanReceipt(_ context.Context, evidence domain.Evidence) (domain.ReceiptScan, error) {
	if f.scanErr != nil {
		return domain.ReceiptScan{}, f.scanErr
	}
	f.scanned = append(f.scanned, evidence)
	amount := 5000.0
	return domain.ReceiptScan{Token: "scan-1", Draft: domain.ReceiptDraft{Amount: &amount}}, nil
}

func (f *receiptsFake) CancelScan(context.Context) { f.cancelled++ }

func (f *receiptsFake) ConfirmReceipt(_ context.Context, token string, _ domain.ReceiptDraft) (domain.Transaction, error) {
	if token != "scan-1" {
		return domain.Transaction{}, domain.WrapError(domain.ErrStaleScan, "confirm receipt", errors.New("token="+token))
	}
	f.confirmed = append(f.confirmed, token)
	return domain.Transaction{ID: "t-receipt", HasReceipt: true}, nil
}

type deskFake struct {
	lastQuery string
	lastSort  compliance.SortKey
	err       error
	selected  []string
}

func (f *deskFake) Clients(_ context.Context, query string, sort compliance.SortKey) []domain.Client {
	f.lastQuery, f.lastSort = query, sort
	return []domain.Client{{ID: "c1", BusinessName: "Kampala Fresh Foods"}}
}

func (f *deskFake) Client(_ context.Context, id string) (domain.Client, error) {
	if id != "c1" {
		return domain.Client{}, domain.WrapError(domain.ErrNotFound, "client", errors.New("id="+id))
	}
	return domain.Client{ID: "c1"}, nil
}

func (f *deskFake) SelectClient(ctx context.Context, id string) (domain.Client, error) {
	client, err := f.Client(ctx, id)
	if err == nil {
		f.selected = append(f.selected, id)
	}
	return client, err
}

func (f *deskFake) Portfolio(context.Context) compliance.PortfolioStats {
	return compliance.PortfolioStats{TotalClients: 3}
}

func (f *deskFake) SetPhaseStatus(_ context.Context, clientID, phaseID string, status domain.PhaseStatus) (domain.Client, error) {
	if f.err != nil {
		return domain.Client{}, f.err
	}
	return domain.Client{ID: clientID, Workflow: []domain.AuditPhase{{ID: phaseID, Status: status}}}, nil
}

func (f *deskFake) ToggleChecklistItem(_ context.Context, clientID, itemID string) (domain.Client, error) {
	return domain.Client{ID: clientID, Checklist: []domain.ChecklistItem{{ID: itemID, Completed: true}}}, nil
}

func (f *deskFake) ConfirmAnomalies(_ context.Context, clientID string, reports []domain.AnomalyReport) (domain.Client, error) {
	return domain.Client{ID: clientID, AnomalyCount: len(reports)}, nil
}

func (f *deskFake) Alerts(context.Context) []domain.Alert {
	return []domain.Alert{{Kind: domain.AlertLowScore, ClientID: "c2", Value: 45, Threshold: 70}}
}

type advisoryFake struct {
	err        error
	lastPrompt string
	lastMime   string
}

func (f *advisoryFake) Chat(_ context.Context, message string, _ []domain.ChatMessage, _ bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "echo: " + message, nil
}

func (f *advisoryFake) DetectAnomalies(context.Context) ([]domain.AnomalyReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.AnomalyReport{}, nil
}

func (f *advisoryFake) Commentary(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return domain.NoCommentary, nil
}

func (f *advisoryFake) AnalyzeEvidence(_ context.Context, evidence domain.Evidence, prompt string) (string, error) {
	f.lastPrompt, f.lastMime = prompt, evidence.MimeType
	return "looks valid", nil
}

type testServices struct {
	session  *sessionFake
	settings *settingsFake
	ledger   *ledgerFake
	receipts *receiptsFake
	desk     *deskFake
	advisory *advisoryFake
}

func newTestServices() *testServices {
	return &testServices{
		session:  &sessionFake{session: domain.Session{Role: domain.RoleClient, Language: domain.LanguageEnglish}},
		settings: &settingsFake{alerts: domain.ComplianceAlertConfig{ScoreThreshold: 70, IssueThreshold: 5, DeadlineAlertDays: 7}},
		ledger:   &ledgerFake{},
		receipts: &receiptsFake{},
		desk:     &deskFake{},
		advisory: &advisoryFake{},
	}
}

func (s *testServices) services() Services {
	return Services{
		Session:  s.session,
		Settings: s.settings,
		Ledger:   s.ledger,
		Receipts: s.receipts,
		Desk:     s.desk,
		Advisory: s.advisory,
	}
}

func newTestHandler(cfg config.Config) http.Handler {
	return NewRouter(cfg, newTestServices().services()).Handler()
}
