package ports

import (
	"context"
	"io"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// StateStore is the persistent key-value gateway. Load reports false when the
// key has never been saved; dst is decoded from the stored JSON document.
type StateStore interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Advisor is the remote advisory (LLM) service. Adapters degrade malformed
// structured responses to empty results instead of failing.
type Advisor interface {
	Chat(ctx context.Context, req domain.ChatRequest) (string, error)
	ExtractReceipt(ctx context.Context, evidence domain.Evidence, country domain.Country) (domain.ReceiptDraft, error)
	AnalyzeAnomalies(ctx context.Context, txs []domain.Transaction, country domain.Country) ([]domain.AnomalyReport, error)
	GenerateCommentary(ctx context.Context, txs []domain.Transaction, country domain.Country, lang domain.Language) (string, error)
	AnalyzeEvidence(ctx context.Context, evidence domain.Evidence, prompt string) (string, error)
}

// EventPublisher announces committed client changes.
type EventPublisher interface {
	PublishClientChanged(ctx context.Context, event domain.ClientChangedEvent) error
}

// EventSubscriber consumes client change events until ctx is done.
type EventSubscriber interface {
	SubscribeClientChanged(ctx context.Context, handler func(context.Context, domain.ClientChangedEvent) error) error
}

// EvidenceStorage keeps uploaded receipts and supporting documents.
type EvidenceStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	URL(key string) string
}

// TextExtractor reads the text layer of a document, if it has one.
type TextExtractor interface {
	Extract(ctx context.Context, evidence domain.Evidence) (string, error)
}

// LedgerExporter renders the ledger and its tax summary as a report.
type LedgerExporter interface {
	ExportLedger(w io.Writer, txs []domain.Transaction, summary compliance.TaxSummary) error
	ContentType() string
	FileExtension() string
}
