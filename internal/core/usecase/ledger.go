package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

const defaultDescription = "Entry"

type LedgerUseCase struct {
	ws        *Workspace
	advisor   ports.Advisor
	storage   ports.EvidenceStorage
	extractor ports.TextExtractor
	exporter  ports.LedgerExporter
}

// NewLedgerUseCase wires the ledger. storage and extractor are optional.
func NewLedgerUseCase(
	ws *Workspace,
	advisor ports.Advisor,
	storage ports.EvidenceStorage,
	extractor ports.TextExtractor,
	exporter ports.LedgerExporter,
) *LedgerUseCase {
	return &LedgerUseCase{
		ws:        ws,
		advisor:   advisor,
		storage:   storage,
		extractor: extractor,
		exporter:  exporter,
	}
}

// Transactions returns the ledger, newest first.
func (uc *LedgerUseCase) Transactions(_ context.Context) []domain.Transaction {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return cloneTransactions(uc.ws.transactions)
}

// AddTransaction records a manual entry with taxes derived under the active
// jurisdiction.
func (uc *LedgerUseCase) AddTransaction(ctx context.Context, in domain.NewTransaction) (domain.Transaction, error) {
	if err := validateAmount(in.Amount); err != nil {
		return domain.Transaction{}, domain.WrapError(domain.ErrInvalidInput, "add transaction", err)
	}
	if !in.Type.Valid() {
		return domain.Transaction{}, domain.WrapError(domain.ErrInvalidInput, "add transaction", fmt.Errorf("unknown type %q", in.Type))
	}

	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	date := in.Date
	if date.IsZero() {
		date = uc.ws.today()
	}
	evidence := domain.EvidenceMissing
	if in.HasReceipt {
		evidence = domain.EvidencePending
	}
	tx := domain.Transaction{
		ID:             uuid.NewString(),
		Date:           date,
		Description:    orDefault(in.Description, defaultDescription),
		Amount:         in.Amount,
		Category:       orDefault(in.Category, domain.CategoryOther),
		Type:           in.Type,
		HasReceipt:     in.HasReceipt,
		ReceiptURL:     strings.TrimSpace(in.ReceiptURL),
		InvoiceNumber:  strings.TrimSpace(in.InvoiceNumber),
		DueDate:        in.DueDate,
		EvidenceStatus: evidence,
	}
	uc.recordLocked(ctx, &tx)
	return tx, nil
}

// SetEvidenceStatus updates the only mutable field of a recorded transaction.
func (uc *LedgerUseCase) SetEvidenceStatus(ctx context.Context, id string, status domain.EvidenceStatus) (domain.Transaction, error) {
	if !status.Valid() {
		return domain.Transaction{}, domain.WrapError(domain.ErrInvalidInput, "set evidence status", fmt.Errorf("unknown status %q", status))
	}
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	for i := range uc.ws.transactions {
		if uc.ws.transactions[i].ID != id {
			continue
		}
		next := cloneTransactions(uc.ws.transactions)
		next[i].EvidenceStatus = status
		uc.ws.transactions = next
		uc.ws.save(ctx, domain.KeyTransactions, uc.ws.transactions)
		return next[i], nil
	}
	return domain.Transaction{}, domain.WrapError(domain.ErrNotFound, "set evidence status", fmt.Errorf("transaction=%s", id))
}

func (uc *LedgerUseCase) Score(_ context.Context) compliance.ScoreResult {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return compliance.ReceiptScore(uc.ws.transactions)
}

func (uc *LedgerUseCase) Summary(_ context.Context) compliance.TaxSummary {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	return compliance.Summarize(uc.ws.transactions)
}

func (uc *LedgerUseCase) Export(_ context.Context, w io.Writer) error {
	if uc.exporter == nil {
		return errors.New("ledger exporter is not configured")
	}
	uc.ws.mu.Lock()
	txs := cloneTransactions(uc.ws.transactions)
	summary := compliance.Summarize(txs)
	uc.ws.mu.Unlock()

	if err := uc.exporter.ExportLedger(w, txs, summary); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}
	return nil
}

func (uc *LedgerUseCase) ExportFormat() (string, string) {
	if uc.exporter == nil {
		return "application/octet-stream", "bin"
	}
	return uc.exporter.ContentType(), uc.exporter.FileExtension()
}

// recordLocked derives taxes, prepends tx and saves the ledger.
func (uc *LedgerUseCase) recordLocked(ctx context.Context, tx *domain.Transaction) {
	j := uc.ws.jurisdictionLocked()
	tx.Currency = j.Currency
	compliance.ApplyTax(tx, j)

	next := make([]domain.Transaction, 0, len(uc.ws.transactions)+1)
	next = append(next, *tx)
	next = append(next, uc.ws.transactions...)
	uc.ws.transactions = next
	uc.ws.save(ctx, domain.KeyTransactions, uc.ws.transactions)
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return errors.New("amount is not a finite number")
	}
	if amount < 0 {
		return fmt.Errorf("amount %v is negative", amount)
	}
	return nil
}

func cloneTransactions(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx
		if tx.TaxCalculated != nil {
			calc := *tx.TaxCalculated
			out[i].TaxCalculated = &calc
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
