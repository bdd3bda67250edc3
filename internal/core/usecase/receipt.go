package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

const mimePDF = "application/pdf"

// ScanReceipt extracts a draft transaction from an uploaded receipt. Each scan
// gets a fresh token; a newer scan or a cancel makes this one stale, and a
// stale extraction is discarded with ErrStaleScan.
func (uc *LedgerUseCase) ScanReceipt(ctx context.Context, evidence domain.Evidence) (domain.ReceiptScan, error) {
	if len(evidence.Data) == 0 {
		return domain.ReceiptScan{}, domain.WrapError(domain.ErrInvalidInput, "scan receipt", errors.New("empty upload"))
	}

	token := uuid.NewString()
	uc.ws.mu.Lock()
	uc.ws.scan = pendingScan{token: token}
	country := uc.ws.session.Country
	uc.ws.mu.Unlock()

	receiptURL := uc.storeEvidence(ctx, "receipts", token, evidence)
	evidence = uc.withTextLayer(ctx, evidence)

	draft, err := uc.advisor.ExtractReceipt(ctx, evidence, country)

	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	if uc.ws.scan.token != token {
		return domain.ReceiptScan{}, domain.WrapError(domain.ErrStaleScan, "scan receipt", fmt.Errorf("token=%s", token))
	}
	if err != nil {
		uc.ws.scan = pendingScan{}
		return domain.ReceiptScan{}, domain.WrapError(domain.ErrAdvisoryUnavailable, "scan receipt", err)
	}
	uc.ws.scan = pendingScan{
		token:      token,
		ready:      true,
		draft:      draft,
		receiptURL: receiptURL,
	}
	return domain.ReceiptScan{Token: token, Draft: draft, ReceiptURL: receiptURL}, nil
}

// CancelScan drops the pending review, including an extraction still in flight.
func (uc *LedgerUseCase) CancelScan(_ context.Context) {
	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()
	uc.ws.scan = pendingScan{}
}

// ConfirmReceipt records the reviewed draft. Non-empty fields of edits
// override the extracted draft; missing fields take the entry defaults.
func (uc *LedgerUseCase) ConfirmReceipt(ctx context.Context, token string, edits domain.ReceiptDraft) (domain.Transaction, error) {
	if edits.Type != "" && !edits.Type.Valid() {
		return domain.Transaction{}, domain.WrapError(domain.ErrInvalidInput, "confirm receipt", fmt.Errorf("unknown type %q", edits.Type))
	}

	uc.ws.mu.Lock()
	defer uc.ws.mu.Unlock()

	scan := uc.ws.scan
	if scan.token == "" || scan.token != token || !scan.ready {
		return domain.Transaction{}, domain.WrapError(domain.ErrStaleScan, "confirm receipt", fmt.Errorf("token=%s", token))
	}

	tx, err := uc.transactionFromDraftLocked(mergeDraft(scan.draft, edits))
	if err != nil {
		return domain.Transaction{}, domain.WrapError(domain.ErrInvalidInput, "confirm receipt", err)
	}
	tx.ReceiptURL = scan.receiptURL

	uc.ws.scan = pendingScan{}
	uc.recordLocked(ctx, &tx)
	return tx, nil
}

func (uc *LedgerUseCase) transactionFromDraftLocked(d domain.ReceiptDraft) (domain.Transaction, error) {
	date, err := domain.ParseDate(d.Date)
	if err != nil {
		return domain.Transaction{}, err
	}
	if date.IsZero() {
		date = uc.ws.today()
	}
	dueDate, err := domain.ParseDate(d.DueDate)
	if err != nil {
		return domain.Transaction{}, err
	}
	amount := 0.0
	if d.Amount != nil {
		amount = *d.Amount
	}
	if err := validateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}
	txType := d.Type
	if !txType.Valid() {
		txType = domain.TransactionExpense
	}

	return domain.Transaction{
		ID:             uuid.NewString(),
		Date:           date,
		Description:    orDefault(d.Description, defaultDescription),
		Amount:         amount,
		Category:       orDefault(d.Category, domain.CategoryOther),
		Type:           txType,
		HasReceipt:     true,
		InvoiceNumber:  strings.TrimSpace(d.InvoiceNumber),
		DueDate:        dueDate,
		EvidenceStatus: domain.EvidencePending,
	}, nil
}

func mergeDraft(base, edits domain.ReceiptDraft) domain.ReceiptDraft {
	out := base
	if strings.TrimSpace(edits.Date) != "" {
		out.Date = edits.Date
	}
	if edits.Amount != nil {
		amount := *edits.Amount
		out.Amount = &amount
	}
	if strings.TrimSpace(edits.Description) != "" {
		out.Description = edits.Description
	}
	if strings.TrimSpace(edits.Category) != "" {
		out.Category = edits.Category
	}
	if strings.TrimSpace(edits.InvoiceNumber) != "" {
		out.InvoiceNumber = edits.InvoiceNumber
	}
	if strings.TrimSpace(edits.DueDate) != "" {
		out.DueDate = edits.DueDate
	}
	if edits.Type != "" {
		out.Type = edits.Type
	}
	return out
}

// storeEvidence keeps the upload when storage is configured and returns its
// URL. Storage failures are logged; the scan continues without a URL.
func (uc *LedgerUseCase) storeEvidence(ctx context.Context, prefix, id string, evidence domain.Evidence) string {
	if uc.storage == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%s_%s", prefix, id, sanitizeFilename(evidence.Filename))
	if err := uc.storage.Save(ctx, key, bytes.NewReader(evidence.Data)); err != nil {
		slog.Warn("evidence_store_failed", "key", key, "error", err)
		return ""
	}
	return uc.storage.URL(key)
}

func (uc *LedgerUseCase) withTextLayer(ctx context.Context, evidence domain.Evidence) domain.Evidence {
	return extractTextLayer(ctx, uc.extractor, evidence)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		return "evidence.bin"
	}
	return base
}
