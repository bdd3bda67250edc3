package httpadapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type transactionRequest struct {
	Date          string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description   string  `json:"description" validate:"required,max=500"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Category      string  `json:"category" validate:"required,max=64"`
	Type          string  `json:"type" validate:"required,oneof=income expense"`
	HasReceipt    bool    `json:"has_receipt"`
	ReceiptURL    string  `json:"receipt_url" validate:"omitempty,url"`
	InvoiceNumber string  `json:"invoice_number" validate:"max=64"`
	DueDate       string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// toDomain leaves an omitted date zero so the ledger books it for today.
func (req transactionRequest) toDomain() (domain.NewTransaction, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return domain.NewTransaction{}, err
	}
	var due domain.Date
	if req.DueDate != "" {
		if due, err = domain.ParseDate(req.DueDate); err != nil {
			return domain.NewTransaction{}, err
		}
	}
	return domain.NewTransaction{
		Date:          date,
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		Type:          domain.TransactionType(req.Type),
		HasReceipt:    req.HasReceipt,
		ReceiptURL:    req.ReceiptURL,
		InvoiceNumber: req.InvoiceNumber,
		DueDate:       due,
	}, nil
}

type evidenceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=verified missing pending"`
}

type confirmReceiptRequest struct {
	Token string              `json:"token" validate:"required"`
	Edits domain.ReceiptDraft `json:"edits"`
}

func (rt *Router) listTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"transactions": rt.svc.Ledger.Transactions(r.Context())})
}

func (rt *Router) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := rt.svc.Ledger.AddTransaction(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (rt *Router) setEvidenceStatus(w http.ResponseWriter, r *http.Request) {
	var req evidenceStatusRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	tx, err := rt.svc.Ledger.SetEvidenceStatus(r.Context(), r.PathValue("id"), domain.EvidenceStatus(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// exportLedger buffers the report; headers are written only after it renders.
func (rt *Router) exportLedger(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := rt.svc.Ledger.Export(r.Context(), &buf); err != nil {
		writeDomainError(w, r, err)
		return
	}
	contentType, ext := rt.svc.Ledger.ExportFormat()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ledger."+ext))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (rt *Router) taxSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Ledger.Summary(r.Context()))
}

func (rt *Router) complianceScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Ledger.Score(r.Context()))
}

func (rt *Router) scanReceipt(w http.ResponseWriter, r *http.Request) {
	evidence, ok := rt.readEvidence(w, r)
	if !ok {
		return
	}
	scan, err := rt.svc.Receipts.ScanReceipt(r.Context(), evidence)
	rt.recordReceiptScan(scan, err)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

func (rt *Router) cancelScan(w http.ResponseWriter, r *http.Request) {
	rt.svc.Receipts.CancelScan(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) confirmReceipt(w http.ResponseWriter, r *http.Request) {
	var req confirmReceiptRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	if req.Edits.Type != "" && !req.Edits.Type.Valid() {
		writeError(w, http.StatusBadRequest, "edits.type must be one of income expense")
		return
	}
	tx, err := rt.svc.Receipts.ConfirmReceipt(r.Context(), req.Token, req.Edits)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (rt *Router) recordReceiptScan(scan domain.ReceiptScan, err error) {
	if rt.metrics == nil {
		return
	}
	switch {
	case domain.IsKind(err, domain.ErrStaleScan):
		rt.metrics.RecordReceiptScan("stale")
	case err != nil:
		rt.metrics.RecordReceiptScan("error")
	case scan.Draft.IsEmpty():
		rt.metrics.RecordReceiptScan("empty")
	default:
		rt.metrics.RecordReceiptScan("extracted")
	}
}

// readEvidence reads the multipart "file" field within MaxUploadBytes.
func (rt *Router) readEvidence(w http.ResponseWriter, r *http.Request) (domain.Evidence, bool) {
	limit := rt.cfg.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return domain.Evidence{}, false
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return domain.Evidence{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return domain.Evidence{}, false
	}
	if int64(len(data)) > limit {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return domain.Evidence{}, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return domain.Evidence{}, false
	}

	mimeType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if base, _, found := strings.Cut(mimeType, ";"); found {
		mimeType = strings.TrimSpace(base)
	}

	return domain.Evidence{
		Filename: header.Filename,
		MimeType: mimeType,
		Data:     data,
	}, true
}
