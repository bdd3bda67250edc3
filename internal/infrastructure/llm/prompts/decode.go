package prompts

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type receiptWire struct {
	Date          string   `json:"date"`
	Amount        *float64 `json:"amount"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	InvoiceNumber string   `json:"invoiceNumber"`
	DueDate       string   `json:"dueDate"`
	Type          string   `json:"type"`
}

type anomalyWire struct {
	TransactionID   string `json:"transactionId"`
	Severity        string `json:"severity"`
	Reason          string `json:"reason"`
	SuggestedAction string `json:"suggestedAction"`
}

// DecodeReceiptDraft parses a model reply. Unparseable replies yield an empty
// draft so the caller can fall back to manual entry.
func DecodeReceiptDraft(raw string) domain.ReceiptDraft {
	var wire receiptWire
	if err := json.Unmarshal([]byte(extractJSON(raw, '{', '}')), &wire); err != nil {
		slog.Warn("advisory_receipt_decode_failed", "error", err)
		return domain.ReceiptDraft{}
	}

	draft := domain.ReceiptDraft{
		Date:          strings.TrimSpace(wire.Date),
		Amount:        wire.Amount,
		Description:   strings.TrimSpace(wire.Description),
		Category:      strings.TrimSpace(wire.Category),
		InvoiceNumber: strings.TrimSpace(wire.InvoiceNumber),
		DueDate:       strings.TrimSpace(wire.DueDate),
	}
	if t := domain.TransactionType(strings.ToLower(strings.TrimSpace(wire.Type))); t.Valid() {
		draft.Type = t
	}
	return draft
}

// DecodeAnomalies parses a JSON array of reports. Unknown severities are
// downgraded to low; unparseable replies yield no reports.
func DecodeAnomalies(raw string) []domain.AnomalyReport {
	var wire []anomalyWire
	if err := json.Unmarshal([]byte(extractJSON(raw, '[', ']')), &wire); err != nil {
		slog.Warn("advisory_anomalies_decode_failed", "error", err)
		return []domain.AnomalyReport{}
	}

	out := make([]domain.AnomalyReport, 0, len(wire))
	for _, w := range wire {
		severity := domain.Severity(strings.ToLower(strings.TrimSpace(w.Severity)))
		if !severity.Valid() {
			severity = domain.SeverityLow
		}
		out = append(out, domain.AnomalyReport{
			TransactionID:   strings.TrimSpace(w.TransactionID),
			Severity:        severity,
			Reason:          strings.TrimSpace(w.Reason),
			SuggestedAction: strings.TrimSpace(w.SuggestedAction),
		})
	}
	return out
}

// extractJSON strips markdown fences and surrounding prose, keeping the
// outermost open..close span.
func extractJSON(raw string, open, close byte) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
