package prompts

import (
	"strings"
	"testing"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

func TestDecodeReceiptDraftStripsFences(t *testing.T) {
	raw := "```json\n{\"date\":\"2025-02-01\",\"amount\":1180,\"description\":\"Nakumatt\",\"category\":\"Inventory\",\"invoiceNumber\":\"INV-9\",\"type\":\"Expense\"}\n```"

	draft := DecodeReceiptDraft(raw)
	if draft.Amount == nil || *draft.Amount != 1180 {
		t.Fatalf("expected amount 1180, got %+v", draft.Amount)
	}
	if draft.Description != "Nakumatt" || draft.InvoiceNumber != "INV-9" || draft.Date != "2025-02-01" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if draft.Type != domain.TransactionExpense {
		t.Fatalf("expected expense type, got %q", draft.Type)
	}
}

func TestDecodeReceiptDraftIgnoresUnknownType(t *testing.T) {
	draft := DecodeReceiptDraft(`{"amount":10,"description":"x","category":"Other","type":"transfer"}`)
	if draft.Type != "" {
		t.Fatalf("expected unset type, got %q", draft.Type)
	}
}

func TestDecodeReceiptDraftMalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"amount":"ten"`, "[1,2]"} {
		if draft := DecodeReceiptDraft(raw); !draft.IsEmpty() {
			t.Fatalf("expected empty draft for %q, got %+v", raw, draft)
		}
	}
}

func TestDecodeAnomaliesDowngradesUnknownSeverity(t *testing.T) {
	raw := `Here you go: [{"transactionId":"t1","severity":"HIGH","reason":"duplicate","suggestedAction":"void"},
{"transactionId":"t2","severity":"critical","reason":"no receipt","suggestedAction":"request"}]`

	reports := DecodeAnomalies(raw)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Severity != domain.SeverityHigh || reports[0].TransactionID != "t1" {
		t.Fatalf("unexpected first report %+v", reports[0])
	}
	if reports[1].Severity != domain.SeverityLow {
		t.Fatalf("expected unknown severity downgraded to low, got %q", reports[1].Severity)
	}
}

func TestDecodeAnomaliesMalformedIsEmptyList(t *testing.T) {
	reports := DecodeAnomalies("{oops")
	if reports == nil || len(reports) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", reports)
	}
}

func TestPromptsCarryContext(t *testing.T) {
	txs := []domain.Transaction{{ID: "t1", Description: "Shop rent", Amount: 500}}

	if p := CommentaryPrompt(txs, domain.Kenya, domain.LanguageSwahili); !strings.Contains(p, "Kenya business in Swahili") || !strings.Contains(p, `"t1"`) {
		t.Fatalf("unexpected commentary prompt %q", p)
	}
	if p := AnomalyPrompt(nil, domain.Rwanda); !strings.Contains(p, "Rwanda-based SME") || !strings.HasSuffix(p, "Transactions: []") {
		t.Fatalf("unexpected anomaly prompt %q", p)
	}
	if p := ReceiptPrompt(domain.Uganda, "TOTAL 1180"); !strings.Contains(p, "located in Uganda") || !strings.Contains(p, "Document text:\nTOTAL 1180") {
		t.Fatalf("unexpected receipt prompt %q", p)
	}
	if p := EvidencePrompt("  Is this VAT compliant?  ", ""); p != "Is this VAT compliant?" {
		t.Fatalf("unexpected evidence prompt %q", p)
	}
	if !strings.Contains(SystemInstruction(domain.Tanzania), "strictly set to Tanzania") {
		t.Fatalf("system instruction must name the jurisdiction")
	}
}
