// Package prompts holds the advisory prompt text and response decoding shared
// by every model provider.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/chunking"
)

// DeepReasoningBudget is the thinking token budget for deep reasoning calls.
const DeepReasoningBudget = 32768

const knowledgeBase = `
Core EAC Financial Audit Certifications: ICPAK (Kenya), ICPAU (Uganda), NBAA (Tanzania), ICPAR (Rwanda), ONEC (DRC).
Regional Bodies: East African Community (EAC) Secretariat, EAC Customs Union, Common Market Protocol.

Regional Tax Authorities:
1. Kenya: Kenya Revenue Authority (KRA), iTax System.
2. Uganda: Uganda Revenue Authority (URA), e-Tax.
3. Tanzania: Tanzania Revenue Authority (TRA), EFDMS.
4. Rwanda: Rwanda Revenue Authority (RRA), EBM system.
5. Burundi: OBR (Office Burundais des Recettes).
6. South Sudan: National Revenue Authority (NRA).
7. DR Congo: DGI (Direction Generale des Impots).

Audit Standards: Adoption of IFRS for SMEs and ISA (International Standards on Auditing) across the region.
Principles: Professional Skepticism, Public Interest, Inclusive Capitalism in Africa.
`

func SystemInstruction(country domain.Country) string {
	return fmt.Sprintf(`You are mugisolo, a specialized regional assistant for SMEs in the East African Community (EAC).
Your context is strictly set to %s.
You are an expert in regional tax laws (EAC Common External Tariff) and national regulations (e.g. Kenya KRA iTax, Rwanda RRA EBM).
Apply professional skepticism and act as a gatekeeper for African financial markets.
Refer to this regional knowledge base: %s
Always be professional and concise.`, country, knowledgeBase)
}

func ReceiptPrompt(country domain.Country, textLayer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Extract transaction details from this receipt for a business located in %s.
Extract: date (YYYY-MM-DD), amount (total), description (merchant), category, invoiceNumber, dueDate (YYYY-MM-DD).
Set type to "income" or "expense".
Return strictly valid JSON with exactly these keys.`, country)
	appendTextLayer(&b, textLayer)
	return b.String()
}

func AnomalyPrompt(txs []domain.Transaction, country domain.Country) string {
	return fmt.Sprintf(`Perform continuous compliance monitoring for a %s-based SME.
Check for regional fraud patterns, local tax miscalculations, and IFRS/ISA inconsistencies.
Return a JSON array of objects with keys transactionId, severity (low, medium or high), reason, suggestedAction.
Transactions: %s`, country, marshalTransactions(txs))
}

func CommentaryPrompt(txs []domain.Transaction, country domain.Country, lang domain.Language) string {
	return fmt.Sprintf(`Provide management commentary for a %s business in %s.
Transactions: %s`, country, LanguageName(lang), marshalTransactions(txs))
}

func EvidencePrompt(prompt, textLayer string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))
	appendTextLayer(&b, textLayer)
	return b.String()
}

func LanguageName(lang domain.Language) string {
	switch lang {
	case domain.LanguageLuganda:
		return "Luganda"
	case domain.LanguageSwahili:
		return "Swahili"
	default:
		return "English"
	}
}

// textLayerBudget caps the document text sent with a prompt, in runes.
var textLayerBudget = chunking.NewSplitter(8000)

func appendTextLayer(b *strings.Builder, textLayer string) {
	head, truncated := textLayerBudget.Head(textLayer)
	if head == "" {
		return
	}
	b.WriteString("\n\nDocument text:\n")
	b.WriteString(head)
	if truncated {
		b.WriteString("\n[document text truncated]")
	}
}

func marshalTransactions(txs []domain.Transaction) string {
	if len(txs) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(txs)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
