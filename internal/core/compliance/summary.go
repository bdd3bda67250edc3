package compliance

import (
	"sort"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// CurrencyTotals are the ledger totals for rows booked in one currency.
type CurrencyTotals struct {
	Currency         string  `json:"currency"`
	Transactions     int     `json:"transactions"`
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	TotalVAT         float64 `json:"total_vat"`
	ReceiptBackedVAT float64 `json:"receipt_backed_vat"`
	TotalWHT         float64 `json:"total_wht"`
	TotalLST         float64 `json:"total_lst"`
	NetExpense       float64 `json:"net_expense"`
}

type TaxSummary struct {
	Transactions      int              `json:"transactions"`
	Currencies        []CurrencyTotals `json:"currencies"`
	MissingEvidence   int              `json:"missing_evidence"`
	ReceiptCheckScore int              `json:"receipt_check_score"`
	ReceiptCheckPass  bool             `json:"receipt_check_pass"`
}

// Totals returns the block for currency, if the ledger has rows in it.
func (s TaxSummary) Totals(currency string) (CurrencyTotals, bool) {
	for _, c := range s.Currencies {
		if c.Currency == currency {
			return c, true
		}
	}
	return CurrencyTotals{}, false
}

// Summarize totals the ledger per transaction currency. Amounts are never
// converted, so rows booked under another jurisdiction keep their own block.
// Only expense rows carry tax, so VAT, WHT, LST and net figures come from the
// stored tax blocks. Blocks are ordered by currency code.
func Summarize(txs []domain.Transaction) TaxSummary {
	s := TaxSummary{Transactions: len(txs), Currencies: []CurrencyTotals{}}
	index := map[string]int{}
	for _, tx := range txs {
		i, ok := index[tx.Currency]
		if !ok {
			i = len(s.Currencies)
			index[tx.Currency] = i
			s.Currencies = append(s.Currencies, CurrencyTotals{Currency: tx.Currency})
		}
		c := &s.Currencies[i]
		c.Transactions++
		switch tx.Type {
		case domain.TransactionIncome:
			c.TotalIncome += tx.Amount
		case domain.TransactionExpense:
			c.TotalExpense += tx.Amount
		}
		if tx.EvidenceStatus == domain.EvidenceMissing || !tx.HasReceipt {
			s.MissingEvidence++
		}
		if tx.TaxCalculated == nil {
			continue
		}
		c.TotalVAT += tx.TaxCalculated.VAT
		c.TotalWHT += tx.TaxCalculated.WHT
		c.TotalLST += tx.TaxCalculated.LST
		c.NetExpense += tx.TaxCalculated.NetAmount
		if tx.HasReceipt {
			c.ReceiptBackedVAT += tx.TaxCalculated.VAT
		}
	}
	sort.Slice(s.Currencies, func(a, b int) bool {
		return s.Currencies[a].Currency < s.Currencies[b].Currency
	})

	score := ReceiptScore(txs)
	s.ReceiptCheckScore = score.Score
	s.ReceiptCheckPass = PassesReceiptCheck(score.Score)
	return s
}
