package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

func TestExportLedgerWritesBothSheets(t *testing.T) {
	txs := []domain.Transaction{
		{
			Date:           domain.MustParseDate("2025-01-15"),
			Description:    "Office rent",
			Category:       domain.CategoryRent,
			Type:           domain.TransactionExpense,
			Amount:         100000,
			Currency:       "UGX",
			HasReceipt:     true,
			EvidenceStatus: domain.EvidenceVerified,
			TaxCalculated:  &domain.TaxCalculation{VAT: 18000, WHT: 5000, NetAmount: 84745.762711864},
		},
		{
			Date:        domain.MustParseDate("2025-01-16"),
			Description: "Retail sales",
			Category:    domain.CategorySales,
			Type:        domain.TransactionIncome,
			Amount:      250000,
			Currency:    "UGX",
		},
	}
	summary := compliance.TaxSummary{
		Transactions:      2,
		ReceiptCheckScore: 50,
		Currencies: []compliance.CurrencyTotals{
			{Currency: "KES", Transactions: 1, TotalVAT: 160},
			{Currency: "UGX", Transactions: 1, TotalVAT: 18000},
		},
	}

	var buf bytes.Buffer
	if err := NewExporter().ExportLedger(&buf, txs, summary); err != nil {
		t.Fatalf("ExportLedger() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	if err != nil {
		t.Fatalf("GetRows(ledger) error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][1] != "Office rent" || rows[2][3] != "income" {
		t.Fatalf("unexpected ledger rows %v", rows)
	}
	if rows[1][9] != "84745.76" {
		t.Fatalf("expected net amount rounded to cents, got %q", rows[1][9])
	}
	if rows[1][10] != "yes" || rows[2][10] != "no" {
		t.Fatalf("unexpected receipt column %q %q", rows[1][10], rows[2][10])
	}

	check, err := f.GetCellValue(summarySheet, "B4")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if check != "fail" {
		t.Fatalf("expected failing receipt check, got %q", check)
	}
	for _, c := range []struct{ cell, want string }{
		{"B6", "KES"}, {"B11", "160"},
		{"B16", "UGX"}, {"B21", "18000"},
	} {
		got, _ := f.GetCellValue(summarySheet, c.cell)
		if got != c.want {
			t.Fatalf("summary %s: got %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestExportEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter().ExportLedger(&buf, nil, compliance.TaxSummary{}); err != nil {
		t.Fatalf("ExportLedger() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a workbook")
	}
}

func TestMoneyRoundsHalfAwayFromZero(t *testing.T) {
	if got := money(10.005); got != 10.01 {
		t.Fatalf("expected 10.01, got %v", got)
	}
	if got := money(160000); got != 160000 {
		t.Fatalf("expected 160000, got %v", got)
	}
}
