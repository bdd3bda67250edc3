package xlsx

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

const (
	ledgerSheet  = "Ledger"
	summarySheet = "Tax Summary"
)

var ledgerHeader = []any{
	"Date", "Description", "Category", "Type", "Amount", "Currency",
	"VAT", "WHT", "LST", "Net Amount", "Receipt", "Evidence", "Invoice", "Due Date",
}

// Exporter writes the ledger and its tax summary as an XLSX workbook.
// Amounts are rounded to two decimals for presentation only.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *Exporter) FileExtension() string {
	return "xlsx"
}

func (e *Exporter) ExportLedger(w io.Writer, txs []domain.Transaction, summary compliance.TaxSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("rename ledger sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(ledgerSheet, "A1", &ledgerHeader); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	if err := f.SetRowStyle(ledgerSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style ledger header: %w", err)
	}
	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := ledgerRow(tx)
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return fmt.Errorf("write ledger row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(ledgerSheet, "B", "B", 36); err != nil {
		return fmt.Errorf("size ledger columns: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	for i, row := range summaryRows(summary) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetColStyle(summarySheet, "A", bold); err != nil {
		return fmt.Errorf("style summary labels: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("size summary columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func ledgerRow(tx domain.Transaction) []any {
	var tax domain.TaxCalculation
	if tx.TaxCalculated != nil {
		tax = *tx.TaxCalculated
	}
	receipt := "no"
	if tx.HasReceipt {
		receipt = "yes"
	}
	return []any{
		tx.Date.String(),
		tx.Description,
		tx.Category,
		string(tx.Type),
		money(tx.Amount),
		tx.Currency,
		money(tax.VAT),
		money(tax.WHT),
		money(tax.LST),
		money(tax.NetAmount),
		receipt,
		string(tx.EvidenceStatus),
		tx.InvoiceNumber,
		tx.DueDate.String(),
	}
}

// summaryRows lays out the ledger-wide checks followed by one block per
// currency, separated by a blank row.
func summaryRows(s compliance.TaxSummary) [][]any {
	pass := "fail"
	if s.ReceiptCheckPass {
		pass = "pass"
	}
	rows := [][]any{
		{"Transactions", s.Transactions},
		{"Missing Evidence", s.MissingEvidence},
		{"Receipt Availability", s.ReceiptCheckScore},
		{"Receipt Check", pass},
	}
	for _, c := range s.Currencies {
		rows = append(rows,
			[]any{},
			[]any{"Currency", c.Currency},
			[]any{"Transactions", c.Transactions},
			[]any{"Total Income", money(c.TotalIncome)},
			[]any{"Total Expense", money(c.TotalExpense)},
			[]any{"Net Expense", money(c.NetExpense)},
			[]any{"Total VAT", money(c.TotalVAT)},
			[]any{"Receipt-backed VAT", money(c.ReceiptBackedVAT)},
			[]any{"Total WHT", money(c.TotalWHT)},
			[]any{"Total LST", money(c.TotalLST)},
		)
	}
	return rows
}

func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
