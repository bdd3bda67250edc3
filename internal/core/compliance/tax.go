// Package compliance holds the pure rules that turn transactions and clients
// into tax breakdowns, compliance scores, workflow updates and alerts.
package compliance

import (
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// WithholdingRate applies to withholding categories regardless of jurisdiction.
const WithholdingRate = 0.05

var withholdingCategories = map[string]struct{}{
	domain.CategoryRent:                 {},
	domain.CategoryProfessionalServices: {},
}

// IsWithholdingCategory matches category names exactly, ignoring surrounding space.
func IsWithholdingCategory(category string) bool {
	_, ok := withholdingCategories[strings.TrimSpace(category)]
	return ok
}

// ComputeTax returns the tax block for an expense, or nil for income.
// Amounts keep full float precision; rounding belongs to presentation.
func ComputeTax(amount float64, txType domain.TransactionType, category string, j domain.Jurisdiction) *domain.TaxCalculation {
	if txType != domain.TransactionExpense {
		return nil
	}
	calc := &domain.TaxCalculation{
		VAT:       amount * j.VATRate,
		LST:       0,
		NetAmount: amount / (1 + j.VATRate),
	}
	if IsWithholdingCategory(category) {
		calc.WHT = amount * WithholdingRate
	}
	return calc
}

// ApplyTax recomputes the derived tax block of tx in place.
func ApplyTax(tx *domain.Transaction, j domain.Jurisdiction) {
	tx.TaxCalculated = ComputeTax(tx.Amount, tx.Type, tx.Category, j)
}
