package usecase

import (
	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

func seedWorkflow() []domain.AuditPhase {
	return []domain.AuditPhase{
		{ID: "p1", Name: "Planning & Risk Assessment", Status: domain.PhaseCompleted, Deadline: domain.MustParseDate("2025-06-01")},
		{ID: "p2", Name: "Control Testing", Status: domain.PhaseInProgress, Deadline: domain.MustParseDate("2025-06-15")},
		{ID: "p3", Name: "Substantive Testing", Status: domain.PhasePending, Deadline: domain.MustParseDate("2025-07-01")},
		{ID: "p4", Name: "Reporting & Opinion", Status: domain.PhasePending, Deadline: domain.MustParseDate("2025-07-15")},
	}
}

func seedChecklist() []domain.ChecklistItem {
	return []domain.ChecklistItem{
		{ID: "d1", Label: "Review KYC Documents", Completed: true},
		{ID: "d2", Label: "Verify Business TIN with Revenue Authority", Completed: true},
		{ID: "d3", Label: "Check Previous Audit Reports", Completed: false},
		{ID: "d4", Label: "Inspect Physical Assets (Sample)", Completed: false},
	}
}

// SeedClients returns the starting audit portfolio. Each client owns its own
// workflow and checklist slices.
func SeedClients() []domain.Client {
	return []domain.Client{
		{
			ID: "c1", BusinessName: "Bukoto Coffee Roasters", TIN: "1001004455", Location: "Kampala",
			Country: domain.Uganda, ComplianceStatus: domain.StatusCompliant,
			LastAuditDate: domain.MustParseDate("2025-01-10"), AnomalyCount: 0, ComplianceScore: 98,
			Workflow: seedWorkflow(), Checklist: seedChecklist(),
		},
		{
			ID: "c2", BusinessName: "Mombasa Logistics", TIN: "1002008811", Location: "Mombasa",
			Country: domain.Kenya, ComplianceStatus: domain.StatusWarning,
			LastAuditDate: domain.MustParseDate("2024-12-15"), AnomalyCount: 3, ComplianceScore: 65,
			Workflow: seedWorkflow(), Checklist: seedChecklist(),
		},
		{
			ID: "c3", BusinessName: "Arusha Gems", TIN: "1003009922", Location: "Arusha",
			Country: domain.Tanzania, ComplianceStatus: domain.StatusOverdue,
			LastAuditDate: domain.MustParseDate("2024-10-20"), AnomalyCount: 12, ComplianceScore: 32,
			Workflow: seedWorkflow(), Checklist: seedChecklist(),
		},
	}
}

// SeedTransactions returns the starting ledger booked and taxed under j.
func SeedTransactions(j domain.Jurisdiction) []domain.Transaction {
	txs := []domain.Transaction{
		{
			ID: "1", Date: domain.MustParseDate("2025-05-15"), Description: "Fuel Delivery",
			Amount: 250000, Category: domain.CategoryTransport, Type: domain.TransactionExpense,
			HasReceipt: true, InvoiceNumber: "X-778", EvidenceStatus: domain.EvidenceVerified,
		},
		{
			ID: "2", Date: domain.MustParseDate("2025-05-20"), Description: "Office Supplies",
			Amount: 25000, Category: domain.CategoryOther, Type: domain.TransactionExpense,
			HasReceipt: false, EvidenceStatus: domain.EvidenceMissing,
		},
	}
	for i := range txs {
		txs[i].Currency = j.Currency
		compliance.ApplyTax(&txs[i], j)
	}
	return txs
}
