package compliance

import (
	"math"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Tier boundaries. Every status shown or stored is derived from these.
const (
	CompliantMinScore = 80
	WarningMinScore   = 50

	// ReceiptCheckPassScore is the pass line of the receipt availability test.
	ReceiptCheckPassScore = 70

	// UnscoredScore is reported when there are no transactions to score.
	UnscoredScore = 100
)

type ScoreResult struct {
	Score    int                     `json:"score"`
	Status   domain.ComplianceStatus `json:"status"`
	Unscored bool                    `json:"unscored,omitempty"`
}

func StatusForScore(score int) domain.ComplianceStatus {
	switch {
	case score >= CompliantMinScore:
		return domain.StatusCompliant
	case score >= WarningMinScore:
		return domain.StatusWarning
	default:
		return domain.StatusOverdue
	}
}

func PassesReceiptCheck(score int) bool {
	return score > ReceiptCheckPassScore
}

// ReceiptScore is the share of transactions backed by a receipt, in percent.
// An empty ledger is reported as UnscoredScore with Unscored set.
func ReceiptScore(txs []domain.Transaction) ScoreResult {
	if len(txs) == 0 {
		return ScoreResult{
			Score:    UnscoredScore,
			Status:   StatusForScore(UnscoredScore),
			Unscored: true,
		}
	}
	withReceipt := 0
	for _, tx := range txs {
		if tx.HasReceipt {
			withReceipt++
		}
	}
	score := int(math.Round(100 * float64(withReceipt) / float64(len(txs))))
	return ScoreResult{Score: score, Status: StatusForScore(score)}
}

// ScoreClient derives the client's status from its stored score, clamped to 0..100.
func ScoreClient(c domain.Client) ScoreResult {
	score := clampScore(c.ComplianceScore)
	return ScoreResult{Score: score, Status: StatusForScore(score)}
}

// Normalize restores client invariants: score in 0..100, non-negative
// anomaly count and a status consistent with the score.
func Normalize(c domain.Client) domain.Client {
	out := c.Clone()
	scored := ScoreClient(out)
	out.ComplianceScore = scored.Score
	out.ComplianceStatus = scored.Status
	if out.AnomalyCount < 0 {
		out.AnomalyCount = 0
	}
	return out
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
