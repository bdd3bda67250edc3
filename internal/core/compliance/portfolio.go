package compliance

import (
	"math"
	"sort"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type PortfolioStats struct {
	TotalClients   int `json:"total_clients"`
	AtRisk         int `json:"at_risk"`
	TotalAnomalies int `json:"total_anomalies"`
	AverageScore   int `json:"average_score"`
}

// Portfolio summarizes an auditor's client list from each client's derived
// score, so out-of-range stored scores count clamped. An empty list averages to 0.
func Portfolio(clients []domain.Client) PortfolioStats {
	stats := PortfolioStats{TotalClients: len(clients)}
	if len(clients) == 0 {
		return stats
	}
	sum := 0
	for _, c := range clients {
		scored := ScoreClient(c)
		if scored.Status != domain.StatusCompliant {
			stats.AtRisk++
		}
		stats.TotalAnomalies += c.AnomalyCount
		sum += scored.Score
	}
	stats.AverageScore = int(math.Round(float64(sum) / float64(len(clients))))
	return stats
}

type SortKey string

const (
	SortByName       SortKey = "name"
	SortByCompliance SortKey = "compliance"
	SortByRisk       SortKey = "risk"
)

// FilterAndSort matches query against business name (case-insensitive) or
// TIN (substring), then orders the result. The input is not modified.
func FilterAndSort(clients []domain.Client, query string, key SortKey) []domain.Client {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if q == "" || strings.Contains(strings.ToLower(c.BusinessName), q) || strings.Contains(c.TIN, q) {
			out = append(out, c.Clone())
		}
	}

	switch key {
	case SortByCompliance:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ComplianceScore > out[j].ComplianceScore })
	case SortByRisk:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AnomalyCount > out[j].AnomalyCount })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].BusinessName) < strings.ToLower(out[j].BusinessName)
		})
	}
	return out
}
