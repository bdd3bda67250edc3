package compliance

import (
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Evaluate lists every alert trigger per client, in client order. A client
// can produce several entries; they are not deduplicated.
//
// A phase deadline triggers when it is not completed and falls at most
// DeadlineAlertDays calendar days after today, including deadlines already past.
func Evaluate(clients []domain.Client, cfg domain.ComplianceAlertConfig, now time.Time) []domain.Alert {
	today := domain.DateOf(now)
	alerts := make([]domain.Alert, 0)

	for _, c := range clients {
		if c.ComplianceScore < cfg.ScoreThreshold {
			alerts = append(alerts, domain.Alert{
				Kind:      domain.AlertLowScore,
				ClientID:  c.ID,
				Value:     c.ComplianceScore,
				Threshold: cfg.ScoreThreshold,
			})
		}
		if c.AnomalyCount > cfg.IssueThreshold {
			alerts = append(alerts, domain.Alert{
				Kind:      domain.AlertHighIssues,
				ClientID:  c.ID,
				Value:     c.AnomalyCount,
				Threshold: cfg.IssueThreshold,
			})
		}
		for _, phase := range c.Workflow {
			if phase.Status == domain.PhaseCompleted || phase.Deadline.IsZero() {
				continue
			}
			daysLeft := today.DaysUntil(phase.Deadline)
			if daysLeft > cfg.DeadlineAlertDays {
				continue
			}
			alerts = append(alerts, domain.Alert{
				Kind:      domain.AlertDeadlineApproaching,
				ClientID:  c.ID,
				PhaseID:   phase.ID,
				Value:     daysLeft,
				Threshold: cfg.DeadlineAlertDays,
			})
		}
	}
	return alerts
}
