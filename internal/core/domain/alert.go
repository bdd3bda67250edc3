package domain

// ComplianceAlertConfig is process-wide and user-editable.
type ComplianceAlertConfig struct {
	ScoreThreshold    int `json:"score_threshold" validate:"gte=0,lte=100"`
	IssueThreshold    int `json:"issue_threshold" validate:"gte=0"`
	DeadlineAlertDays int `json:"deadline_alert_days" validate:"gte=0,lte=365"`
}

func DefaultAlertConfig() ComplianceAlertConfig {
	return ComplianceAlertConfig{
		ScoreThreshold:    70,
		IssueThreshold:    5,
		DeadlineAlertDays: 7,
	}
}

type AlertKind string

const (
	AlertLowScore            AlertKind = "lowScore"
	AlertHighIssues          AlertKind = "highIssues"
	AlertDeadlineApproaching AlertKind = "deadlineApproaching"
)

// Alert is one escalation trigger. Value is the score, anomaly count or
// days remaining until the phase deadline, depending on Kind.
type Alert struct {
	Kind      AlertKind `json:"kind"`
	ClientID  string    `json:"client_id"`
	PhaseID   string    `json:"phase_id,omitempty"`
	Value     int       `json:"value"`
	Threshold int       `json:"threshold"`
}
