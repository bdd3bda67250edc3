package domain

import "time"

type ChangeReason string

const (
	ReasonPhaseStatus      ChangeReason = "phase_status"
	ReasonChecklist        ChangeReason = "checklist"
	ReasonAnomalyConfirmed ChangeReason = "anomaly_confirmed"
)

// ClientChangedEvent is published after a client record is committed.
type ClientChangedEvent struct {
	ClientID string       `json:"client_id"`
	Reason   ChangeReason `json:"reason"`
	At       time.Time    `json:"at"`
}
