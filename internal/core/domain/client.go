package domain

type ComplianceStatus string

const (
	StatusCompliant ComplianceStatus = "compliant"
	StatusWarning   ComplianceStatus = "warning"
	StatusOverdue   ComplianceStatus = "overdue"
)

type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in-progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseDelayed    PhaseStatus = "delayed"
)

func (s PhaseStatus) Valid() bool {
	switch s {
	case PhasePending, PhaseInProgress, PhaseCompleted, PhaseDelayed:
		return true
	default:
		return false
	}
}

type AuditPhase struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Status   PhaseStatus `json:"status"`
	Deadline Date        `json:"deadline"`
}

type ChecklistItem struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// Client is an audit subject. Workflow order is the canonical lifecycle order.
type Client struct {
	ID               string           `json:"id"`
	BusinessName     string           `json:"business_name"`
	TIN              string           `json:"tin"`
	Location         string           `json:"location"`
	Country          Country          `json:"country"`
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	LastAuditDate    Date             `json:"last_audit_date"`
	AnomalyCount     int              `json:"anomaly_count"`
	ComplianceScore  int              `json:"compliance_score"`
	Workflow         []AuditPhase     `json:"workflow"`
	Checklist        []ChecklistItem  `json:"checklist"`
}

// Clone returns a copy that shares no slices with c.
func (c Client) Clone() Client {
	out := c
	if c.Workflow != nil {
		out.Workflow = append([]AuditPhase(nil), c.Workflow...)
	}
	if c.Checklist != nil {
		out.Checklist = append([]ChecklistItem(nil), c.Checklist...)
	}
	return out
}

func CloneClients(clients []Client) []Client {
	if clients == nil {
		return nil
	}
	out := make([]Client, len(clients))
	for i := range clients {
		out[i] = clients[i].Clone()
	}
	return out
}
