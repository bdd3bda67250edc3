package domain

type Role string

const (
	RoleClient  Role = "client"
	RoleAuditor Role = "auditor"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAuditor
}

type Session struct {
	Role           Role     `json:"role"`
	LoggedIn       bool     `json:"logged_in"`
	Language       Language `json:"language"`
	Country        Country  `json:"country"`
	ActiveClientID string   `json:"active_client_id,omitempty"`
}

// State keys understood by the persistence gateway.
const (
	KeySessionRole      = "session.role"
	KeySessionLoggedIn  = "session.logged_in"
	KeySessionLanguage  = "session.language"
	KeyJurisdiction     = "settings.jurisdiction"
	KeyClients          = "audit.clients"
	KeyAlertConfig      = "settings.alerts"
	KeyTransactions     = "ledger.transactions"
	KeyCustomCategories = "settings.custom_categories"
)
