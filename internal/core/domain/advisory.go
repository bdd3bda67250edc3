package domain

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

type AnomalyStatus string

const (
	AnomalyOpen     AnomalyStatus = "open"
	AnomalyResolved AnomalyStatus = "resolved"
	AnomalyIgnored  AnomalyStatus = "ignored"
)

type AnomalyReport struct {
	ID              string        `json:"id"`
	TransactionID   string        `json:"transaction_id"`
	Severity        Severity      `json:"severity"`
	Reason          string        `json:"reason"`
	SuggestedAction string        `json:"suggested_action"`
	Status          AnomalyStatus `json:"status"`
}

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageLuganda Language = "lg"
	LanguageSwahili Language = "sw"
)

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageLuganda || l == LanguageSwahili
}

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

type ChatRequest struct {
	Message       string
	History       []ChatMessage
	Country       Country
	DeepReasoning bool
}

// Evidence is an uploaded receipt or supporting document.
type Evidence struct {
	Filename string
	MimeType string
	Data     []byte
	// Text is the extracted text layer, set for documents that have one.
	Text string
}

const NoCommentary = "No commentary generated."
