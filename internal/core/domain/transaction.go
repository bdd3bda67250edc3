package domain

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type EvidenceStatus string

const (
	EvidenceVerified EvidenceStatus = "verified"
	EvidenceMissing  EvidenceStatus = "missing"
	EvidencePending  EvidenceStatus = "pending"
)

func (s EvidenceStatus) Valid() bool {
	switch s {
	case EvidenceVerified, EvidenceMissing, EvidencePending:
		return true
	default:
		return false
	}
}

const (
	CategorySales      = "Sales"
	CategoryRent       = "Rent"
	CategoryUtilities  = "Utilities"
	CategorySalaries   = "Salaries"
	CategoryInventory  = "Inventory"
	CategoryTransport  = "Transport"
	CategoryTaxPayment = "Tax Payment"
	CategoryOther      = "Other"

	CategoryProfessionalServices = "Professional Services"
)

var DefaultCategories = []string{
	CategorySales,
	CategoryRent,
	CategoryUtilities,
	CategorySalaries,
	CategoryInventory,
	CategoryTransport,
	CategoryTaxPayment,
	CategoryOther,
}

type TaxCalculation struct {
	VAT       float64 `json:"vat"`
	WHT       float64 `json:"wht"`
	LST       float64 `json:"lst"`
	NetAmount float64 `json:"net_amount"`
}

// Transaction is immutable once recorded, except for EvidenceStatus.
type Transaction struct {
	ID             string          `json:"id"`
	Date           Date            `json:"date"`
	Description    string          `json:"description"`
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	Category       string          `json:"category"`
	Type           TransactionType `json:"type"`
	HasReceipt     bool            `json:"has_receipt"`
	ReceiptURL     string          `json:"receipt_url,omitempty"`
	InvoiceNumber  string          `json:"invoice_number,omitempty"`
	DueDate        Date            `json:"due_date,omitzero"`
	TaxCalculated  *TaxCalculation `json:"tax_calculated,omitempty"`
	EvidenceStatus EvidenceStatus  `json:"evidence_status,omitempty"`
}

// ReceiptDraft is a partial transaction proposed by receipt extraction.
// Empty strings and a nil Amount mean the field was not extracted.
type ReceiptDraft struct {
	Date          string          `json:"date,omitempty"`
	Amount        *float64        `json:"amount,omitempty"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	DueDate       string          `json:"due_date,omitempty"`
	Type          TransactionType `json:"type,omitempty"`
}

func (d ReceiptDraft) IsEmpty() bool {
	return d == ReceiptDraft{}
}

// NewTransaction is a manual ledger entry before tax derivation.
type NewTransaction struct {
	Date          Date
	Description   string
	Amount        float64
	Category      string
	Type          TransactionType
	HasReceipt    bool
	ReceiptURL    string
	InvoiceNumber string
	DueDate       Date
}

// ReceiptScan is the view state of an in-flight receipt review.
type ReceiptScan struct {
	Token      string       `json:"token"`
	Draft      ReceiptDraft `json:"draft"`
	ReceiptURL string       `json:"receipt_url,omitempty"`
}
