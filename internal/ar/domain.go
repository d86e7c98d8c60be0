package ar

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates the invoice lifecycle. Posting is one-way: a
// posted invoice never returns to draft.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusPosted InvoiceStatus = "posted"
)

// Invoice models a customer invoice. Line items are used to compute the
// totals at creation and are not stored.
type Invoice struct {
	ID        uuid.UUID       `json:"id"`
	CompanyID uuid.UUID       `json:"company_id"`
	Number    string          `json:"number"`
	Customer  string          `json:"customer"`
	IssueDate time.Time       `json:"issue_date"`
	DueDate   time.Time       `json:"due_date"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Status    InvoiceStatus   `json:"status"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PaymentMethod enumerates how a receipt arrived.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodBank PaymentMethod = "bank"
	PaymentMethodCard PaymentMethod = "card"
)

// Payment records a receipt, optionally against an invoice.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Method      PaymentMethod   `json:"method"`
	Reference   string          `json:"reference"`
	Description string          `json:"description,omitempty"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Well-known chart codes resolved during invoice posting.
const (
	codeAccountsReceivable = "1120"
	codeSalesRevenue       = "4100"
	codeTaxPayable         = "2120"
)
