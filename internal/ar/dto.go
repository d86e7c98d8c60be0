package ar

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one billed line; items only feed the totals.
type InvoiceItemRequest struct {
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateInvoiceRequest carries the fields needed to create a draft invoice.
type CreateInvoiceRequest struct {
	CustomerName string               `json:"customer_name" validate:"required,max=200"`
	Date         time.Time            `json:"date" validate:"required"`
	DueDate      *time.Time           `json:"due_date,omitempty"`
	Tax          decimal.Decimal      `json:"tax"`
	Items        []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Totals computes subtotal and grand total from the items; tax defaults
// to zero.
func (r CreateInvoiceRequest) Totals() (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range r.Items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
	}
	tax = r.Tax
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// CreatePaymentRequest carries the fields needed to record a receipt.
type CreatePaymentRequest struct {
	Date          time.Time       `json:"date" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        PaymentMethod   `json:"method" validate:"required,oneof=cash bank card"`
	ReferenceType string          `json:"reference_type,omitempty" validate:"omitempty,oneof=invoice expense other"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	Description   string          `json:"description,omitempty" validate:"omitempty,max=500"`
}
