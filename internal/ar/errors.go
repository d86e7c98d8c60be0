package ar

import (
	"fmt"

	core "github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrInvoiceNotFound indicates a missing invoice in the tenant scope.
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", core.ErrNotFound)
	// ErrAlreadyPosted rejects a second posting attempt.
	ErrAlreadyPosted = fmt.Errorf("%w: invoice already posted", core.ErrValidation)
	// ErrNotDraft blocks deletion of anything but a draft invoice.
	ErrNotDraft = fmt.Errorf("%w: cannot delete posted invoice", core.ErrValidation)
	// ErrPaymentNotFound indicates a missing payment in the tenant scope.
	ErrPaymentNotFound = fmt.Errorf("%w: payment", core.ErrNotFound)
	// ErrPaymentImmutable rejects payment deletion categorically.
	ErrPaymentImmutable = fmt.Errorf("%w: cannot delete posted payment, create a reversal entry instead", core.ErrValidation)
)
