package journals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	core "github.com/ledgerline/ledgerline/internal/shared"
)

// JournalLineRequest describes one requested line. Missing amounts default
// to zero; a line is expected to carry either a debit or a credit.
type JournalLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" validate:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest groups the fields required to create an entry.
// Balance is not checked here: an entry may be captured unbalanced and only
// posting enforces the invariant.
type CreateJournalEntryRequest struct {
	Date        time.Time            `json:"date" validate:"required"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// Validate rejects structurally bad input. Amount signs are checked; the
// debit==credit invariant is deferred to posting.
func (r CreateJournalEntryRequest) Validate() error {
	for idx, line := range r.Lines {
		if line.AccountID == uuid.Nil {
			return fmt.Errorf("%w: line %d missing account", core.ErrValidation, idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d negative amount", core.ErrValidation, idx)
		}
	}
	return nil
}
