package journals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
)

// JournalEntry records one accounting event as a set of debit/credit lines.
// Entries are immutable once created; a reversal is a new linked entry with
// the line amounts swapped, never a mutation of the original.
type JournalEntry struct {
	ID        uuid.UUID     `json:"id"`
	CompanyID uuid.UUID     `json:"company_id"`
	EntryNo   string        `json:"entry_no"`
	Date      time.Time     `json:"date"`
	Memo      string        `json:"memo"`
	CreatedAt time.Time     `json:"created_at"`
	Lines     []JournalLine `json:"lines"`
}

// JournalLine stores a debit or credit amount against one account.
type JournalLine struct {
	ID        uuid.UUID       `json:"id"`
	EntryID   uuid.UUID       `json:"entry_id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Account   *LineAccount    `json:"account,omitempty"`
}

// LineAccount is the slim account projection attached to expanded lines.
type LineAccount struct {
	ID   uuid.UUID            `json:"id"`
	Code string               `json:"code"`
	Name string               `json:"name"`
	Type accounts.AccountType `json:"type"`
}

// Totals sums debit and credit across lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// Balanced reports whether total debit equals total credit.
func (e JournalEntry) Balanced() bool {
	debit, credit := e.Totals()
	return debit.Equal(credit)
}
