package journals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/accounting/shared"
)

// Service drives the journal entry lifecycle: capture, post, reverse. An
// entry carries no independent posted flag; posting applies the balance
// effect and nothing else, all inside one transaction.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create captures a new journal entry with the next sequential number.
// Missing debit/credit amounts default to zero and balance is not enforced
// here; only posting checks it.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req CreateJournalEntryRequest) (JournalEntry, error) {
	if err := req.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entryID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entryNo, err := tx.NextEntryNumber(ctx, companyID)
		if err != nil {
			return err
		}
		entry, err := tx.InsertEntry(ctx, companyID, entryNo, req.Date, req.Description)
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, entry.ID, req.Lines); err != nil {
			return err
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return s.repo.GetWithLines(ctx, companyID, entryID)
}

// Post applies the entry's balance effect. The balance check and every
// account increment run inside a single transaction: either the whole entry
// lands on the ledger or none of it does.
func (s *Service) Post(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetWithLines(ctx, companyID, entryID)
		if err != nil {
			return err
		}
		if !entry.Balanced() {
			return shared.ErrUnbalanced
		}
		for _, line := range entry.Lines {
			delta := line.Debit.Sub(line.Credit)
			if err := tx.IncrementBalance(ctx, companyID, line.AccountID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return s.repo.GetWithLines(ctx, companyID, entryID)
}

// Reverse creates a new entry dated now with each line's debit and credit
// swapped. The mirror entry does not touch balances on its own; posting it
// applies the negation.
func (s *Service) Reverse(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	var reversalID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		original, err := tx.GetWithLines(ctx, companyID, entryID)
		if err != nil {
			return err
		}
		entryNo, err := tx.NextEntryNumber(ctx, companyID)
		if err != nil {
			return err
		}
		memo := fmt.Sprintf("Reversing entry for %s", original.Memo)
		reversal, err := tx.InsertEntry(ctx, companyID, entryNo, s.now(), memo)
		if err != nil {
			return err
		}
		swapped := make([]JournalLineRequest, 0, len(original.Lines))
		for _, line := range original.Lines {
			swapped = append(swapped, JournalLineRequest{
				AccountID: line.AccountID,
				Debit:     line.Credit,
				Credit:    line.Debit,
			})
		}
		if err := tx.InsertLines(ctx, reversal.ID, swapped); err != nil {
			return err
		}
		reversalID = reversal.ID
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return s.repo.GetWithLines(ctx, companyID, reversalID)
}

// Get returns one entry with lines and accounts expanded.
func (s *Service) Get(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return s.repo.GetWithLines(ctx, companyID, entryID)
}

// List returns the company's entries newest first.
func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error) {
	return s.repo.List(ctx, companyID)
}

// Delete removes an entry. No balance reversal happens here; callers who
// posted an entry are expected to reverse it instead.
func (s *Service) Delete(ctx context.Context, companyID, entryID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetWithLines(ctx, companyID, entryID); err != nil {
			return err
		}
		return tx.DeleteEntry(ctx, companyID, entryID)
	})
}
