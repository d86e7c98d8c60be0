package ar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	acctshared "github.com/ledgerline/ledgerline/internal/accounting/shared"
)

// Service drives the invoice and payment workflows. Invoice posting is the
// one place where a status transition and balance updates must land together,
// so everything it touches runs inside a single repository transaction.
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

// CreateInvoice computes totals from the items and persists a draft with the
// next sequential invoice number.
func (s *Service) CreateInvoice(ctx context.Context, companyID uuid.UUID, req CreateInvoiceRequest, userID uuid.UUID) (Invoice, error) {
	subtotal, tax, total := req.Totals()
	dueDate := s.now()
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	var created Invoice
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextInvoiceNumber(ctx, companyID)
		if err != nil {
			return err
		}
		created, err = tx.InsertInvoice(ctx, Invoice{
			CompanyID: companyID,
			Number:    number,
			Customer:  req.CustomerName,
			IssueDate: req.Date,
			DueDate:   dueDate,
			Subtotal:  subtotal,
			Tax:       tax,
			Total:     total,
			Status:    InvoiceStatusDraft,
			CreatedBy: userID,
		})
		return err
	})
	if err != nil {
		return Invoice{}, err
	}
	return created, nil
}

// PostInvoice applies the invoice's accounting effect: one journal entry
// (debit AR for the total, credit Sales for the subtotal, credit Tax Payable
// when taxed), the status flip, and the three balance increments, all in one
// transaction. Posting is terminal.
func (s *Service) PostInvoice(ctx context.Context, companyID, invoiceID, userID uuid.UUID) (Invoice, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == InvoiceStatusPosted {
			return ErrAlreadyPosted
		}

		receivable, err := s.resolveAccount(ctx, tx, companyID, codeAccountsReceivable)
		if err != nil {
			return err
		}
		sales, err := s.resolveAccount(ctx, tx, companyID, codeSalesRevenue)
		if err != nil {
			return err
		}
		if receivable == nil || sales == nil {
			return acctshared.ErrPostingAccountsMissing
		}
		// Tax Payable is only required when the invoice carries tax; without
		// it the entry could not balance.
		taxAccount, err := s.resolveAccount(ctx, tx, companyID, codeTaxPayable)
		if err != nil {
			return err
		}
		if inv.Tax.IsPositive() && taxAccount == nil {
			return acctshared.ErrPostingAccountsMissing
		}

		entryNo, err := tx.NextEntryNumber(ctx, companyID)
		if err != nil {
			return err
		}
		memo := fmt.Sprintf("Invoice %s - %s", inv.Number, inv.Customer)
		entryID, err := tx.InsertJournalEntry(ctx, companyID, entryNo, inv.IssueDate, memo)
		if err != nil {
			return err
		}

		taxed := inv.Tax.IsPositive()
		lines := []PostingLine{
			{AccountID: receivable.ID, Debit: inv.Total, Credit: decimal.Zero},
			{AccountID: sales.ID, Debit: decimal.Zero, Credit: inv.Subtotal},
		}
		if taxed {
			lines = append(lines, PostingLine{AccountID: taxAccount.ID, Debit: decimal.Zero, Credit: inv.Tax})
		}
		if err := tx.InsertJournalLines(ctx, entryID, lines); err != nil {
			return err
		}

		if err := tx.SetInvoiceStatus(ctx, companyID, invoiceID, InvoiceStatusPosted); err != nil {
			return err
		}
		if err := tx.IncrementBalance(ctx, companyID, receivable.ID, inv.Total); err != nil {
			return err
		}
		if err := tx.IncrementBalance(ctx, companyID, sales.ID, inv.Subtotal.Neg()); err != nil {
			return err
		}
		if taxed {
			if err := tx.IncrementBalance(ctx, companyID, taxAccount.ID, inv.Tax.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return s.repo.GetInvoice(ctx, companyID, invoiceID)
}

func (s *Service) resolveAccount(ctx context.Context, tx TxRepository, companyID uuid.UUID, code string) (*PostingAccount, error) {
	acct, err := tx.GetAccountByCode(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, acctshared.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acct, nil
}

// GetInvoice returns one invoice.
func (s *Service) GetInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	return s.repo.GetInvoice(ctx, companyID, invoiceID)
}

// ListInvoices returns the company's invoices newest issue date first,
// optionally filtered by status.
func (s *Service) ListInvoices(ctx context.Context, companyID uuid.UUID, status *InvoiceStatus) ([]Invoice, error) {
	return s.repo.ListInvoices(ctx, companyID, status)
}

// DeleteInvoice removes a draft invoice permanently. Posted invoices stay.
func (s *Service) DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != InvoiceStatusDraft {
			return ErrNotDraft
		}
		return tx.DeleteInvoice(ctx, companyID, invoiceID)
	})
}

// CreatePayment records a receipt and writes a journal entry referencing the
// invoice. The entry carries no lines and no balance effect today.
// TODO: post receipt lines (debit the 1110 cash account, credit 1120
// Accounts Receivable) once clearing-account mapping per payment method is in
// place.
func (s *Service) CreatePayment(ctx context.Context, companyID uuid.UUID, req CreatePaymentRequest, userID uuid.UUID) (Payment, error) {
	reference := fmt.Sprintf("PAY-%d", s.now().UnixMilli())
	if req.ReferenceID != nil {
		reference = req.ReferenceID.String()
	}
	var created Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		created, err = tx.InsertPayment(ctx, Payment{
			CompanyID:   companyID,
			InvoiceID:   req.ReferenceID,
			Amount:      req.Amount,
			Date:        req.Date,
			Method:      req.Method,
			Reference:   reference,
			Description: req.Description,
			CreatedBy:   userID,
		})
		if err != nil {
			return err
		}
		entryNo, err := tx.NextEntryNumber(ctx, companyID)
		if err != nil {
			return err
		}
		memo := fmt.Sprintf("Payment for invoice %s", reference)
		if _, err := tx.InsertJournalEntry(ctx, companyID, entryNo, req.Date, memo); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	return created, nil
}

// GetPayment returns one payment.
func (s *Service) GetPayment(ctx context.Context, companyID, paymentID uuid.UUID) (Payment, error) {
	return s.repo.GetPayment(ctx, companyID, paymentID)
}

// ListPayments returns the company's payments newest first.
func (s *Service) ListPayments(ctx context.Context, companyID uuid.UUID) ([]Payment, error) {
	return s.repo.ListPayments(ctx, companyID)
}

// DeletePayment always refuses: receipts are corrected with a reversal
// entry, never removed.
func (s *Service) DeletePayment(ctx context.Context, companyID, paymentID uuid.UUID) error {
	if _, err := s.repo.GetPayment(ctx, companyID, paymentID); err != nil {
		return err
	}
	return ErrPaymentImmutable
}
