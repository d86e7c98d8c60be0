package ar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	acctshared "github.com/ledgerline/ledgerline/internal/accounting/shared"
	"github.com/ledgerline/ledgerline/internal/accounting/sequence"
)

// Repository encapsulates DB operations for invoices and payments.
type Repository interface {
	GetInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error)
	ListInvoices(ctx context.Context, companyID uuid.UUID, status *InvoiceStatus) ([]Invoice, error)
	GetPayment(ctx context.Context, companyID, paymentID uuid.UUID) (Payment, error)
	ListPayments(ctx context.Context, companyID uuid.UUID) ([]Payment, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// PostingAccount is the slim projection of a ledger account used while
// posting an invoice.
type PostingAccount struct {
	ID   uuid.UUID
	Code string
}

// PostingLine is one journal line generated by a posting.
type PostingLine struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// TxRepository exposes the mutations available inside a posting transaction.
// It duplicates the account and journal SQL it needs rather than reaching
// into the accounting repositories, so the whole posting shares one tx.
type TxRepository interface {
	NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	NextEntryNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	InsertInvoice(ctx context.Context, inv Invoice) (Invoice, error)
	GetInvoiceForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error)
	SetInvoiceStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status InvoiceStatus) error
	DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error
	GetAccountByCode(ctx context.Context, companyID uuid.UUID, code string) (PostingAccount, error)
	IncrementBalance(ctx context.Context, companyID, accountID uuid.UUID, delta decimal.Decimal) error
	InsertJournalEntry(ctx context.Context, companyID uuid.UUID, entryNo string, date time.Time, memo string) (uuid.UUID, error)
	InsertJournalLines(ctx context.Context, entryID uuid.UUID, lines []PostingLine) error
	InsertPayment(ctx context.Context, p Payment) (Payment, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const invoiceColumns = `id, company_id, number, customer, issue_date, due_date, subtotal::text, tax::text, total::text, status, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var subtotal, tax, total string
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.Number, &inv.Customer, &inv.IssueDate, &inv.DueDate,
		&subtotal, &tax, &total, &inv.Status, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return Invoice{}, err
	}
	if inv.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Invoice{}, err
	}
	if inv.Tax, err = decimal.NewFromString(tax); err != nil {
		return Invoice{}, err
	}
	if inv.Total, err = decimal.NewFromString(total); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (r *repository) GetInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id=$1 AND id=$2`, companyID, invoiceID)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrInvoiceNotFound
		}
		return Invoice{}, err
	}
	return inv, nil
}

func (r *repository) ListInvoices(ctx context.Context, companyID uuid.UUID, status *InvoiceStatus) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id=$1 ORDER BY issue_date DESC, number DESC`
	args := []any{companyID}
	if status != nil {
		query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id=$1 AND status=$2 ORDER BY issue_date DESC, number DESC`
		args = append(args, *status)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

const paymentColumns = `id, company_id, invoice_id, amount::text, date, method, reference, description, created_by, created_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	var amount string
	err := row.Scan(&p.ID, &p.CompanyID, &p.InvoiceID, &amount, &p.Date, &p.Method, &p.Reference, &p.Description, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return Payment{}, err
	}
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *repository) GetPayment(ctx context.Context, companyID, paymentID uuid.UUID) (Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE company_id=$1 AND id=$2`, companyID, paymentID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrPaymentNotFound
		}
		return Payment{}, err
	}
	return p, nil
}

func (r *repository) ListPayments(ctx context.Context, companyID uuid.UUID) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE company_id=$1 ORDER BY date DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	n, err := r.nextDocValue(ctx, companyID, "invoice")
	if err != nil {
		return "", err
	}
	return sequence.Format(sequence.PrefixInvoice, n), nil
}

func (r *txRepository) NextEntryNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	n, err := r.nextDocValue(ctx, companyID, "journal_entry")
	if err != nil {
		return "", err
	}
	return sequence.Format(sequence.PrefixJournal, n), nil
}

func (r *txRepository) nextDocValue(ctx context.Context, companyID uuid.UUID, docType string) (int64, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `INSERT INTO document_sequences (company_id, doc_type, last_value)
VALUES ($1, $2, 1)
ON CONFLICT (company_id, doc_type) DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value`, companyID, docType).Scan(&n)
	return n, err
}

func (r *txRepository) InsertInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO invoices (company_id, number, customer, issue_date, due_date, subtotal, tax, total, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id, created_at, updated_at`,
		inv.CompanyID, inv.Number, inv.Customer, inv.IssueDate, inv.DueDate,
		inv.Subtotal.StringFixed(2), inv.Tax.StringFixed(2), inv.Total.StringFixed(2), inv.Status, inv.CreatedBy).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (r *txRepository) GetInvoiceForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id=$1 AND id=$2 FOR UPDATE`, companyID, invoiceID)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrInvoiceNotFound
		}
		return Invoice{}, err
	}
	return inv, nil
}

func (r *txRepository) SetInvoiceStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status InvoiceStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE invoices SET status=$3, updated_at=NOW() WHERE company_id=$1 AND id=$2`, companyID, invoiceID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *txRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM invoices WHERE company_id=$1 AND id=$2`, companyID, invoiceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// GetAccountByCode fetches a posting account. Duplicated from the accounts
// repository so invoice posting stays inside this transaction.
func (r *txRepository) GetAccountByCode(ctx context.Context, companyID uuid.UUID, code string) (PostingAccount, error) {
	var acct PostingAccount
	err := r.tx.QueryRow(ctx, `SELECT id, code FROM accounts WHERE company_id=$1 AND code=$2`, companyID, code).
		Scan(&acct.ID, &acct.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PostingAccount{}, acctshared.ErrAccountNotFound
		}
		return PostingAccount{}, err
	}
	return acct, nil
}

func (r *txRepository) IncrementBalance(ctx context.Context, companyID, accountID uuid.UUID, delta decimal.Decimal) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE accounts SET balance = balance + $3::numeric, updated_at = NOW()
WHERE company_id=$1 AND id=$2`, companyID, accountID, delta.StringFixed(2))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrAccountNotFound
	}
	return nil
}

func (r *txRepository) InsertJournalEntry(ctx context.Context, companyID uuid.UUID, entryNo string, date time.Time, memo string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, entry_no, date, memo)
VALUES ($1,$2,$3,$4) RETURNING id`, companyID, entryNo, date, memo).Scan(&id)
	return id, err
}

func (r *txRepository) InsertJournalLines(ctx context.Context, entryID uuid.UUID, lines []PostingLine) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit)
VALUES ($1,$2,$3,$4)`, entryID, line.AccountID, line.Debit.StringFixed(2), line.Credit.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) InsertPayment(ctx context.Context, p Payment) (Payment, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO payments (company_id, invoice_id, amount, date, method, reference, description, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at`,
		p.CompanyID, p.InvoiceID, p.Amount.StringFixed(2), p.Date, p.Method, p.Reference, p.Description, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Payment{}, err
	}
	return p, nil
}
