package journals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/sequence"
	"github.com/ledgerline/ledgerline/internal/accounting/shared"
)

// Repository encapsulates DB operations for journal entries.
type Repository interface {
	GetWithLines(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error)
	List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the mutations available within a transaction. Balance
// writes happen only here, inside the posting unit of work.
type TxRepository interface {
	NextEntryNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	InsertEntry(ctx context.Context, companyID uuid.UUID, entryNo string, date time.Time, memo string) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID uuid.UUID, lines []JournalLineRequest) error
	GetWithLines(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error)
	IncrementBalance(ctx context.Context, companyID, accountID uuid.UUID, delta decimal.Decimal) error
	DeleteEntry(ctx context.Context, companyID, entryID uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) GetWithLines(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return getWithLines(ctx, r.db, companyID, entryID)
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, entry_no, date, memo, created_at
FROM journal_entries WHERE company_id=$1 ORDER BY date DESC, entry_no DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.EntryNo, &e.Date, &e.Memo, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		lines, err := queryLines(ctx, r.db, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
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

// NextEntryNumber bumps the per-company JE counter atomically. The counter
// row lock serialises concurrent allocations within the tenant.
func (r *txRepository) NextEntryNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `INSERT INTO document_sequences (company_id, doc_type, last_value)
VALUES ($1, 'journal_entry', 1)
ON CONFLICT (company_id, doc_type) DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value`, companyID).Scan(&n)
	if err != nil {
		return "", err
	}
	return sequence.Format(sequence.PrefixJournal, n), nil
}

func (r *txRepository) InsertEntry(ctx context.Context, companyID uuid.UUID, entryNo string, date time.Time, memo string) (JournalEntry, error) {
	entry := JournalEntry{CompanyID: companyID, EntryNo: entryNo, Date: date, Memo: memo}
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, entry_no, date, memo)
VALUES ($1,$2,$3,$4) RETURNING id, created_at`, companyID, entryNo, date, memo).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID uuid.UUID, lines []JournalLineRequest) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit)
VALUES ($1,$2,$3,$4)`, entryID, line.AccountID, line.Debit.StringFixed(2), line.Credit.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetWithLines(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return getWithLines(ctx, r.tx, companyID, entryID)
}

func (r *txRepository) IncrementBalance(ctx context.Context, companyID, accountID uuid.UUID, delta decimal.Decimal) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE accounts SET balance = balance + $3::numeric, updated_at = NOW()
WHERE company_id=$1 AND id=$2`, companyID, accountID, delta.StringFixed(2))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}

func (r *txRepository) DeleteEntry(ctx context.Context, companyID, entryID uuid.UUID) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE company_id=$1 AND id=$2`, companyID, entryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrJournalNotFound
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getWithLines(ctx context.Context, q querier, companyID, entryID uuid.UUID) (JournalEntry, error) {
	var e JournalEntry
	err := q.QueryRow(ctx, `SELECT id, company_id, entry_no, date, memo, created_at
FROM journal_entries WHERE company_id=$1 AND id=$2`, companyID, entryID).
		Scan(&e.ID, &e.CompanyID, &e.EntryNo, &e.Date, &e.Memo, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	lines, err := queryLines(ctx, q, e.ID)
	if err != nil {
		return JournalEntry{}, err
	}
	e.Lines = lines
	return e, nil
}

func queryLines(ctx context.Context, q querier, entryID uuid.UUID) ([]JournalLine, error) {
	rows, err := q.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, l.debit::text, l.credit::text, a.code, a.name, a.type
FROM journal_lines l JOIN accounts a ON a.id = l.account_id
WHERE l.entry_id=$1 ORDER BY l.seq`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		var debit, credit string
		account := &LineAccount{}
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &debit, &credit, &account.Code, &account.Name, &account.Type); err != nil {
			return nil, err
		}
		if line.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if line.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		account.ID = line.AccountID
		line.Account = account
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
