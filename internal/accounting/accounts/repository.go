package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/shared"
)

// Repository encapsulates DB operations for the chart of accounts. Every
// method takes the company ID explicitly; no query runs unscoped.
type Repository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (Account, error)
	GetByCode(ctx context.Context, companyID uuid.UUID, code string) (Account, error)
	List(ctx context.Context, companyID uuid.UUID, typ *AccountType) ([]Account, error)
	ListActive(ctx context.Context, companyID uuid.UUID) ([]Account, error)
	Update(ctx context.Context, companyID, id uuid.UUID, patch UpdateAccountRequest) (Account, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	CountChildren(ctx context.Context, companyID, parentID uuid.UUID) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const accountColumns = `id, company_id, code, name, type, parent_id, is_active, balance::text, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var balance string
	if err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.IsActive, &balance, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	b, err := decimal.NewFromString(balance)
	if err != nil {
		return Account{}, err
	}
	a.Balance = b
	return a, nil
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO accounts (company_id, code, name, type, parent_id, is_active, balance)
VALUES ($1,$2,$3,$4,$5,$6,0)
RETURNING `+accountColumns, account.CompanyID, account.Code, account.Name, account.Type, account.ParentID, account.IsActive)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_accounts_company_code" {
			return Account{}, shared.ErrCodeTaken
		}
		return Account{}, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, companyID, id uuid.UUID) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 AND id=$2`, companyID, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	if account.ParentID != nil {
		parent, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 AND id=$2`, companyID, *account.ParentID))
		if err == nil {
			account.Parent = &parent
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return Account{}, err
		}
	}
	children, err := r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 AND parent_id=$2 ORDER BY code`, companyID, id)
	if err != nil {
		return Account{}, err
	}
	for i := range children {
		account.Children = append(account.Children, &children[i])
	}
	return account, nil
}

func (r *repository) GetByCode(ctx context.Context, companyID uuid.UUID, code string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 AND code=$2`, companyID, code)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return account, nil
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID, typ *AccountType) ([]Account, error) {
	if typ != nil {
		return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 AND type=$2 ORDER BY code`, companyID, *typ)
	}
	return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 ORDER BY code`, companyID)
}

func (r *repository) ListActive(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 AND is_active ORDER BY code`, companyID)
}

func (r *repository) Update(ctx context.Context, companyID, id uuid.UUID, patch UpdateAccountRequest) (Account, error) {
	row := r.db.QueryRow(ctx, `UPDATE accounts
SET name = COALESCE($3, name), is_active = COALESCE($4, is_active), updated_at = NOW()
WHERE company_id=$1 AND id=$2
RETURNING `+accountColumns, companyID, id, patch.Name, patch.IsActive)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return account, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE company_id=$1 AND id=$2`, companyID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}

func (r *repository) CountChildren(ctx context.Context, companyID, parentID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE company_id=$1 AND parent_id=$2`, companyID, parentID).Scan(&n)
	return n, err
}

func (r *repository) queryAccounts(ctx context.Context, query string, args ...any) ([]Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}
