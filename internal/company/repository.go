package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
	"github.com/ledgerline/ledgerline/internal/platform/db"
	core "github.com/ledgerline/ledgerline/internal/shared"
)

// Repository encapsulates DB operations for companies and users.
type Repository interface {
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CompanyExists(ctx context.Context, email, slug string) (bool, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	ModuleEnabled(ctx context.Context, companyID uuid.UUID, code string) (bool, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the mutations of the registration unit of work.
type TxRepository interface {
	InsertCompany(ctx context.Context, name, slug, email string) (Company, error)
	InsertUser(ctx context.Context, companyID uuid.UUID, email, name, role, passwordHash string) (User, error)
	EnableModule(ctx context.Context, companyID uuid.UUID, code string) error
	InsertAccount(ctx context.Context, companyID uuid.UUID, code, name string, typ accounts.AccountType, parentID *uuid.UUID) (uuid.UUID, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const companyColumns = `id, name, slug, email, created_at, updated_at`
const userColumns = `id, company_id, email, name, role, password_hash, is_active, created_at, updated_at`

func (r *repository) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, core.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.CompanyID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, core.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *repository) CompanyExists(ctx context.Context, email, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE email=$1 OR slug=$2)`, email, slug).Scan(&exists)
	return exists, err
}

func (r *repository) UserEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *repository) ModuleEnabled(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM company_modules WHERE company_id=$1 AND module_code=$2)`,
		companyID, code).Scan(&enabled)
	return enabled, err
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertCompany(ctx context.Context, name, slug, email string) (Company, error) {
	c := Company{Name: name, Slug: slug, Email: email}
	err := r.tx.QueryRow(ctx, `INSERT INTO companies (name, slug, email)
VALUES ($1,$2,$3) RETURNING id, created_at, updated_at`, name, slug, email).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Company{}, ErrCompanyExists
		}
		return Company{}, err
	}
	return c, nil
}

func (r *txRepository) InsertUser(ctx context.Context, companyID uuid.UUID, email, name, role, passwordHash string) (User, error) {
	u := User{CompanyID: companyID, Email: email, Name: name, Role: role, PasswordHash: passwordHash, IsActive: true}
	err := r.tx.QueryRow(ctx, `INSERT INTO users (company_id, email, name, role, password_hash, is_active)
VALUES ($1,$2,$3,$4,$5,TRUE) RETURNING id, created_at, updated_at`, companyID, email, name, role, passwordHash).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (r *txRepository) EnableModule(ctx context.Context, companyID uuid.UUID, code string) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO company_modules (company_id, module_code)
VALUES ($1,$2) ON CONFLICT DO NOTHING`, companyID, code)
	return err
}

// InsertAccount writes a chart row directly so seeding stays inside the
// registration transaction.
func (r *txRepository) InsertAccount(ctx context.Context, companyID uuid.UUID, code, name string, typ accounts.AccountType, parentID *uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.tx.QueryRow(ctx, `INSERT INTO accounts (company_id, code, name, type, parent_id, is_active, balance)
VALUES ($1,$2,$3,$4,$5,TRUE,0) RETURNING id`, companyID, code, name, typ, parentID).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
