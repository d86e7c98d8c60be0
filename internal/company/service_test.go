package company

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
	core "github.com/ledgerline/ledgerline/internal/shared"
)

type fakeAccount struct {
	Code     string
	Name     string
	Type     accounts.AccountType
	ParentID *uuid.UUID
}

type fakeRepo struct {
	companies map[uuid.UUID]Company
	users     map[string]User
	modules   map[string]bool
	accounts  map[uuid.UUID]fakeAccount
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		companies: make(map[uuid.UUID]Company),
		users:     make(map[string]User),
		modules:   make(map[string]bool),
		accounts:  make(map[uuid.UUID]fakeAccount),
	}
}

func (f *fakeRepo) GetCompany(_ context.Context, id uuid.UUID) (Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return Company{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	u, ok := f.users[email]
	if !ok {
		return User{}, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) CompanyExists(_ context.Context, email, slug string) (bool, error) {
	for _, c := range f.companies {
		if c.Email == email || c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UserEmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeRepo) ModuleEnabled(_ context.Context, companyID uuid.UUID, code string) (bool, error) {
	return f.modules[companyID.String()+":"+code], nil
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) InsertCompany(_ context.Context, name, slug, email string) (Company, error) {
	c := Company{ID: uuid.New(), Name: name, Slug: slug, Email: email}
	f.companies[c.ID] = c
	return c, nil
}

func (f *fakeRepo) InsertUser(_ context.Context, companyID uuid.UUID, email, name, role, passwordHash string) (User, error) {
	u := User{ID: uuid.New(), CompanyID: companyID, Email: email, Name: name, Role: role, PasswordHash: passwordHash, IsActive: true}
	f.users[email] = u
	return u, nil
}

func (f *fakeRepo) EnableModule(_ context.Context, companyID uuid.UUID, code string) error {
	f.modules[companyID.String()+":"+code] = true
	return nil
}

func (f *fakeRepo) InsertAccount(_ context.Context, _ uuid.UUID, code, name string, typ accounts.AccountType, parentID *uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	f.accounts[id] = fakeAccount{Code: code, Name: name, Type: typ, ParentID: parentID}
	return id, nil
}

func registerReq() RegisterRequest {
	return RegisterRequest{
		CompanyName:  "Acme Widgets",
		CompanyEmail: "hello@acme.test",
		Name:         "Ada",
		Email:        "ada@acme.test",
		Password:     "correct horse",
	}
}

func TestRegisterSeedsDefaultChart(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	require.Equal(t, "acme-widgets", resp.Company.Slug)
	require.Equal(t, "admin", resp.User.Role)
	require.NotEqual(t, "correct horse", resp.User.PasswordHash)

	enabled, err := svc.ModuleEnabled(context.Background(), resp.Company.ID, ModuleAccounting)
	require.NoError(t, err)
	require.True(t, enabled)

	require.Len(t, repo.accounts, len(defaultChart))

	byCode := make(map[string]fakeAccount)
	for _, acc := range repo.accounts {
		byCode[acc.Code] = acc
	}
	require.Equal(t, accounts.AccountTypeAsset, byCode["1120"].Type)
	require.Equal(t, "Accounts Receivable", byCode["1120"].Name)
	require.NotNil(t, byCode["1110"].ParentID)
	require.Nil(t, byCode["1000"].ParentID)

	cash := byCode["1110"]
	parent := repo.accounts[*cash.ParentID]
	require.Equal(t, "1100", parent.Code)
}

func TestRegisterDuplicateCompany(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.Email = "other@acme.test"
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, core.ErrConflict)
}

func TestRegisterDuplicateUserEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.CompanyName = "Other Co"
	req.CompanyEmail = "hello@other.test"
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	reg, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ada@acme.test", Password: "correct horse"})
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, resp.User.ID)
	require.Equal(t, reg.Company.ID, resp.Company.ID)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@acme.test", Password: "wrong"})
	require.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@acme.test", Password: "whatever"})
	require.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["off@acme.test"] = User{ID: uuid.New(), Email: "off@acme.test", PasswordHash: string(hash), IsActive: false}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "off@acme.test", Password: "pw"})
	require.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestSlug(t *testing.T) {
	require.Equal(t, "acme-widgets", Slug("Acme Widgets"))
	require.Equal(t, "acme-co", Slug("  Acme & Co!  "))
	require.Equal(t, "a1b2", Slug("A1B2"))
}
