package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/accounting/shared"
	core "github.com/ledgerline/ledgerline/internal/shared"
)

type fakeRepo struct {
	accounts map[uuid.UUID]Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[uuid.UUID]Account)}
}

func (f *fakeRepo) Create(_ context.Context, account Account) (Account, error) {
	for _, a := range f.accounts {
		if a.CompanyID == account.CompanyID && a.Code == account.Code {
			return Account{}, shared.ErrCodeTaken
		}
	}
	account.ID = uuid.New()
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeRepo) GetByID(_ context.Context, companyID, id uuid.UUID) (Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.CompanyID != companyID {
		return Account{}, shared.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, companyID uuid.UUID, code string) (Account, error) {
	for _, a := range f.accounts {
		if a.CompanyID == companyID && a.Code == code {
			return a, nil
		}
	}
	return Account{}, shared.ErrAccountNotFound
}

func (f *fakeRepo) List(_ context.Context, companyID uuid.UUID, typ *AccountType) ([]Account, error) {
	var out []Account
	for _, a := range f.accounts {
		if a.CompanyID != companyID {
			continue
		}
		if typ != nil && a.Type != *typ {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) ListActive(_ context.Context, companyID uuid.UUID) ([]Account, error) {
	var out []Account
	for _, a := range f.accounts {
		if a.CompanyID == companyID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, companyID, id uuid.UUID, patch UpdateAccountRequest) (Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.CompanyID != companyID {
		return Account{}, shared.ErrAccountNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.IsActive != nil {
		a.IsActive = *patch.IsActive
	}
	f.accounts[id] = a
	return a, nil
}

func (f *fakeRepo) Delete(_ context.Context, companyID, id uuid.UUID) error {
	a, ok := f.accounts[id]
	if !ok || a.CompanyID != companyID {
		return shared.ErrAccountNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeRepo) CountChildren(_ context.Context, companyID, parentID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range f.accounts {
		if a.CompanyID == companyID && a.ParentID != nil && *a.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func TestCreateStartsActiveWithZeroBalance(t *testing.T) {
	svc := NewService(newFakeRepo())
	companyID := uuid.New()

	created, err := svc.Create(context.Background(), companyID, CreateAccountRequest{
		Code: "1110", Name: "Cash", Type: AccountTypeAsset,
	})
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.True(t, created.Balance.Equal(decimal.Zero))
	require.Equal(t, companyID, created.CompanyID)
}

func TestCreateInvalidType(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateAccountRequest{
		Code: "9000", Name: "Mystery", Type: AccountType("WEIRD"),
	})
	require.ErrorIs(t, err, shared.ErrInvalidAccountType)
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo())
	companyID := uuid.New()

	_, err := svc.Create(context.Background(), companyID, CreateAccountRequest{Code: "1110", Name: "Cash", Type: AccountTypeAsset})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), companyID, CreateAccountRequest{Code: "1110", Name: "Petty Cash", Type: AccountTypeAsset})
	require.ErrorIs(t, err, shared.ErrCodeTaken)
	require.ErrorIs(t, err, core.ErrConflict)
}

func TestCreateSameCodeDifferentCompany(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateAccountRequest{Code: "1110", Name: "Cash", Type: AccountTypeAsset})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), uuid.New(), CreateAccountRequest{Code: "1110", Name: "Cash", Type: AccountTypeAsset})
	require.NoError(t, err)
}

func TestCreateParentMissing(t *testing.T) {
	svc := NewService(newFakeRepo())
	ghost := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), CreateAccountRequest{
		Code: "1111", Name: "Sub Cash", Type: AccountTypeAsset, ParentID: &ghost,
	})
	require.ErrorIs(t, err, shared.ErrParentNotFound)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateParentTypeMismatch(t *testing.T) {
	svc := NewService(newFakeRepo())
	companyID := uuid.New()

	parent, err := svc.Create(context.Background(), companyID, CreateAccountRequest{Code: "1000", Name: "Assets", Type: AccountTypeAsset})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), companyID, CreateAccountRequest{
		Code: "4100", Name: "Sales Revenue", Type: AccountTypeRevenue, ParentID: &parent.ID,
	})
	require.ErrorIs(t, err, shared.ErrParentTypeMismatch)
	require.ErrorIs(t, err, core.ErrConflict)
}

func TestDeleteBlockedByChildren(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	companyID := uuid.New()

	parent, err := svc.Create(context.Background(), companyID, CreateAccountRequest{Code: "1000", Name: "Assets", Type: AccountTypeAsset})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), companyID, CreateAccountRequest{
		Code: "1100", Name: "Current Assets", Type: AccountTypeAsset, ParentID: &parent.ID,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), companyID, parent.ID)
	require.ErrorIs(t, err, shared.ErrHasChildren)

	require.NoError(t, svc.Delete(context.Background(), companyID, child.ID))
	require.NoError(t, svc.Delete(context.Background(), companyID, parent.ID))
}

func TestDeleteOtherTenant(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), uuid.New(), CreateAccountRequest{Code: "1110", Name: "Cash", Type: AccountTypeAsset})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), created.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestTreeTruncatesBelowTwoLevels(t *testing.T) {
	svc := NewService(newFakeRepo())
	companyID := uuid.New()
	ctx := context.Background()

	root, err := svc.Create(ctx, companyID, CreateAccountRequest{Code: "1000", Name: "Assets", Type: AccountTypeAsset})
	require.NoError(t, err)
	mid, err := svc.Create(ctx, companyID, CreateAccountRequest{Code: "1100", Name: "Current Assets", Type: AccountTypeAsset, ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := svc.Create(ctx, companyID, CreateAccountRequest{Code: "1110", Name: "Cash", Type: AccountTypeAsset, ParentID: &mid.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, companyID, CreateAccountRequest{Code: "1111", Name: "Register Float", Type: AccountTypeAsset, ParentID: &leaf.ID})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, "1000", tree[0].Code)
	require.Len(t, tree[0].Children, 1)
	require.Equal(t, "1100", tree[0].Children[0].Code)
	require.Len(t, tree[0].Children[0].Children, 1)
	require.Equal(t, "1110", tree[0].Children[0].Children[0].Code)
	// The fourth level is cut from the view.
	require.Empty(t, tree[0].Children[0].Children[0].Children)
}
