package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/shared"
)

// Service implements the account directory rules: code uniqueness, type
// consistency between parent and child, and deletion blocked by children.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account. New accounts always start active with a
// zero balance regardless of the request.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req CreateAccountRequest) (Account, error) {
	if !req.Type.Valid() {
		return Account{}, shared.ErrInvalidAccountType
	}
	if _, err := s.repo.GetByCode(ctx, companyID, req.Code); err == nil {
		return Account{}, shared.ErrCodeTaken
	} else if !errors.Is(err, shared.ErrAccountNotFound) {
		return Account{}, err
	}
	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, companyID, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrAccountNotFound) {
				return Account{}, shared.ErrParentNotFound
			}
			return Account{}, err
		}
		if parent.Type != req.Type {
			return Account{}, shared.ErrParentTypeMismatch
		}
	}
	return s.repo.Create(ctx, Account{
		CompanyID: companyID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  req.ParentID,
		IsActive:  true,
		Balance:   decimal.Zero,
	})
}

// Get returns one account with parent and children expanded.
func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (Account, error) {
	return s.repo.GetByID(ctx, companyID, id)
}

// List returns the company's accounts ordered by code, optionally filtered
// by type.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, typ *AccountType) ([]Account, error) {
	return s.repo.List(ctx, companyID, typ)
}

// Update patches the name and active flag.
func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateAccountRequest) (Account, error) {
	return s.repo.Update(ctx, companyID, id, req)
}

// Delete removes a childless account permanently. Accounts with sub-accounts
// stay; deactivate them instead.
func (s *Service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	children, err := s.repo.CountChildren(ctx, companyID, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return shared.ErrHasChildren
	}
	return s.repo.Delete(ctx, companyID, id)
}

// Tree returns active accounts as a forest. Children are expanded two levels
// below each root; deeper chains are truncated out of the view.
func (s *Service) Tree(ctx context.Context, companyID uuid.UUID) ([]*Account, error) {
	all, err := s.repo.ListActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	byParent := make(map[uuid.UUID][]*Account)
	var roots []*Account
	for i := range all {
		node := all[i]
		node.Children = nil
		copied := node
		if copied.ParentID == nil {
			roots = append(roots, &copied)
		} else {
			byParent[*copied.ParentID] = append(byParent[*copied.ParentID], &copied)
		}
	}
	for _, root := range roots {
		root.Children = byParent[root.ID]
		for _, child := range root.Children {
			child.Children = byParent[child.ID]
		}
	}
	return roots, nil
}
