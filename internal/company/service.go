package company

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	core "github.com/ledgerline/ledgerline/internal/shared"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a URL-safe identifier from a company name.
func Slug(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Service wraps tenant registration and authentication rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a company with its admin user, enables the accounting
// module, and seeds the default chart of accounts in one transaction.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	slug := Slug(req.CompanyName)

	exists, err := s.repo.CompanyExists(ctx, req.CompanyEmail, slug)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("check company: %w", err)
	}
	if exists {
		return AuthResponse{}, ErrCompanyExists
	}
	taken, err := s.repo.UserEmailExists(ctx, req.Email)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("check user email: %w", err)
	}
	if taken {
		return AuthResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	var out AuthResponse
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		c, err := tx.InsertCompany(ctx, req.CompanyName, slug, req.CompanyEmail)
		if err != nil {
			return err
		}
		u, err := tx.InsertUser(ctx, c.ID, req.Email, req.Name, "admin", string(hash))
		if err != nil {
			return err
		}
		if err := tx.EnableModule(ctx, c.ID, ModuleAccounting); err != nil {
			return err
		}
		if err := seedDefaultChart(ctx, tx, c.ID); err != nil {
			return err
		}
		out = AuthResponse{User: u, Company: c}
		return nil
	})
	if err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Login validates email/password credentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return AuthResponse{}, core.ErrInvalidCredentials
	}
	if !user.IsActive {
		return AuthResponse{}, core.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResponse{}, core.ErrInvalidCredentials
	}
	comp, err := s.repo.GetCompany(ctx, user.CompanyID)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{User: user, Company: comp}, nil
}

// ModuleEnabled reports whether a module is active for the company.
func (s *Service) ModuleEnabled(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	return s.repo.ModuleEnabled(ctx, companyID, code)
}

func seedDefaultChart(ctx context.Context, tx TxRepository, companyID uuid.UUID) error {
	created := make(map[string]uuid.UUID, len(defaultChart))
	for _, entry := range defaultChart {
		var parentID *uuid.UUID
		if entry.Parent != "" {
			id, ok := created[entry.Parent]
			if !ok {
				return fmt.Errorf("chart entry %s references unknown parent %s", entry.Code, entry.Parent)
			}
			parentID = &id
		}
		id, err := tx.InsertAccount(ctx, companyID, entry.Code, entry.Name, entry.Type, parentID)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", entry.Code, err)
		}
		created[entry.Code] = id
	}
	return nil
}
