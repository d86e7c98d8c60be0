package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
)

// Service produces financial reports from live account balances. Results are
// cached in Redis for a short TTL and concurrent builds of the same report
// are collapsed through singleflight.
type Service struct {
	accounts accounts.Repository
	cache    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
	group    singleflight.Group
}

// NewService wires the account repository with the report cache.
func NewService(repo accounts.Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{accounts: repo, cache: cache, ttl: ttl, logger: logger}
}

// TrialBalance builds the trial balance for a company. The asOf parameter is
// accepted for API compatibility; balances are the live running totals.
func (s *Service) TrialBalance(ctx context.Context, companyID uuid.UUID, asOf *time.Time) (TrialBalance, error) {
	_ = asOf
	var out TrialBalance
	err := s.cached(ctx, s.key(companyID, "tb"), &out, func(ctx context.Context) (any, error) {
		balances, err := s.balances(ctx, companyID)
		if err != nil {
			return nil, err
		}
		return BuildTrialBalance(balances), nil
	})
	return out, err
}

// BalanceSheet builds the balance sheet for a company.
func (s *Service) BalanceSheet(ctx context.Context, companyID uuid.UUID, asOf *time.Time) (BalanceSheet, error) {
	_ = asOf
	var out BalanceSheet
	err := s.cached(ctx, s.key(companyID, "bs"), &out, func(ctx context.Context) (any, error) {
		balances, err := s.balances(ctx, companyID)
		if err != nil {
			return nil, err
		}
		return BuildBalanceSheet(balances), nil
	})
	return out, err
}

// IncomeStatement builds the income statement for a company. The period
// parameters are accepted for API compatibility; balances are the live
// running totals.
func (s *Service) IncomeStatement(ctx context.Context, companyID uuid.UUID, start, end *time.Time) (IncomeStatement, error) {
	_, _ = start, end
	var out IncomeStatement
	err := s.cached(ctx, s.key(companyID, "pl"), &out, func(ctx context.Context) (any, error) {
		balances, err := s.balances(ctx, companyID)
		if err != nil {
			return nil, err
		}
		return BuildIncomeStatement(balances), nil
	})
	return out, err
}

func (s *Service) balances(ctx context.Context, companyID uuid.UUID) ([]AccountBalance, error) {
	active, err := s.accounts.ListActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}
	balances := make([]AccountBalance, 0, len(active))
	for _, acc := range active {
		balances = append(balances, AccountBalance{
			Code:    acc.Code,
			Name:    acc.Name,
			Type:    acc.Type,
			Balance: acc.Balance,
		})
	}
	return balances, nil
}

func (s *Service) key(companyID uuid.UUID, kind string) string {
	return fmt.Sprintf("reports:%s:%s", companyID, kind)
}

func (s *Service) cached(ctx context.Context, key string, dest any, build func(ctx context.Context) (any, error)) error {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(raw, dest)
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("report cache read failed", "key", key, "error", err)
		}
	}

	payload, err, _ := s.group.Do(key, func() (any, error) {
		built, err := build(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(built)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("report cache write failed", "key", key, "error", err)
			}
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(payload.([]byte), dest)
}
