package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IntegrityChecker sweeps the ledger for entries whose lines do not balance
// and for companies whose account balances do not net to zero. Findings are
// logged, never repaired.
type IntegrityChecker struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewIntegrityChecker constructs an IntegrityChecker.
func NewIntegrityChecker(db *pgxpool.Pool, logger *slog.Logger) *IntegrityChecker {
	return &IntegrityChecker{db: db, logger: logger}
}

// Handle processes TaskTypeLedgerIntegrity tasks.
func (c *IntegrityChecker) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	var companyID *uuid.UUID
	if payload.CompanyID != "" {
		id, err := uuid.Parse(payload.CompanyID)
		if err != nil {
			return asynq.SkipRetry
		}
		companyID = &id
	}

	unbalanced, err := c.unbalancedEntries(ctx, companyID)
	if err != nil {
		return err
	}
	drifted, err := c.driftedCompanies(ctx, companyID)
	if err != nil {
		return err
	}

	c.logger.Info("ledger integrity sweep finished",
		slog.Int("unbalanced_entries", unbalanced),
		slog.Int("drifted_companies", drifted))
	return nil
}

func (c *IntegrityChecker) unbalancedEntries(ctx context.Context, companyID *uuid.UUID) (int, error) {
	rows, err := c.db.Query(ctx, `SELECT e.id, e.company_id, e.entry_no, SUM(l.debit - l.credit)::text
FROM journal_entries e
JOIN journal_lines l ON l.entry_id = e.id
WHERE $1::uuid IS NULL OR e.company_id = $1
GROUP BY e.id, e.company_id, e.entry_no
HAVING SUM(l.debit - l.credit) <> 0`, companyID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var entryID, company uuid.UUID
		var entryNo, diff string
		if err := rows.Scan(&entryID, &company, &entryNo, &diff); err != nil {
			return count, err
		}
		count++
		c.logger.Warn("unbalanced journal entry",
			slog.String("entry_id", entryID.String()),
			slog.String("company_id", company.String()),
			slog.String("entry_no", entryNo),
			slog.String("difference", diff))
	}
	return count, rows.Err()
}

// driftedCompanies flags tenants whose signed balances do not sum to zero.
// Every balanced posting applies a net-zero delta, so a nonzero sum means a
// write bypassed the posting path.
func (c *IntegrityChecker) driftedCompanies(ctx context.Context, companyID *uuid.UUID) (int, error) {
	rows, err := c.db.Query(ctx, `SELECT company_id, SUM(balance)::text
FROM accounts
WHERE $1::uuid IS NULL OR company_id = $1
GROUP BY company_id
HAVING SUM(balance) <> 0`, companyID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var company uuid.UUID
		var net string
		if err := rows.Scan(&company, &net); err != nil {
			return count, err
		}
		count++
		c.logger.Warn("company balances do not net to zero",
			slog.String("company_id", company.String()),
			slog.String("net", net))
	}
	return count, rows.Err()
}
