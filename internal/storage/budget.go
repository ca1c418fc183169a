package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"homeledger/internal/core"
)

// budgetRowID is the fixed key of the singleton budget row. Upserting
// on a constant key keeps two concurrent writers from interleaving into
// a half-merged record: each call is a single atomic statement.
const budgetRowID = 1

// GetBudget returns the current budget, or nil when none has ever been
// saved. Absence is a valid state, not an error.
func (s *Store) GetBudget(ctx context.Context) (*core.Budget, error) {
	var b core.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT annual_cents, monthly_cents FROM budgets WHERE id = ?`, budgetRowID,
	).Scan(&b.AnnualBudget.Cents, &b.MonthlyBudget.Cents)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

// UpsertBudget validates and writes the budget, creating the singleton
// row on first save and overwriting it in place on every later one.
func (s *Store) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, annual_cents, monthly_cents, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     annual_cents = excluded.annual_cents,
		     monthly_cents = excluded.monthly_cents,
		     updated_at = excluded.updated_at`,
		budgetRowID, b.AnnualBudget.Cents, b.MonthlyBudget.Cents,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"annual_cents", b.AnnualBudget.Cents,
		"monthly_cents", b.MonthlyBudget.Cents)

	return b, nil
}
