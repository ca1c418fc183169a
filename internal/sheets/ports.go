// Package sheets declares the outbound ports for the household's
// shared spreadsheet mirror.
package sheets

import (
	"context"

	"homeledger/internal/core"
)

type (
	// RowAppender appends one expense as a ledger row.
	RowAppender interface {
		AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// BudgetWriter overwrites the budget cells.
	BudgetWriter interface {
		WriteBudget(ctx context.Context, b core.Budget) error
	}
)
