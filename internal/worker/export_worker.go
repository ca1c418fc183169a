// Package worker mirrors stored records into the household's shared
// spreadsheet as events arrive from the export queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"homeledger/internal/amqp"
	"homeledger/internal/core"
	"homeledger/internal/sheets"
	"homeledger/internal/storage"
)

// ExportWorker handles export events. It implements amqp.EventHandler;
// a returned error requeues the delivery so the mirror eventually
// catches up after transient Sheets failures.
type ExportWorker struct {
	store   *storage.Store
	rows    sheets.RowAppender
	budgets sheets.BudgetWriter
}

func NewExportWorker(store *storage.Store, rows sheets.RowAppender, budgets sheets.BudgetWriter) *ExportWorker {
	return &ExportWorker{
		store:   store,
		rows:    rows,
		budgets: budgets,
	}
}

// HandleExpenseCreated loads the expense from the store and appends it
// to the ledger sheet. The message only carries the id, so the row is
// always written from the durable record, never from queue payload.
func (w *ExportWorker) HandleExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	expense, err := w.store.GetExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("load expense for export: %w", err)
	}

	ref, err := w.rows.AppendExpense(ctx, expense)
	if err != nil {
		return fmt.Errorf("export expense %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Expense exported",
		"id", msg.ID,
		"range", ref)
	return nil
}

// HandleBudgetUpdated overwrites the budget cells with the values the
// event carries.
func (w *ExportWorker) HandleBudgetUpdated(ctx context.Context, msg *amqp.BudgetUpdatedMessage) error {
	if w.budgets == nil {
		slog.WarnContext(ctx, "No budget writer configured, skipping budget export")
		return nil
	}

	b := core.Budget{
		AnnualBudget:  core.Money{Cents: msg.AnnualCents},
		MonthlyBudget: core.Money{Cents: msg.MonthlyCents},
	}
	if err := w.budgets.WriteBudget(ctx, b); err != nil {
		return fmt.Errorf("export budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget exported",
		"annual_cents", msg.AnnualCents,
		"monthly_cents", msg.MonthlyCents)
	return nil
}
