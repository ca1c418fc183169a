// Package services orchestrates the record store and the event client.
// Repositories here never swallow store errors; event publish failures
// are logged and never fail the caller's request.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"homeledger/internal/amqp"
	"homeledger/internal/core"
	"homeledger/internal/storage"
)

// ExpenseService is the expense repository: create and list.
type ExpenseService struct {
	store  *storage.Store
	events *amqp.Client
	now    func() time.Time
}

func NewExpenseService(store *storage.Store, events *amqp.Client) *ExpenseService {
	return &ExpenseService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// Add persists a new expense, defaulting the date to now when the
// caller left it out, and announces it to the export pipeline.
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Date.IsZero() {
		e.Date = s.now()
	}

	saved, err := s.store.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishExpenseCreated(ctx, saved.ID); err != nil {
			// The expense is durably stored; the mirror catches up later.
			slog.ErrorContext(ctx, "Failed to publish expense event",
				"id", saved.ID, "error", err)
		}
	}

	return saved, nil
}

// List returns all expenses, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}
