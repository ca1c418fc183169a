package services

import (
	"context"
	"fmt"
	"log/slog"

	"homeledger/internal/amqp"
	"homeledger/internal/core"
	"homeledger/internal/storage"
)

// BudgetService is the budget repository. One household keeps one
// active budget: Set overwrites, it never appends.
type BudgetService struct {
	store  *storage.Store
	events *amqp.Client
}

func NewBudgetService(store *storage.Store, events *amqp.Client) *BudgetService {
	return &BudgetService{store: store, events: events}
}

// Get returns the current budget, or nil when none was ever saved.
func (s *BudgetService) Get(ctx context.Context) (*core.Budget, error) {
	b, err := s.store.GetBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// Set upserts the singleton budget and announces the new ceilings.
func (s *BudgetService) Set(ctx context.Context, b core.Budget) (core.Budget, error) {
	saved, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishBudgetUpdated(ctx, saved.AnnualBudget.Cents, saved.MonthlyBudget.Cents); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget event", "error", err)
		}
	}

	return saved, nil
}
