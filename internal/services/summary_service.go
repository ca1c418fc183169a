package services

import (
	"context"
	"fmt"

	"homeledger/internal/core"
	"homeledger/internal/storage"
)

// SummaryService is the aggregation engine's entry point: it joins the
// two collections in memory and derives the dashboard numbers. Keeping
// this server-side means every client renders identical values.
type SummaryService struct {
	store *storage.Store
}

func NewSummaryService(store *storage.Store) *SummaryService {
	return &SummaryService{store: store}
}

func (s *SummaryService) Summarize(ctx context.Context) (core.Summary, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summarize expenses: %w", err)
	}
	budget, err := s.store.GetBudget(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summarize budget: %w", err)
	}
	return core.Summarize(budget, expenses), nil
}
