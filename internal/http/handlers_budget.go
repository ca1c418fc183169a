package http

import (
	"net/http"

	"homeledger/internal/core"
)

// budgetRequest uses pointers so "field missing" and "field zero" stay
// distinguishable: zero is a legal budget, absence is not.
type budgetRequest struct {
	AnnualBudget  *core.Money `json:"annualBudget"`
	MonthlyBudget *core.Money `json:"monthlyBudget"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPost:
		s.setBudget(w, r)
	default:
		methodNotAllowed(r.Context(), w, "GET, POST")
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	budget, err := s.budReader.Get(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	// "No budget yet" is a valid state: respond null, not an error.
	writeJSON(ctx, w, http.StatusOK, budget)
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.AnnualBudget == nil {
		writeError(ctx, w, core.ErrAnnualBudgetRequired)
		return
	}
	if req.MonthlyBudget == nil {
		writeError(ctx, w, core.ErrMonthlyBudgetRequired)
		return
	}

	saved, err := s.budWriter.Set(ctx, core.Budget{
		AnnualBudget:  *req.AnnualBudget,
		MonthlyBudget: *req.MonthlyBudget,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	s.summaryCache.invalidate()
	writeJSON(ctx, w, http.StatusOK, saved)
}
