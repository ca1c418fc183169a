package http

import (
	"net/http"
	"time"

	"homeledger/internal/core"
)

// expenseRequest is the POST /api/expenses payload. The date is an
// optional ISO-8601 string; absent means "now".
type expenseRequest struct {
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
	Person      string     `json:"person"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		methodNotAllowed(r.Context(), w, "GET, POST")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenses, err := s.expLister.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, expenses)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	expense := core.Expense{
		Amount:      req.Amount,
		Description: req.Description,
		Person:      req.Person,
		Category:    req.Category,
		Date:        date,
	}

	saved, err := s.expWriter.Add(ctx, expense)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	s.summaryCache.invalidate()
	writeJSON(ctx, w, http.StatusCreated, saved)
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
// Empty input yields the zero time; the repository fills in "now".
func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, &core.ValidationError{Field: "date", Reason: "is not a valid ISO-8601 timestamp"}
}
