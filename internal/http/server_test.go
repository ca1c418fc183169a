package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homeledger/internal/core"
)

type fakeExpenseWriter struct {
	saved core.Expense
	err   error
}

func (f *fakeExpenseWriter) Add(_ context.Context, e core.Expense) (core.Expense, error) {
	if f.err != nil {
		return core.Expense{}, f.err
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = 1
	f.saved = e
	return e, nil
}

type fakeExpenseLister struct {
	expenses []core.Expense
	err      error
}

func (f *fakeExpenseLister) List(context.Context) ([]core.Expense, error) {
	return f.expenses, f.err
}

type fakeBudgetReader struct {
	budget *core.Budget
	err    error
}

func (f *fakeBudgetReader) Get(context.Context) (*core.Budget, error) {
	return f.budget, f.err
}

type fakeBudgetWriter struct {
	saved *core.Budget
	err   error
}

func (f *fakeBudgetWriter) Set(_ context.Context, b core.Budget) (core.Budget, error) {
	if f.err != nil {
		return core.Budget{}, f.err
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	f.saved = &b
	return b, nil
}

type fakeSummaryReader struct {
	summary core.Summary
	err     error
	calls   int
}

func (f *fakeSummaryReader) Summarize(context.Context) (core.Summary, error) {
	f.calls++
	return f.summary, f.err
}

func newTestServer(t *testing.T, ew ExpenseWriter, el ExpenseLister, br BudgetReader, bw BudgetWriter, sr SummaryReader) *Server {
	t.Helper()
	if ew == nil {
		ew = &fakeExpenseWriter{}
	}
	if el == nil {
		el = &fakeExpenseLister{}
	}
	if br == nil {
		br = &fakeBudgetReader{}
	}
	if bw == nil {
		bw = &fakeBudgetWriter{}
	}
	if sr == nil {
		sr = &fakeSummaryReader{}
	}
	srv := NewServer(":0", "*", ew, el, br, bw, sr)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestCreateExpense(t *testing.T) {
	writer := &fakeExpenseWriter{}
	srv := newTestServer(t, writer, nil, nil, nil, nil)

	payload := `{"amount": 25, "description": "Diesel top-up", "person": "Caleb", "category": "Fuel /Car Maintenance", "date": "2026-08-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var got core.Expense
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("ID = %d, want 1", got.ID)
	}
	if got.Amount.Cents != 2500 {
		t.Errorf("Amount = %d cents, want 2500", got.Amount.Cents)
	}
	if writer.saved.Person != "Caleb" {
		t.Errorf("saved person = %q, want Caleb", writer.saved.Person)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{
			name:    "missing description",
			payload: `{"amount": 10, "person": "Grace", "category": "Snacks", "date": "2026-08-01"}`,
			field:   "description",
		},
		{
			name:    "unknown person",
			payload: `{"amount": 10, "description": "x", "person": "Nobody", "category": "Snacks", "date": "2026-08-01"}`,
			field:   "person",
		},
		{
			name:    "unknown category",
			payload: `{"amount": 10, "description": "x", "person": "Grace", "category": "Nope", "date": "2026-08-01"}`,
			field:   "category",
		},
		{
			name:    "zero amount",
			payload: `{"amount": 0, "description": "x", "person": "Grace", "category": "Snacks", "date": "2026-08-01"}`,
			field:   "amount",
		},
		{
			name:    "bad date",
			payload: `{"amount": 10, "description": "x", "person": "Grace", "category": "Snacks", "date": "not-a-date"}`,
			field:   "date",
		},
		{
			name:    "garbage body",
			payload: `{{{`,
			field:   "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil, nil, nil, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if msg := errorMessage(t, rec); !strings.Contains(msg, tt.field) {
				t.Errorf("error = %q, want mention of %q", msg, tt.field)
			}
		})
	}
}

func TestListExpensesStoreFailure(t *testing.T) {
	lister := &fakeExpenseLister{err: errors.New("disk on fire")}
	srv := newTestServer(t, nil, lister, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if msg := errorMessage(t, rec); strings.Contains(msg, "disk") {
		t.Errorf("error %q leaks internal detail", msg)
	}
}

func TestGetBudgetBeforeFirstSave(t *testing.T) {
	srv := newTestServer(t, nil, nil, &fakeBudgetReader{budget: nil}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/budget", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

func TestSetBudget(t *testing.T) {
	writer := &fakeBudgetWriter{}
	srv := newTestServer(t, nil, nil, nil, writer, nil)

	payload := `{"annualBudget": 1200, "monthlyBudget": 100}`
	req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if writer.saved == nil || writer.saved.MonthlyBudget.Cents != 10000 {
		t.Errorf("saved = %+v, want monthly 10000 cents", writer.saved)
	}
}

func TestSetBudgetMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"missing annual", `{"monthlyBudget": 100}`, "annualBudget"},
		{"missing monthly", `{"annualBudget": 1200}`, "monthlyBudget"},
		{"negative monthly", `{"annualBudget": 1200, "monthlyBudget": -1}`, "monthlyBudget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil, nil, nil, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if msg := errorMessage(t, rec); !strings.Contains(msg, tt.field) {
				t.Errorf("error = %q, want mention of %q", msg, tt.field)
			}
		})
	}
}

func TestSummaryCaching(t *testing.T) {
	savings := core.Money{Cents: 5000}
	reader := &fakeSummaryReader{summary: core.Summary{
		Income:    core.Money{Cents: 10000},
		Expense:   core.Money{Cents: 5000},
		Savings:   &savings,
		BudgetSet: true,
	}}
	srv := newTestServer(t, nil, nil, nil, nil, reader)

	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	}

	if reader.calls != 1 {
		t.Errorf("Summarize called %d times, want 1 (second hit served from cache)", reader.calls)
	}

	// A write invalidates the cached summary.
	payload := `{"amount": 25, "description": "Diesel", "person": "Caleb", "category": "Fuel /Car Maintenance", "date": "2026-08-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", rec.Code, http.StatusCreated)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if reader.calls != 2 {
		t.Errorf("Summarize called %d times after write, want 2", reader.calls)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST included", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil, nil)

	for _, path := range []string{"/api/expenses", "/api/budget", "/api/summary"} {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusMethodNotAllowed)
		}
		if rec.Header().Get("Allow") == "" {
			t.Errorf("%s: missing Allow header", path)
		}
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil, nil)

	payload := `{"annualBudget": 1200, "monthlyBudget": 100}`
	var last *httptest.ResponseRecorder
	for range 61 {
		req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(payload))
		req.Header.Set("X-Real-IP", "203.0.113.7")
		last = httptest.NewRecorder()
		srv.Handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// Reads are never rate limited.
	req := httptest.NewRequest(http.MethodGet, "/api/budget", nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimitedRequestsAppearInAccessLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv := newTestServer(t, nil, nil, nil, nil, nil)

	payload := `{"annualBudget": 1200, "monthlyBudget": 100}`
	var last *httptest.ResponseRecorder
	for range 61 {
		req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(payload))
		req.Header.Set("X-Real-IP", "203.0.113.9")
		last = httptest.NewRecorder()
		srv.Handler.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}

	// The rejected request still gets its completion line.
	logged := buf.String()
	if !strings.Contains(logged, "Request completed") {
		t.Fatal("no completion line logged for rate-limited request")
	}
	if !strings.Contains(logged, "status=429") {
		t.Errorf("completion line does not carry status 429:\n%s", logged)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
