// Package google implements the spreadsheet mirror on the Google
// Sheets API. Credentials come from the environment: a service account
// JSON, or an OAuth client plus a token minted by cmd/oauth-init.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"homeledger/internal/core"
	ports "homeledger/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	budgetSheet   string
}

var (
	_ ports.RowAppender  = (*Client)(nil)
	_ ports.BudgetWriter = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Sheet names: GOOGLE_SHEET_NAME
// (default "Ledger") and GOOGLE_BUDGET_SHEET_NAME (default "Budget").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	ledger := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if ledger == "" {
		ledger = "Ledger"
	}
	budget := strings.TrimSpace(os.Getenv("GOOGLE_BUDGET_SHEET_NAME"))
	if budget == "" {
		budget = "Budget"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledger,
		budgetSheet:   budget,
	}, nil
}

// newSheetsService prefers service account credentials and falls back
// to an OAuth client + stored token.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if creds, err := serviceAccountJSON(); err != nil {
		return nil, err
	} else if creds != nil {
		return gsheet.NewService(ctx,
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	}

	ts, err := oauthTokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return gsheet.NewService(ctx, goption.WithTokenSource(ts))
}

func serviceAccountJSON() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, nil
	}
	creds, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return creds, nil
}

func oauthTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))
	if clientFile == "" || tokenFile == "" {
		return nil, errors.New("missing credentials: set GOOGLE_SERVICE_ACCOUNT_JSON/FILE or GOOGLE_OAUTH_CLIENT_FILE + GOOGLE_OAUTH_TOKEN_FILE")
	}

	clientJSON, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}
	cfg, err := oauthgoogle.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}

	tokenJSON, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	return cfg.TokenSource(ctx, &tok), nil
}

// AppendExpense appends one ledger row: date, person, category,
// description, amount.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{
		e.Date.Format("2006-01-02"),
		e.Person,
		e.Category,
		e.Description,
		e.Amount.Decimal(),
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	rng := fmt.Sprintf("%s!A:E", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append ledger row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Expense mirrored to sheet",
		"id", e.ID,
		"range", ref,
		"sheet", c.ledgerSheet)
	return ref, nil
}

// WriteBudget overwrites the budget cells (annual in B1, monthly in B2).
func (c *Client) WriteBudget(ctx context.Context, b core.Budget) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{
		{"Annual", b.AnnualBudget.Decimal()},
		{"Monthly", b.MonthlyBudget.Decimal()},
	}}

	rng := fmt.Sprintf("%s!A1:B2", c.budgetSheet)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write budget cells: %w", err)
	}

	slog.InfoContext(ctx, "Budget mirrored to sheet",
		"sheet", c.budgetSheet,
		"updated_at", time.Now().Format(time.RFC3339))
	return nil
}
