package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"homeledger/internal/core"
)

// InsertExpense validates and persists a new expense, returning the
// stored record with its assigned id. Validation happens here so no
// caller can slip an invalid record into the collection.
func (s *Store) InsertExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, description, person, category, spent_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Amount.Cents, e.Description, e.Person, e.Category,
		e.Date.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"person", e.Person,
		"category", e.Category)

	return e, nil
}

// ListExpenses returns every expense, newest first. The order is stable
// for a given store state; callers must not assume anything stronger.
func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount_cents, description, person, category, spent_at
		 FROM expenses
		 ORDER BY spent_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// GetExpense loads a single expense by id, for the export worker.
func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, description, person, category, spent_at
		 FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		spentAt string
	)
	if err := row.Scan(&e.ID, &e.Amount.Cents, &e.Description, &e.Person, &e.Category, &spentAt); err != nil {
		if err == sql.ErrNoRows {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, spentAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse spent_at %q: %w", spentAt, err)
	}
	e.Date = t
	return e, nil
}
