package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds routed through the export queue.
const (
	KindExpenseCreated = "expense.created"
	KindBudgetUpdated  = "budget.updated"
)

// ExpenseCreatedMessage carries only the record id; the worker loads
// the full expense from the store so the queue never holds stale data.
type ExpenseCreatedMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseCreatedMessage(id int64) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		Kind:      KindExpenseCreated,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// BudgetUpdatedMessage carries the new ceiling values; the budget is a
// singleton so there is no id to look up.
type BudgetUpdatedMessage struct {
	Kind         string    `json:"kind"`
	AnnualCents  int64     `json:"annualCents"`
	MonthlyCents int64     `json:"monthlyCents"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewBudgetUpdatedMessage(annualCents, monthlyCents int64) *BudgetUpdatedMessage {
	return &BudgetUpdatedMessage{
		Kind:         KindBudgetUpdated,
		AnnualCents:  annualCents,
		MonthlyCents: monthlyCents,
		Timestamp:    time.Now(),
	}
}

// envelope is the minimal shape needed to dispatch on kind.
type envelope struct {
	Kind string `json:"kind"`
}

func peekKind(body []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", err
	}
	return env.Kind, nil
}
