package core

import (
	"strings"
	"time"
)

// People is the fixed set of household members an expense can belong to.
var People = []string{"Ekpenyong", "Grace", "Essien", "Caleb", "Alexis", "Shaun"}

// Categories is the fixed set of spending categories.
var Categories = []string{
	"Travels/Transportation",
	"School",
	"Utilities",
	"Financial Support",
	"Rent",
	"Fuel /Car Maintenance",
	"Entertainment",
	"Snacks",
	"Others",
}

type (
	// Expense is a single recorded spend event. The ID is assigned by
	// the store at creation and never changes; expenses are never
	// updated or deleted afterwards.
	Expense struct {
		ID          int64     `json:"id"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Person      string    `json:"person"`
		Category    string    `json:"category"`
		Date        time.Time `json:"date"`
	}

	// Budget is the household's current spending ceiling. Exactly one
	// budget exists at a time; saving a new one overwrites the old.
	Budget struct {
		AnnualBudget  Money `json:"annualBudget"`
		MonthlyBudget Money `json:"monthlyBudget"`
	}
)

func (e Expense) Validate() error {
	if e.Amount.Cents <= 0 {
		return ErrAmountRequired
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrDescriptionRequired
	}
	switch {
	case strings.TrimSpace(e.Person) == "":
		return ErrPersonRequired
	case !contains(People, e.Person):
		return ErrPersonUnknown
	}
	switch {
	case strings.TrimSpace(e.Category) == "":
		return ErrCategoryRequired
	case !contains(Categories, e.Category):
		return ErrCategoryUnknown
	}
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}

func (b Budget) Validate() error {
	if b.AnnualBudget.Cents < 0 {
		return ErrAnnualBudgetNegative
	}
	if b.MonthlyBudget.Cents < 0 {
		return ErrMonthlyBudgetNegative
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
