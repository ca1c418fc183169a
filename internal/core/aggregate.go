package core

// Summary is the derived view of the current expense and budget state.
// It is computed on demand and never stored.
type Summary struct {
	Income       Money   `json:"income"`
	Expense      Money   `json:"expense"`
	Savings      *Money  `json:"savings"`
	BudgetSet    bool    `json:"budgetSet"`
	MostSpending Expense `json:"mostSpending"`
	Overspending bool    `json:"overspending"`
}

// TotalExpense sums the amounts of all expenses.
func TotalExpense(expenses []Expense) Money {
	var total int64
	for _, e := range expenses {
		total += e.Amount.Cents
	}
	return Money{Cents: total}
}

// MostSpending returns the expense with the largest amount. Ties go to
// the earliest expense in input order. An empty list yields the "N/A"
// placeholder with a zero amount.
func MostSpending(expenses []Expense) Expense {
	if len(expenses) == 0 {
		return Expense{Category: "N/A"}
	}
	max := expenses[0]
	for _, e := range expenses[1:] {
		if e.Amount.Cents > max.Amount.Cents {
			max = e
		}
	}
	return max
}

// Savings is the monthly budget minus total spend. The second return
// is false when no budget has ever been set; "no budget yet" is a
// distinct state from a zero budget and callers must not fold the two.
func Savings(budget *Budget, expenses []Expense) (Money, bool) {
	if budget == nil {
		return Money{}, false
	}
	return Money{Cents: budget.MonthlyBudget.Cents - TotalExpense(expenses).Cents}, true
}

// IsOverspending reports whether total spend exceeds the monthly
// budget. Spending exactly the budget is not overspending.
func IsOverspending(total, monthlyBudget Money) bool {
	return total.Cents > monthlyBudget.Cents
}

// Summarize computes the full derived view in one pass so every
// consumer observes identical numbers.
func Summarize(budget *Budget, expenses []Expense) Summary {
	total := TotalExpense(expenses)
	s := Summary{
		Expense:      total,
		MostSpending: MostSpending(expenses),
	}
	if budget != nil {
		s.BudgetSet = true
		s.Income = budget.MonthlyBudget
		savings := Money{Cents: budget.MonthlyBudget.Cents - total.Cents}
		s.Savings = &savings
		s.Overspending = IsOverspending(total, budget.MonthlyBudget)
	}
	return s
}
