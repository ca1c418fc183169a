package core

// ValidationError reports a caller-supplied field that is missing or
// violates a constraint. The API gateway surfaces it as a 4xx with the
// field named; everything else becomes a generic 5xx.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

var (
	ErrAmountRequired      = &ValidationError{Field: "amount", Reason: "is required and must be positive"}
	ErrAmountInvalid       = &ValidationError{Field: "amount", Reason: "is not a valid amount"}
	ErrDescriptionRequired = &ValidationError{Field: "description", Reason: "is required"}
	ErrPersonRequired      = &ValidationError{Field: "person", Reason: "is required"}
	ErrPersonUnknown       = &ValidationError{Field: "person", Reason: "is not a household member"}
	ErrCategoryRequired    = &ValidationError{Field: "category", Reason: "is required"}
	ErrCategoryUnknown     = &ValidationError{Field: "category", Reason: "is not a spending category"}
	ErrDateRequired        = &ValidationError{Field: "date", Reason: "is required"}

	ErrAnnualBudgetRequired  = &ValidationError{Field: "annualBudget", Reason: "is required"}
	ErrAnnualBudgetNegative  = &ValidationError{Field: "annualBudget", Reason: "must be non-negative"}
	ErrMonthlyBudgetRequired = &ValidationError{Field: "monthlyBudget", Reason: "is required"}
	ErrMonthlyBudgetNegative = &ValidationError{Field: "monthlyBudget", Reason: "must be non-negative"}
)
