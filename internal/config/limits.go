package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	MaxProjectNameLength = 100

	// MaxAssigneeLength is the maximum length for the assignedTo field.
	MaxAssigneeLength = 100

	// MaxBudget is the largest accepted project budget.
	MaxBudget = 999_999_999

	// MaxBudgetDigits is the number of integer digits in MaxBudget.
	MaxBudgetDigits = 9

	// MaxBudgetScale is the most decimal places a budget may carry.
	MaxBudgetScale = 18

	// MaxProgress is the upper bound of the progress percentage.
	MaxProgress = 100

	// MaxSearchLength bounds the list search term.
	MaxSearchLength = 100
)
