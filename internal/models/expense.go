package models

// Split kinds supported by the split resolver.
const (
	SplitEqual      = "equal"
	SplitExact      = "exact"
	SplitPercentage = "percentage"
)

// Expense categories. Free-form values are rejected at the API boundary.
var Categories = []string{
	"food", "transport", "accommodation", "entertainment",
	"shopping", "utilities", "other",
}

// PayerShare records how much one payer actually paid toward an expense.
// The shares of an expense always sum to its total amount.
type PayerShare struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// Split is one participant's resolved owed share of an expense.
type Split struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`

	// Percentage is set only for percentage splits.
	Percentage float64 `json:"percentage,omitempty"`
}

// Expense is a shared cost recorded against a group. Its Payers and Splits
// are resolved and validated at creation time and are immutable afterwards:
// changing the financial shape of an expense requires delete and recreate so
// that the ledger deltas it produced can be reversed exactly.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// Description of the expense.
	Description string `json:"description"`

	// Amount is the total expense amount, always positive.
	Amount float64 `json:"amount"`

	// Currency is an opaque code carried through unchanged.
	Currency string `json:"currency"`

	// Payers is who actually paid and how much each. Always non-empty;
	// a single-payer expense has one share covering the full amount.
	Payers []PayerShare `json:"payers"`

	// SplitType is one of equal, exact, percentage.
	SplitType string `json:"splitType"`

	// Splits is who owes what, one entry per sharing participant.
	Splits []Split `json:"splits"`

	// Category of the expense.
	Category string `json:"category"`

	// ExpenseDate is the Unix timestamp of when the expense happened.
	ExpenseDate int64 `json:"expenseDate"`

	// Notes is optional free-form text.
	Notes string `json:"notes,omitempty"`

	// CreatedBy is the user ID that recorded the expense.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// ValidCategory reports whether c is a known expense category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
