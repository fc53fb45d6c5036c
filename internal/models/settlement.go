package models

// Settlement payment methods.
var PaymentMethods = []string{"cash", "upi", "bank_transfer", "other"}

// Settlement represents a real-world payment between group members to clear
// debts. Creating one applies a ledger delta that reduces the payer's debt
// to the receiver; deleting it reverses that exact delta.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"groupId"`

	// PaidBy is the user who paid (debtor settling up).
	PaidBy string `json:"paidBy"`

	// PaidTo is the user who received the payment.
	PaidTo string `json:"paidTo"`

	// Amount is the payment amount, always positive.
	Amount float64 `json:"amount"`

	// Currency is an opaque code carried through unchanged.
	Currency string `json:"currency"`

	// Method is how the payment was made (cash, upi, bank_transfer, other).
	Method string `json:"method"`

	// Notes is an optional description.
	Notes string `json:"notes,omitempty"`

	// SettledAt is the Unix timestamp of the payment.
	SettledAt int64 `json:"settledAt"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
