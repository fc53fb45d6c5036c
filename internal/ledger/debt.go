package ledger

import (
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

// DebtDelta is a signed adjustment to apply to the balance ledger: the
// debtor owes the creditor Amount more than before. Deltas are computed once
// at expense creation and reversed (negated, same pairs) at deletion.
type DebtDelta struct {
	Debtor   string
	Creditor string
	Amount   float64
}

// ProjectDebts distributes each participant's owed share proportionally
// across all payers by their contribution share. A participant who owes 40
// on a 100 expense paid 70/30 by two payers owes 28 to the first and 12 to
// the second. Self-debt (participant == payer) is skipped, and deltas at or
// below the money epsilon are not emitted.
func ProjectDebts(payers []models.PayerShare, splits []models.Split, total float64) []DebtDelta {
	var deltas []DebtDelta
	for _, s := range splits {
		for _, p := range payers {
			if s.UserID == p.UserID {
				continue
			}
			owed := money.Round(s.Amount * (p.Amount / total))
			if owed > money.Epsilon {
				deltas = append(deltas, DebtDelta{
					Debtor:   s.UserID,
					Creditor: p.UserID,
					Amount:   owed,
				})
			}
		}
	}
	return deltas
}

// Negate returns the exact reversal of the given deltas: same pairs,
// negated amounts.
func Negate(deltas []DebtDelta) []DebtDelta {
	out := make([]DebtDelta, len(deltas))
	for i, d := range deltas {
		out[i] = DebtDelta{Debtor: d.Debtor, Creditor: d.Creditor, Amount: -d.Amount}
	}
	return out
}

// CanonicalPair orders two user IDs into the canonical storage order
// (lexicographically smaller first) and adjusts the signed amount so that a
// positive result always means the first user owes the second.
func CanonicalPair(debtor, creditor string, amount float64) (userA, userB string, signed float64) {
	if debtor < creditor {
		return debtor, creditor, amount
	}
	return creditor, debtor, -amount
}
