package ledger

import (
	"sort"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

// Transfer is one payment in a settlement plan: From pays To the Amount.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type position struct {
	userID string
	amount float64
}

// NetPositions folds every balance entry of a group into one signed total
// per user: positive means the user is owed money overall, negative means
// they owe. Folding is duplicate-tolerant, so it works on both canonical and
// unconsolidated entry sets.
func NetPositions(entries []*models.BalanceEntry) map[string]float64 {
	net := make(map[string]float64)
	for _, e := range entries {
		// UserA owes UserB when Amount is positive.
		net[e.UserA] -= e.Amount
		net[e.UserB] += e.Amount
	}
	return net
}

// Simplify reduces a group's balance entries to a short list of payments
// using greedy largest-first matching: the biggest remaining creditor is
// repeatedly matched against the biggest remaining debtor. The result
// conserves every user's net position and has at most creditors+debtors-1
// transfers.
//
// Greedy largest-first is a heuristic, not a proven-minimal solution (the
// exact minimum-transaction partition is NP-hard); it is the standard
// compromise for this problem since money is fungible and any creditor can
// be paid by any debtor. Both partitions are sorted descending by amount
// with the user ID as tie-break, so repeated runs over the same ledger
// state produce identical plans.
func Simplify(entries []*models.BalanceEntry) []Transfer {
	net := NetPositions(entries)

	var creditors, debtors []position
	for userID, amount := range net {
		switch {
		case amount > money.Epsilon:
			creditors = append(creditors, position{userID, amount})
		case amount < -money.Epsilon:
			debtors = append(debtors, position{userID, -amount})
		}
	}

	byAmountDesc := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].userID < ps[j].userID
		}
	}
	sort.Slice(creditors, byAmountDesc(creditors))
	sort.Slice(debtors, byAmountDesc(debtors))

	var plan []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		credit := &creditors[i]
		debt := &debtors[j]

		settle := credit.amount
		if debt.amount < settle {
			settle = debt.amount
		}

		if settle > money.Epsilon {
			plan = append(plan, Transfer{
				From:   debt.userID,
				To:     credit.userID,
				Amount: money.Round(settle),
			})
		}

		credit.amount -= settle
		debt.amount -= settle

		if credit.amount < money.Epsilon {
			i++
		}
		if debt.amount < money.Epsilon {
			j++
		}
	}
	return plan
}

// Consolidate folds a possibly-duplicated set of balance entries for one
// group into canonical singleton entries: one per pair, pair in canonical
// order, folded net as the amount. Entries whose folded magnitude is within
// the money epsilon are dropped. The operation is idempotent; running it on
// an already-canonical set returns the same entries.
func Consolidate(groupID string, entries []*models.BalanceEntry) []*models.BalanceEntry {
	type pairKey struct{ a, b string }
	folded := make(map[pairKey]float64)
	var order []pairKey

	for _, e := range entries {
		a, b, signed := CanonicalPair(e.UserA, e.UserB, e.Amount)
		k := pairKey{a, b}
		if _, seen := folded[k]; !seen {
			order = append(order, k)
		}
		folded[k] += signed
	}

	// Deterministic output order for stable storage rewrites and tests.
	sort.Slice(order, func(i, j int) bool {
		if order[i].a != order[j].a {
			return order[i].a < order[j].a
		}
		return order[i].b < order[j].b
	})

	var out []*models.BalanceEntry
	for _, k := range order {
		net := folded[k]
		if money.IsZero(net) {
			continue
		}
		out = append(out, &models.BalanceEntry{
			GroupID: groupID,
			UserA:   k.a,
			UserB:   k.b,
			Amount:  net,
		})
	}
	return out
}
