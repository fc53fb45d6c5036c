// Package ledger implements the pure algorithms of the expense ledger:
// resolving split rules and payer contributions into validated shares,
// projecting those shares into pairwise debt deltas, and reducing a group's
// net balances to a minimal settlement plan. The package holds no state and
// performs no I/O; persistence and participant lookup are collaborators of
// the service layer.
package ledger

import (
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

// SplitInput is one participant's raw split entry before resolution.
// Amount is required for exact splits, Percentage for percentage splits;
// equal splits need neither.
type SplitInput struct {
	UserID     string   `json:"userId"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// ResolveSplits turns a split rule into validated per-participant owed
// amounts.
//
//   - equal: each share is total/count rounded to two decimals, with the
//     sub-cent remainder absorbed by the first participant so the shares sum
//     to the total exactly.
//   - exact: each participant supplies an amount; the raw sum must equal the
//     total within the money epsilon.
//   - percentage: each participant supplies a percentage; amounts are rounded
//     per share, but validation checks the raw percentages against 100, not
//     the rounded amounts.
func ResolveSplits(total float64, splitType string, entries []SplitInput) ([]models.Split, error) {
	if len(entries) == 0 {
		return nil, validationf("at least one split participant is required")
	}

	switch splitType {
	case models.SplitEqual:
		return resolveEqual(total, entries), nil
	case models.SplitExact:
		return resolveExact(total, entries)
	case models.SplitPercentage:
		return resolvePercentage(total, entries)
	default:
		return nil, validationf("invalid split type %q: must be 'equal', 'exact', or 'percentage'", splitType)
	}
}

func resolveEqual(total float64, entries []SplitInput) []models.Split {
	n := len(entries)
	share := money.Round(total / float64(n))

	splits := make([]models.Split, n)
	for i, e := range entries {
		splits[i] = models.Split{UserID: e.UserID, Amount: share}
	}
	// The first participant absorbs the rounding remainder so the shares
	// sum to the total exactly.
	splits[0].Amount = money.Round(total - share*float64(n-1))
	return splits
}

func resolveExact(total float64, entries []SplitInput) ([]models.Split, error) {
	splits := make([]models.Split, len(entries))
	sum := 0.0
	for i, e := range entries {
		if e.Amount == nil {
			return nil, validationf("exact split requires an amount for each participant")
		}
		if *e.Amount < 0 {
			return nil, validationf("split amounts cannot be negative")
		}
		splits[i] = models.Split{UserID: e.UserID, Amount: *e.Amount}
		sum += *e.Amount
	}

	if !money.Equal(sum, total) {
		return nil, validationf("splits do not sum to total: got %.2f, want %.2f", sum, total)
	}
	return splits, nil
}

func resolvePercentage(total float64, entries []SplitInput) ([]models.Split, error) {
	splits := make([]models.Split, len(entries))
	sum := 0.0
	for i, e := range entries {
		if e.Percentage == nil {
			return nil, validationf("percentage split requires a percentage for each participant")
		}
		p := *e.Percentage
		if p < 0 || p > 100 {
			return nil, validationf("percentage must be between 0 and 100")
		}
		splits[i] = models.Split{
			UserID:     e.UserID,
			Amount:     money.Round(total * p / 100),
			Percentage: p,
		}
		sum += p
	}

	// Validate the raw percentages, not the rounded amounts: per-share
	// rounding may legitimately drift within the epsilon.
	if !money.Equal(sum, 100) {
		return nil, validationf("percentages do not sum to 100: got %.2f", sum)
	}
	return splits, nil
}
