package ledger

import (
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

// PayerInput is one payer's raw contribution before resolution.
type PayerInput struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// SinglePayer builds the payer list for an expense covered entirely by one
// person.
func SinglePayer(userID string, total float64) []models.PayerShare {
	return []models.PayerShare{{UserID: userID, Amount: total}}
}

// ResolvePayers validates multiple payer contributions against the expense
// total. Every contribution must be positive and the contributions must sum
// to the total within the money epsilon. Divergent input is rejected rather
// than auto-corrected into a slack entry; the caller fixes and resubmits.
func ResolvePayers(total float64, payers []PayerInput) ([]models.PayerShare, error) {
	if len(payers) == 0 {
		return nil, validationf("at least one payer is required")
	}

	shares := make([]models.PayerShare, len(payers))
	sum := 0.0
	for i, p := range payers {
		if p.Amount <= 0 {
			return nil, validationf("each payer must have a positive amount")
		}
		shares[i] = models.PayerShare{UserID: p.UserID, Amount: p.Amount}
		sum += p.Amount
	}

	if !money.Equal(sum, total) {
		return nil, validationf("paid amounts do not sum to total: got %.2f, want %.2f", sum, total)
	}
	return shares, nil
}
