package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
	"github.com/splitledger/splitledger/internal/storage"
)

// SettlementService records real-world payments between members and applies
// them to the balance ledger.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// CreateSettlementInput is the raw request to record a settlement.
type CreateSettlementInput struct {
	GroupID   string  `json:"groupId"`
	PaidBy    string  `json:"paidBy"`
	PaidTo    string  `json:"paidTo"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
	Method    string  `json:"method,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	SettledAt int64   `json:"settledAt,omitempty"`
}

// UserSettlements partitions a user's settlements into payments made and
// received, with totals.
type UserSettlements struct {
	Paid          []*models.Settlement `json:"paid"`
	Received      []*models.Settlement `json:"received"`
	TotalPaid     float64              `json:"totalPaid"`
	TotalReceived float64              `json:"totalReceived"`
}

// Create records a settlement and reduces the payer's debt to the receiver
// by the settled amount.
func (s *SettlementService) Create(ctx context.Context, input CreateSettlementInput) (*models.Settlement, error) {
	if input.Amount <= 0 {
		return nil, &ledger.ValidationError{Message: "settlement amount must be positive"}
	}
	if input.Method != "" && !models.ValidPaymentMethod(input.Method) {
		return nil, &ledger.ValidationError{Message: fmt.Sprintf("invalid payment method %q", input.Method)}
	}

	group, err := getGroup(ctx, s.store, input.GroupID)
	if err != nil {
		return nil, err
	}
	payer, err := resolveParticipant(ctx, s.store, input.PaidBy)
	if err != nil {
		return nil, err
	}
	receiver, err := resolveParticipant(ctx, s.store, input.PaidTo)
	if err != nil {
		return nil, err
	}
	if payer.ID == receiver.ID {
		return nil, &ledger.ValidationError{Message: "payer and receiver must be different users"}
	}
	if !group.HasMember(payer.ID) || !group.HasMember(receiver.ID) {
		return nil, &ledger.ValidationError{Message: "both parties must be members of the group"}
	}

	settlement := &models.Settlement{
		GroupID:   group.ID,
		PaidBy:    payer.ID,
		PaidTo:    receiver.ID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Method:    input.Method,
		Notes:     input.Notes,
		SettledAt: input.SettledAt,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", group.ID, "error", err)
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	// Paying down a debt is a negative delta on the payer->receiver pair.
	if _, err := s.store.ApplyDelta(ctx, group.ID, payer.ID, receiver.ID, -settlement.Amount); err != nil {
		return nil, fmt.Errorf("failed to apply settlement delta: %w", err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", group.ID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// Get retrieves a settlement by ID.
func (s *SettlementService) Get(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	if settlement == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrSettlementNotFound, settlementID)
	}
	return settlement, nil
}

// ListByGroup retrieves a group's settlements, newest first.
func (s *SettlementService) ListByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// ListByUser retrieves the user's settlements across groups, partitioned
// into paid and received.
func (s *SettlementService) ListByUser(ctx context.Context, userID string) (*UserSettlements, error) {
	user, err := resolveParticipant(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	result := &UserSettlements{
		Paid:     []*models.Settlement{},
		Received: []*models.Settlement{},
	}
	for _, st := range settlements {
		if st.PaidBy == user.ID {
			result.Paid = append(result.Paid, st)
			result.TotalPaid += st.Amount
		} else {
			result.Received = append(result.Received, st)
			result.TotalReceived += st.Amount
		}
	}
	result.TotalPaid = money.Round(result.TotalPaid)
	result.TotalReceived = money.Round(result.TotalReceived)
	return result, nil
}

// Delete removes a settlement and restores the debt it had cleared.
func (s *SettlementService) Delete(ctx context.Context, settlementID string) error {
	settlement, err := s.Get(ctx, settlementID)
	if err != nil {
		return err
	}

	if _, err := s.store.ApplyDelta(ctx, settlement.GroupID, settlement.PaidBy, settlement.PaidTo, settlement.Amount); err != nil {
		return fmt.Errorf("failed to reverse settlement delta: %w", err)
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	slog.Info("Settlement deleted", "settlement_id", settlementID, "group_id", settlement.GroupID)
	return nil
}
