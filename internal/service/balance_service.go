package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/money"
	"github.com/splitledger/splitledger/internal/storage"
)

// BalanceService exposes read views over the balance ledger and the
// simplify and consolidate maintenance operations.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage
// backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// Debt is one outstanding debt oriented from debtor to creditor.
type Debt struct {
	GroupID string  `json:"groupId"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Amount  float64 `json:"amount"`
}

// UserBalances is a user's position across all groups: the debts they owe,
// the debts owed to them, and the rounded totals.
type UserBalances struct {
	YouOwe      []Debt  `json:"youOwe"`
	YouAreOwed  []Debt  `json:"youAreOwed"`
	TotalOwed   float64 `json:"totalOwed"`
	TotalOwedTo float64 `json:"totalOwedTo"`
	NetBalance  float64 `json:"netBalance"`
}

// ConsolidateResult reports the entry counts before and after folding a
// group's ledger.
type ConsolidateResult struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// GetUserBalances returns the user's outstanding debts across every group.
func (s *BalanceService) GetUserBalances(ctx context.Context, userID string) (*UserBalances, error) {
	user, err := resolveParticipant(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListBalancesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	result := &UserBalances{
		YouOwe:     []Debt{},
		YouAreOwed: []Debt{},
	}
	for _, e := range entries {
		debt := orient(e.GroupID, e.UserA, e.UserB, e.Amount)
		if debt.Amount == 0 {
			continue
		}
		if debt.From == user.ID {
			result.YouOwe = append(result.YouOwe, debt)
			result.TotalOwed += debt.Amount
		} else {
			result.YouAreOwed = append(result.YouAreOwed, debt)
			result.TotalOwedTo += debt.Amount
		}
	}
	result.TotalOwed = money.Round(result.TotalOwed)
	result.TotalOwedTo = money.Round(result.TotalOwedTo)
	result.NetBalance = money.Round(result.TotalOwedTo - result.TotalOwed)
	return result, nil
}

// GetGroupBalances returns a group's outstanding debts oriented from debtor
// to creditor. Duplicate entries for one canonical pair violate the ledger's
// dedup invariant and are reported as a consistency error rather than
// silently merged.
func (s *BalanceService) GetGroupBalances(ctx context.Context, groupID string) ([]Debt, error) {
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListBalancesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	debts := []Debt{}
	for _, e := range entries {
		key := e.UserA + "|" + e.UserB
		if seen[key] {
			err := &ledger.ConsistencyError{
				GroupID: groupID,
				Detail:  fmt.Sprintf("duplicate balance entries for pair %s/%s", e.UserA, e.UserB),
			}
			slog.Error("Ledger inconsistency detected", "group_id", groupID, "error", err)
			return nil, err
		}
		seen[key] = true

		debt := orient(e.GroupID, e.UserA, e.UserB, e.Amount)
		if debt.Amount == 0 {
			continue
		}
		debts = append(debts, debt)
	}
	return debts, nil
}

// GetGroupUserView returns one member's position within a single group: the
// debts they owe and are owed there, with totals.
func (s *BalanceService) GetGroupUserView(ctx context.Context, groupID, userID string) (*UserBalances, error) {
	user, err := resolveParticipant(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	debts, err := s.GetGroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	result := &UserBalances{
		YouOwe:     []Debt{},
		YouAreOwed: []Debt{},
	}
	for _, d := range debts {
		switch user.ID {
		case d.From:
			result.YouOwe = append(result.YouOwe, d)
			result.TotalOwed += d.Amount
		case d.To:
			result.YouAreOwed = append(result.YouAreOwed, d)
			result.TotalOwedTo += d.Amount
		}
	}
	result.TotalOwed = money.Round(result.TotalOwed)
	result.TotalOwedTo = money.Round(result.TotalOwedTo)
	result.NetBalance = money.Round(result.TotalOwedTo - result.TotalOwed)
	return result, nil
}

// Simplify computes a minimal transfer plan that clears the group's debts.
// The plan is advisory: it does not modify the ledger. Executing a transfer
// from the plan is recording a settlement.
func (s *BalanceService) Simplify(ctx context.Context, groupID string) ([]ledger.Transfer, error) {
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListBalancesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	transfers := ledger.Simplify(entries)
	slog.Info("Simplified group ledger",
		"group_id", groupID,
		"entries", len(entries),
		"transfers", len(transfers),
	)
	return transfers, nil
}

// Consolidate folds a group's ledger into one canonical entry per user pair,
// dropping near-zero nets, and rewrites the stored entries. Running it on an
// already-consistent ledger is a no-op.
func (s *BalanceService) Consolidate(ctx context.Context, groupID string) (*ConsolidateResult, error) {
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListBalancesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	folded := ledger.Consolidate(groupID, entries)
	if err := s.store.ReplaceGroupBalances(ctx, groupID, folded); err != nil {
		return nil, fmt.Errorf("failed to replace balances: %w", err)
	}

	slog.Info("Consolidated group ledger",
		"group_id", groupID,
		"before", len(entries),
		"after", len(folded),
	)
	return &ConsolidateResult{Before: len(entries), After: len(folded)}, nil
}

// orient turns a canonical signed entry into a debtor->creditor debt.
// Positive means userA owes userB.
func orient(groupID, userA, userB string, amount float64) Debt {
	if money.IsZero(amount) {
		return Debt{}
	}
	if amount > 0 {
		return Debt{GroupID: groupID, From: userA, To: userB, Amount: money.Round(amount)}
	}
	return Debt{GroupID: groupID, From: userB, To: userA, Amount: money.Round(-amount)}
}
