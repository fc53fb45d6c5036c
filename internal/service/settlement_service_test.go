package service

import (
	"context"
	"testing"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
)

func TestSettlementService(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := syncUser(t, store, "amy")
	b := syncUser(t, store, "ben")
	group := createGroup(t, store, "Pair", a, b)

	expenses := NewExpenseService(store)
	settlements := NewSettlementService(store)

	// Ben owes Amy 50 after the expense.
	_, err := expenses.Create(ctx, CreateExpenseInput{
		GroupID: group.ID, Description: "Rent", Amount: 100.0,
		PaidBy: a.ID, SplitType: models.SplitEqual,
		Splits:    []ledger.SplitInput{{UserID: a.ID}, {UserID: b.ID}},
		CreatedBy: a.ID,
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	t.Run("partial settlement reduces the debt", func(t *testing.T) {
		settlement, err := settlements.Create(ctx, CreateSettlementInput{
			GroupID: group.ID,
			PaidBy:  b.ID,
			PaidTo:  a.ID,
			Amount:  20.0,
			Method:  "upi",
		})
		if err != nil {
			t.Fatalf("Create settlement failed: %v", err)
		}
		if settlement.ID == "" {
			t.Error("expected settlement ID to be generated")
		}

		assertDebt(t, store, group.ID, b.ID, a.ID, 30.0)
	})

	t.Run("deleting a settlement restores the debt", func(t *testing.T) {
		settlement, err := settlements.Create(ctx, CreateSettlementInput{
			GroupID: group.ID, PaidBy: b.ID, PaidTo: a.ID, Amount: 10.0,
		})
		if err != nil {
			t.Fatalf("Create settlement failed: %v", err)
		}
		assertDebt(t, store, group.ID, b.ID, a.ID, 20.0)

		if err := settlements.Delete(ctx, settlement.ID); err != nil {
			t.Fatalf("Delete settlement failed: %v", err)
		}
		assertDebt(t, store, group.ID, b.ID, a.ID, 30.0)

		if _, err := settlements.Get(ctx, settlement.ID); err == nil {
			t.Error("expected error getting deleted settlement")
		}
	})

	t.Run("full settlement clears the entry", func(t *testing.T) {
		_, err := settlements.Create(ctx, CreateSettlementInput{
			GroupID: group.ID, PaidBy: b.ID, PaidTo: a.ID, Amount: 30.0,
		})
		if err != nil {
			t.Fatalf("Create settlement failed: %v", err)
		}

		entries, _ := store.ListBalancesByGroup(ctx, group.ID)
		if len(entries) != 0 {
			t.Errorf("expected empty ledger after full settlement, got %d entries", len(entries))
		}
	})

	t.Run("user settlements partition paid and received", func(t *testing.T) {
		result, err := settlements.ListByUser(ctx, b.ID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(result.Paid) != 2 {
			t.Errorf("expected 2 paid settlements, got %d", len(result.Paid))
		}
		if len(result.Received) != 0 {
			t.Errorf("expected 0 received settlements, got %d", len(result.Received))
		}
		if result.TotalPaid != 50.0 {
			t.Errorf("TotalPaid = %.2f, want 50.00", result.TotalPaid)
		}

		fromAmy, err := settlements.ListByUser(ctx, a.ID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if fromAmy.TotalReceived != 50.0 {
			t.Errorf("TotalReceived = %.2f, want 50.00", fromAmy.TotalReceived)
		}
	})

	t.Run("validation rejects bad input", func(t *testing.T) {
		_, err := settlements.Create(ctx, CreateSettlementInput{
			GroupID: group.ID, PaidBy: b.ID, PaidTo: a.ID, Amount: -5.0,
		})
		if !ledger.IsValidation(err) {
			t.Errorf("expected validation error for negative amount, got %v", err)
		}

		_, err = settlements.Create(ctx, CreateSettlementInput{
			GroupID: group.ID, PaidBy: b.ID, PaidTo: b.ID, Amount: 5.0,
		})
		if !ledger.IsValidation(err) {
			t.Errorf("expected validation error for self-payment, got %v", err)
		}

		_, err = settlements.Create(ctx, CreateSettlementInput{
			GroupID: group.ID, PaidBy: b.ID, PaidTo: a.ID, Amount: 5.0, Method: "gold bars",
		})
		if !ledger.IsValidation(err) {
			t.Errorf("expected validation error for unknown method, got %v", err)
		}
	})
}
