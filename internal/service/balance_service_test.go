package service

import (
	"context"
	"math"
	"testing"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

func TestBalanceServiceUserBalances(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := syncUser(t, store, "amy")
	b := syncUser(t, store, "ben")
	c := syncUser(t, store, "cara")
	roommates := createGroup(t, store, "Roommates", a, b)
	trip := createGroup(t, store, "Trip", b, c)

	expenses := NewExpenseService(store)

	// Ben owes Amy 25 in one group and is owed 15 by Cara in another.
	_, err := expenses.Create(ctx, CreateExpenseInput{
		GroupID: roommates.ID, Description: "Utilities", Amount: 50.0,
		PaidBy: a.ID, SplitType: models.SplitEqual,
		Splits:    []ledger.SplitInput{{UserID: a.ID}, {UserID: b.ID}},
		CreatedBy: a.ID,
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}
	_, err = expenses.Create(ctx, CreateExpenseInput{
		GroupID: trip.ID, Description: "Fuel", Amount: 30.0,
		PaidBy: b.ID, SplitType: models.SplitEqual,
		Splits:    []ledger.SplitInput{{UserID: b.ID}, {UserID: c.ID}},
		CreatedBy: b.ID,
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	balances := NewBalanceService(store)
	result, err := balances.GetUserBalances(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}

	if len(result.YouOwe) != 1 || result.YouOwe[0].To != a.ID {
		t.Errorf("YouOwe = %+v, want one debt to %s", result.YouOwe, a.ID)
	}
	if len(result.YouAreOwed) != 1 || result.YouAreOwed[0].From != c.ID {
		t.Errorf("YouAreOwed = %+v, want one debt from %s", result.YouAreOwed, c.ID)
	}
	if math.Abs(result.TotalOwed-25.0) > money.Epsilon {
		t.Errorf("TotalOwed = %.2f, want 25.00", result.TotalOwed)
	}
	if math.Abs(result.TotalOwedTo-15.0) > money.Epsilon {
		t.Errorf("TotalOwedTo = %.2f, want 15.00", result.TotalOwedTo)
	}
	if math.Abs(result.NetBalance-(-10.0)) > money.Epsilon {
		t.Errorf("NetBalance = %.2f, want -10.00", result.NetBalance)
	}
}

func TestBalanceServiceGroupBalances(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := syncUser(t, store, "amy")
	b := syncUser(t, store, "ben")
	group := createGroup(t, store, "Pair", a, b)

	balances := NewBalanceService(store)

	t.Run("empty group has no debts", func(t *testing.T) {
		debts, err := balances.GetGroupBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		if len(debts) != 0 {
			t.Errorf("expected no debts, got %d", len(debts))
		}
	})

	t.Run("debts are oriented debtor to creditor", func(t *testing.T) {
		if _, err := store.ApplyDelta(ctx, group.ID, b.ID, a.ID, 40.0); err != nil {
			t.Fatalf("ApplyDelta failed: %v", err)
		}

		debts, err := balances.GetGroupBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		if len(debts) != 1 {
			t.Fatalf("expected 1 debt, got %d", len(debts))
		}
		if debts[0].From != b.ID || debts[0].To != a.ID {
			t.Errorf("debt oriented %s -> %s, want %s -> %s", debts[0].From, debts[0].To, b.ID, a.ID)
		}
		if debts[0].Amount != 40.0 {
			t.Errorf("Amount = %.2f, want 40.00", debts[0].Amount)
		}
	})

	t.Run("member view partitions owed and owing", func(t *testing.T) {
		view, err := balances.GetGroupUserView(ctx, group.ID, a.ID)
		if err != nil {
			t.Fatalf("GetGroupUserView failed: %v", err)
		}
		if len(view.YouAreOwed) != 1 || view.YouAreOwed[0].From != b.ID {
			t.Errorf("YouAreOwed = %+v, want one debt from %s", view.YouAreOwed, b.ID)
		}
		if len(view.YouOwe) != 0 {
			t.Errorf("YouOwe = %+v, want empty", view.YouOwe)
		}
		if view.NetBalance != 40.0 {
			t.Errorf("NetBalance = %.2f, want 40.00", view.NetBalance)
		}
	})

	t.Run("unknown group returns not found", func(t *testing.T) {
		_, err := balances.GetGroupBalances(ctx, "nonexistent")
		if err == nil {
			t.Error("expected error for unknown group")
		}
	})
}

func TestBalanceServiceSimplify(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := syncUser(t, store, "amy")
	b := syncUser(t, store, "ben")
	c := syncUser(t, store, "cara")
	group := createGroup(t, store, "Trip", a, b, c)

	// Debt chain: a owes b 20, b owes c 20. The plan collapses it into a
	// single transfer a -> c.
	if _, err := store.ApplyDelta(ctx, group.ID, a.ID, b.ID, 20.0); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if _, err := store.ApplyDelta(ctx, group.ID, b.ID, c.ID, 20.0); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	balances := NewBalanceService(store)
	transfers, err := balances.Simplify(ctx, group.ID)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
	if transfers[0].From != a.ID || transfers[0].To != c.ID || transfers[0].Amount != 20.0 {
		t.Errorf("transfer = %+v, want %s -> %s 20.00", transfers[0], a.ID, c.ID)
	}

	// The plan is advisory: stored entries are untouched.
	entries, _ := store.ListBalancesByGroup(ctx, group.ID)
	if len(entries) != 2 {
		t.Errorf("expected stored entries unchanged, got %d", len(entries))
	}
}

func TestBalanceServiceConsolidate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := syncUser(t, store, "amy")
	b := syncUser(t, store, "ben")
	c := syncUser(t, store, "cara")
	group := createGroup(t, store, "Trip", a, b, c)

	if _, err := store.ApplyDelta(ctx, group.ID, a.ID, b.ID, 12.5); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if _, err := store.ApplyDelta(ctx, group.ID, c.ID, b.ID, 7.5); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	balances := NewBalanceService(store)
	result, err := balances.Consolidate(ctx, group.ID)
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if result.Before != 2 || result.After != 2 {
		t.Errorf("result = %+v, want before=2 after=2", result)
	}

	// Consolidation is idempotent and preserves the debts.
	again, err := balances.Consolidate(ctx, group.ID)
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if again.Before != 2 || again.After != 2 {
		t.Errorf("second run = %+v, want before=2 after=2", again)
	}
	assertDebt(t, store, group.ID, a.ID, b.ID, 12.5)
	assertDebt(t, store, group.ID, c.ID, b.ID, 7.5)
}
