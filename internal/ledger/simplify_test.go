package ledger

import (
	"math"
	"reflect"
	"testing"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

func entry(a, b string, amount float64) *models.BalanceEntry {
	return &models.BalanceEntry{GroupID: "g", UserA: a, UserB: b, Amount: amount}
}

func TestSimplify_ChainCollapses(t *testing.T) {
	// A owes B 30 and B owes C 30: B nets to zero, so the plan is a single
	// payment A -> C.
	entries := []*models.BalanceEntry{
		entry("A", "B", 30),
		entry("B", "C", 30),
	}

	plan := Simplify(entries)
	if len(plan) != 1 {
		t.Fatalf("expected 1 transfer, got %d: %+v", len(plan), plan)
	}
	if plan[0].From != "A" || plan[0].To != "C" || plan[0].Amount != 30 {
		t.Errorf("transfer = %+v, want A -> C 30", plan[0])
	}
}

func TestSimplify_ConservesNetPositions(t *testing.T) {
	entries := []*models.BalanceEntry{
		entry("A", "D", 55.25),
		entry("B", "D", 12),
		entry("B", "E", 20.75),
		entry("C", "E", 8),
		entry("A", "C", 14.50),
	}

	net := NetPositions(entries)
	plan := Simplify(entries)

	paid := make(map[string]float64)
	received := make(map[string]float64)
	for _, tr := range plan {
		if tr.Amount <= 0 {
			t.Errorf("non-positive transfer amount: %+v", tr)
		}
		paid[tr.From] += tr.Amount
		received[tr.To] += tr.Amount
	}

	for userID, n := range net {
		switch {
		case n < -money.Epsilon:
			if math.Abs(paid[userID]-(-n)) > money.Epsilon {
				t.Errorf("%s pays %v, net debt is %v", userID, paid[userID], -n)
			}
		case n > money.Epsilon:
			if math.Abs(received[userID]-n) > money.Epsilon {
				t.Errorf("%s receives %v, net credit is %v", userID, received[userID], n)
			}
		}
	}

	// Upper bound on plan length.
	if max := len(net) - 1; len(plan) > max {
		t.Errorf("plan has %d transfers, greedy bound is %d", len(plan), max)
	}
}

func TestSimplify_Deterministic(t *testing.T) {
	entries := []*models.BalanceEntry{
		entry("A", "C", 25),
		entry("B", "C", 25),
		entry("A", "D", 25),
		entry("B", "D", 25),
	}

	first := Simplify(entries)
	for i := 0; i < 10; i++ {
		if got := Simplify(entries); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced a different plan:\n%+v\nvs\n%+v", i, got, first)
		}
	}
}

func TestSimplify_SettledGroup(t *testing.T) {
	entries := []*models.BalanceEntry{
		entry("A", "B", 0.005),
	}
	if plan := Simplify(entries); len(plan) != 0 {
		t.Errorf("expected empty plan for settled group, got %+v", plan)
	}
	if plan := Simplify(nil); len(plan) != 0 {
		t.Errorf("expected empty plan for empty ledger, got %+v", plan)
	}
}

func TestConsolidate_FoldsDuplicates(t *testing.T) {
	// Duplicated pair in both orientations plus an unrelated entry.
	entries := []*models.BalanceEntry{
		entry("A", "B", 20),
		entry("B", "A", 5), // B owes A 5, i.e. A is owed: folds to A owes B 15
		entry("A", "B", -15),
		entry("C", "D", 7),
	}

	out := Consolidate("g", entries)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry after consolidation, got %d: %+v", len(out), out)
	}
	if out[0].UserA != "C" || out[0].UserB != "D" || out[0].Amount != 7 {
		t.Errorf("entry = %+v, want C/D 7", out[0])
	}
}

func TestConsolidate_Idempotent(t *testing.T) {
	entries := []*models.BalanceEntry{
		entry("B", "A", 10),
		entry("A", "B", 4),
		entry("A", "C", 12.5),
		entry("C", "B", 3),
	}

	once := Consolidate("g", entries)
	twice := Consolidate("g", once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("consolidation not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
