package ledger

import (
	"testing"

	"github.com/splitledger/splitledger/internal/models"
)

func findDelta(deltas []DebtDelta, debtor, creditor string) (DebtDelta, bool) {
	for _, d := range deltas {
		if d.Debtor == debtor && d.Creditor == creditor {
			return d, true
		}
	}
	return DebtDelta{}, false
}

func TestProjectDebts_SinglePayer(t *testing.T) {
	// 90 split equally among X, Y, Z, paid by X: Y and Z each owe X 30,
	// X's own share is skipped.
	payers := SinglePayer("X", 90)
	splits := []models.Split{
		{UserID: "X", Amount: 30},
		{UserID: "Y", Amount: 30},
		{UserID: "Z", Amount: 30},
	}

	deltas := ProjectDebts(payers, splits, 90)
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d: %+v", len(deltas), deltas)
	}
	for _, debtor := range []string{"Y", "Z"} {
		d, ok := findDelta(deltas, debtor, "X")
		if !ok {
			t.Fatalf("missing delta %s -> X", debtor)
		}
		if d.Amount != 30 {
			t.Errorf("%s owes X %v, want 30", debtor, d.Amount)
		}
	}
}

func TestProjectDebts_MultiPayer(t *testing.T) {
	// 100 paid 70/30 by P1/P2, equal split among P1, P2, P3. P3's 33.33
	// share distributes proportionally: 23.33 to P1, 10.00 to P2.
	payers := []models.PayerShare{
		{UserID: "P1", Amount: 70},
		{UserID: "P2", Amount: 30},
	}
	splits := []models.Split{
		{UserID: "P1", Amount: 33.34},
		{UserID: "P2", Amount: 33.33},
		{UserID: "P3", Amount: 33.33},
	}

	deltas := ProjectDebts(payers, splits, 100)

	d, ok := findDelta(deltas, "P3", "P1")
	if !ok || d.Amount != 23.33 {
		t.Errorf("P3 -> P1 = %+v (found %v), want 23.33", d, ok)
	}
	d, ok = findDelta(deltas, "P3", "P2")
	if !ok || d.Amount != 10.00 {
		t.Errorf("P3 -> P2 = %+v (found %v), want 10.00", d, ok)
	}

	// P1 and P2 owe each other only their own shares reduced by self-skip.
	if _, ok := findDelta(deltas, "P1", "P1"); ok {
		t.Error("self-debt emitted for P1")
	}
	d, ok = findDelta(deltas, "P1", "P2")
	if !ok || d.Amount != 10.00 {
		t.Errorf("P1 -> P2 = %+v (found %v), want 10.00", d, ok)
	}
	d, ok = findDelta(deltas, "P2", "P1")
	if !ok || d.Amount != 23.33 {
		t.Errorf("P2 -> P1 = %+v (found %v), want 23.33", d, ok)
	}
}

func TestProjectDebts_SkipsDustDeltas(t *testing.T) {
	payers := []models.PayerShare{
		{UserID: "P1", Amount: 99.99},
		{UserID: "P2", Amount: 0.01},
	}
	splits := []models.Split{
		{UserID: "P1", Amount: 50},
		{UserID: "P3", Amount: 50},
	}

	deltas := ProjectDebts(payers, splits, 100)
	for _, d := range deltas {
		if d.Creditor == "P2" {
			t.Errorf("dust delta emitted: %+v", d)
		}
	}
}

func TestNegate(t *testing.T) {
	deltas := []DebtDelta{
		{Debtor: "A", Creditor: "B", Amount: 12.5},
		{Debtor: "C", Creditor: "B", Amount: 3},
	}
	neg := Negate(deltas)
	for i, d := range neg {
		if d.Debtor != deltas[i].Debtor || d.Creditor != deltas[i].Creditor {
			t.Errorf("pair changed: %+v", d)
		}
		if d.Amount != -deltas[i].Amount {
			t.Errorf("amount = %v, want %v", d.Amount, -deltas[i].Amount)
		}
	}
}

func TestCanonicalPair(t *testing.T) {
	a, b, signed := CanonicalPair("bob", "alice", 5)
	if a != "alice" || b != "bob" || signed != -5 {
		t.Errorf("got (%s, %s, %v), want (alice, bob, -5)", a, b, signed)
	}

	a, b, signed = CanonicalPair("alice", "bob", 5)
	if a != "alice" || b != "bob" || signed != 5 {
		t.Errorf("got (%s, %s, %v), want (alice, bob, 5)", a, b, signed)
	}
}
