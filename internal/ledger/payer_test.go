package ledger

import (
	"testing"

	"github.com/splitledger/splitledger/internal/models"
)

func TestSinglePayer(t *testing.T) {
	shares := SinglePayer("alice", 42.50)
	if len(shares) != 1 {
		t.Fatalf("expected 1 share, got %d", len(shares))
	}
	if shares[0].UserID != "alice" || shares[0].Amount != 42.50 {
		t.Errorf("share = %+v, want alice/42.50", shares[0])
	}
}

func TestResolvePayers(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		payers  []PayerInput
		wantErr bool
		want    []models.PayerShare
	}{
		{
			name:    "no payers",
			total:   100,
			wantErr: true,
		},
		{
			name:  "two payers summing to total",
			total: 100,
			payers: []PayerInput{
				{UserID: "P1", Amount: 70},
				{UserID: "P2", Amount: 30},
			},
			want: []models.PayerShare{
				{UserID: "P1", Amount: 70},
				{UserID: "P2", Amount: 30},
			},
		},
		{
			name:  "sum within epsilon passes",
			total: 100,
			payers: []PayerInput{
				{UserID: "P1", Amount: 70},
				{UserID: "P2", Amount: 30.009},
			},
			want: []models.PayerShare{
				{UserID: "P1", Amount: 70},
				{UserID: "P2", Amount: 30.009},
			},
		},
		{
			name:  "sum beyond epsilon rejected",
			total: 100,
			payers: []PayerInput{
				{UserID: "P1", Amount: 70},
				{UserID: "P2", Amount: 30.02},
			},
			wantErr: true,
		},
		{
			name:  "zero contribution rejected",
			total: 100,
			payers: []PayerInput{
				{UserID: "P1", Amount: 100},
				{UserID: "P2", Amount: 0},
			},
			wantErr: true,
		},
		{
			name:  "negative contribution rejected",
			total: 100,
			payers: []PayerInput{
				{UserID: "P1", Amount: 110},
				{UserID: "P2", Amount: -10},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePayers(tt.total, tt.payers)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolvePayers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !IsValidation(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("share[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
