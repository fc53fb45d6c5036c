package money

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{3.333333, 3.33},
		{3.335, 3.34},
		{23.331, 23.33},
		{0.004, 0.0},
		{-2.675, -2.68},
		{10, 10},
	}

	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0.009) {
		t.Error("expected 0.009 to be treated as zero")
	}
	if !IsZero(-0.0099) {
		t.Error("expected -0.0099 to be treated as zero")
	}
	if IsZero(0.011) {
		t.Error("expected 0.011 to be non-zero")
	}
	if IsZero(Epsilon) {
		t.Error("expected exactly Epsilon to be non-zero")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(100, 100.009) {
		t.Error("expected 100 and 100.009 to be equal within epsilon")
	}
	if Equal(100, 100.011) {
		t.Error("expected 100 and 100.011 to differ")
	}
}
