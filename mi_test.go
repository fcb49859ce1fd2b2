package wordclass

import (
	"math"
	"testing"
)

func TestLogNoInf(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{1, 0},
		{8, 3},
		{0.5, -1},
		{math.Inf(1), 0},
		{math.NaN(), 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := LogNoInf(tt.x); !almostEqual(got, tt.want, floatTol) {
			t.Errorf("LogNoInf(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestEntropyTerm(t *testing.T) {
	if got := EntropyTerm(0); got != 0 {
		t.Errorf("EntropyTerm(0) = %v, want 0", got)
	}
	if got := EntropyTerm(1); got != 0 {
		t.Errorf("EntropyTerm(1) = %v, want 0", got)
	}
	if got := EntropyTerm(-1e-17); got != 0 {
		t.Errorf("EntropyTerm(-1e-17) = %v, want 0", got)
	}
	if got := EntropyTerm(0.5); !almostEqual(got, -0.5, floatTol) {
		t.Errorf("EntropyTerm(0.5) = %v, want -0.5", got)
	}
	if got := EntropyTerm(0.25); !almostEqual(got, -0.5, floatTol) {
		t.Errorf("EntropyTerm(0.25) = %v, want -0.5", got)
	}
}

func TestMI(t *testing.T) {
	if got := MI(0.25, 0.5, 0.5); got != 0 {
		t.Errorf("MI of independent pair = %v, want 0", got)
	}
	// 0.5 * log2(0.5 / 0.0625) = 0.5 * 3
	if got := MI(0.5, 0.25, 0.25); !almostEqual(got, 1.5, floatTol) {
		t.Errorf("MI(0.5, 0.25, 0.25) = %v, want 1.5", got)
	}
	for _, args := range [][3]float64{{0, 0.5, 0.5}, {0.5, 0, 0.5}, {0.5, 0.5, 0}} {
		if got := MI(args[0], args[1], args[2]); got != 0 {
			t.Errorf("MI(%v) = %v, want 0", args, got)
		}
	}
}
