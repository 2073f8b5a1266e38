package numeric

import (
	"math"
	"testing"
)

func TestClamp01(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.3, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if got := Clamp01(tc.in); got != tc.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClampRange(t *testing.T) {
	if got := ClampRange(120, 0, 100); got != 100 {
		t.Fatalf("ClampRange(120) = %v, want 100", got)
	}
	if got := ClampRange(-3, -1, 1); got != -1 {
		t.Fatalf("ClampRange(-3) = %v, want -1", got)
	}
	if got := ClampRange(0.25, -1, 1); got != 0.25 {
		t.Fatalf("ClampRange(0.25) = %v, want 0.25", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(3, 8, 0.5); got != 5.5 {
		t.Fatalf("Lerp(3,8,0.5) = %v, want 5.5", got)
	}
}
