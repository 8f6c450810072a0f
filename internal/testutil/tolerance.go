package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireWithinPercent fails t unless got lies within pct percent of want.
func RequireWithinPercent(t *testing.T, got, want, pct float64) {
	t.Helper()
	if want == 0 {
		t.Fatalf("RequireWithinPercent needs a non-zero reference, got %v", got)
	}
	dev := math.Abs(got-want) / math.Abs(want) * 100
	if dev > pct {
		t.Fatalf("got %v, want %v within %v%% (off by %.3f%%)", got, want, pct, dev)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
