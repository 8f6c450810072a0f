package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// Quarter period of 48 samples/cycle is a peak.
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1", s[12])
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 64)
	b := DeterministicNoise(42, 0.5, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if a[i] < -0.5 || a[i] > 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
	c := DeterministicNoise(43, 0.5, 64)
	if a[0] == c[0] && a[1] == c[1] {
		t.Fatal("different seeds produced the same noise")
	}
}

func TestMix(t *testing.T) {
	got := Mix([]float64{1, 2, 3}, []float64{10, 20})
	RequireSliceNearlyEqual(t, got, []float64{11, 22}, 0)
	if Mix() != nil {
		t.Fatal("Mix() should return nil")
	}
}

func TestFloat32(t *testing.T) {
	got := Float32([]float64{0.5, -1})
	if len(got) != 2 || got[0] != 0.5 || got[1] != -1 {
		t.Fatalf("Float32 = %v", got)
	}
}
