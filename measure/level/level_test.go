package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tuner/internal/testutil"
)

const tolerance = 1e-12

func TestRMSZeroSignal(t *testing.T) {
	if got := RMS(make([]float64, 1024)); got != 0 {
		t.Fatalf("RMS(zeros) = %v, want 0", got)
	}
}

func TestRMSEmpty(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}
}

func TestRMSConstantAmplitude(t *testing.T) {
	for _, a := range []float64{0.25, -0.5, 1, -1} {
		got := RMS(testutil.DC(a, 777))
		if math.Abs(got-math.Abs(a)) > tolerance {
			t.Fatalf("RMS(const %v) = %v, want %v", a, got, math.Abs(a))
		}
	}
}

func TestRMSSine(t *testing.T) {
	// 100 full cycles of a unit sine: RMS is 1/sqrt(2).
	sig := testutil.DeterministicSine(480, 48000, 1, 10000)
	got := RMS(sig)
	if math.Abs(got-1/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS(sine) = %v, want %v", got, 1/math.Sqrt2)
	}
}

func TestDC(t *testing.T) {
	if got := DC(nil); got != 0 {
		t.Fatalf("DC(nil) = %v, want 0", got)
	}
	if got := DC([]float64{1, 2, 3, 6}); math.Abs(got-3) > tolerance {
		t.Fatalf("DC = %v, want 3", got)
	}
}

func TestRemoveDC(t *testing.T) {
	src := []float64{1, 2, 3, 6}
	dst := make([]float64, 4)
	mean := RemoveDC(dst, src)
	if mean != 3 {
		t.Fatalf("mean = %v, want 3", mean)
	}
	testutil.RequireSliceNearlyEqual(t, dst, []float64{-2, -1, 0, 3}, tolerance)
	if src[0] != 1 {
		t.Fatal("RemoveDC modified src")
	}

	// In place.
	RemoveDC(src, src)
	testutil.RequireSliceNearlyEqual(t, src, []float64{-2, -1, 0, 3}, tolerance)
}

func TestToDB(t *testing.T) {
	if got := ToDB(1); got != 0 {
		t.Fatalf("ToDB(1) = %v, want 0", got)
	}
	if got := ToDB(0); math.Abs(got+180) > 1e-9 {
		t.Fatalf("ToDB(0) = %v, want -180", got)
	}
	if got := ToDB(0.1); math.Abs(got+20) > 1e-9 {
		t.Fatalf("ToDB(0.1) = %v, want -20", got)
	}
}

func TestMeterFraction(t *testing.T) {
	tests := []struct {
		name string
		rms  float64
		want float64
	}{
		{name: "silence", rms: 0, want: 0},
		{name: "full scale", rms: 1, want: 1},
		{name: "clipped", rms: 2, want: 1},
		{name: "minus thirty", rms: math.Pow(10, -30.0/20), want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeterFraction(tt.rms, MeterFloorDB, MeterCeilDB)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("MeterFraction(%v) = %v, want %v", tt.rms, got, tt.want)
			}
		})
	}

	if got := MeterFraction(0.5, 0, 0); got != 0 {
		t.Fatalf("degenerate scale = %v, want 0", got)
	}
}
