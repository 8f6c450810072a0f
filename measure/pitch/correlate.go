package pitch

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// prefixEnergy fills p with running sums of squares: p[i] = Σ x[:i]².
func prefixEnergy(p, x []float64) {
	p[0] = 0
	for i, v := range x {
		p[i+1] = p[i] + v*v
	}
}

// rawDirect writes Σ x[i]·x[i+lag] for lag in [lo, hi] into dst[lag-lo].
func rawDirect(dst, x []float64, lo, hi int) {
	n := len(x)
	for lag := lo; lag <= hi; lag++ {
		dst[lag-lo] = floats.Dot(x[:n-lag], x[lag:])
	}
}

// fftCorrelator computes linear autocorrelation via a zero-padded FFT.
type fftCorrelator struct {
	plan *algofft.Plan[complex128]
	size int
	time []complex128
	freq []complex128
	re   []float64
	im   []float64
	pow  []float64
}

func (f *fftCorrelator) ensure(size int) error {
	if f.plan != nil && f.size == size {
		return nil
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return fmt.Errorf("pitch: failed to create FFT plan: %w", err)
	}
	f.plan = plan
	f.size = size
	f.time = make([]complex128, size)
	f.freq = make([]complex128, size)
	f.re = make([]float64, size)
	f.im = make([]float64, size)
	f.pow = make([]float64, size)
	return nil
}

// raw writes the unnormalized autocorrelation for lag in [lo, hi] into
// dst[lag-lo]. energy is Σ x², used to pin the lag-0 term so the result
// does not depend on the inverse transform's scaling.
func (f *fftCorrelator) raw(dst, x []float64, lo, hi int, energy float64) error {
	if err := f.ensure(core.NextPowerOf2(len(x) + hi + 1)); err != nil {
		return err
	}

	for i := range f.time {
		if i < len(x) {
			f.time[i] = complex(x[i], 0)
		} else {
			f.time[i] = 0
		}
	}
	if err := f.plan.Forward(f.freq, f.time); err != nil {
		return fmt.Errorf("pitch: forward FFT failed: %w", err)
	}

	for i, c := range f.freq {
		f.re[i] = real(c)
		f.im[i] = imag(c)
	}
	vecmath.Power(f.pow, f.re, f.im)
	for i, p := range f.pow {
		f.freq[i] = complex(p, 0)
	}

	if err := f.plan.Inverse(f.time, f.freq); err != nil {
		return fmt.Errorf("pitch: inverse FFT failed: %w", err)
	}

	r0 := real(f.time[0])
	if !(r0 > 0) || math.IsInf(r0, 0) {
		return fmt.Errorf("pitch: degenerate FFT autocorrelation (r0=%g)", r0)
	}
	scale := energy / r0
	for lag := lo; lag <= hi; lag++ {
		dst[lag-lo] = real(f.time[lag]) * scale
	}
	return nil
}

// normalize converts raw sums in corr (indexed lag-lo) to normalized
// correlation using the prefix energies p of a block of n samples.
func normalize(corr, p []float64, n, lo int) {
	total := p[n]
	for k := range corr {
		lag := lo + k
		den := p[n-lag] * (total - p[lag])
		if den <= 0 {
			corr[k] = 0
			continue
		}
		corr[k] /= mathSqrt(den)
	}
}
