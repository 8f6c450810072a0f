package pitch

import (
	"math"

	"github.com/cwbudde/algo-tuner/measure/level"
)

// Estimate is an accepted pitch estimate.
type Estimate struct {
	// Frequency is the refined fundamental in Hz.
	Frequency float64
	// Lag is the refined period in samples.
	Lag float64
	// Correlation is the normalized correlation at the chosen peak.
	Correlation float64
	// Clarity is Correlation minus the strongest unrelated peak.
	Clarity float64
}

// Detector estimates pitch with reusable scratch buffers.
// A Detector is not safe for concurrent use.
type Detector struct {
	cfg Config

	centered []float64
	energy   []float64
	corr     []float64
	peaks    []peak
	fft      fftCorrelator
}

// New creates a Detector from the default config and opts.
func New(opts ...Option) (*Detector, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector settings.
func (d *Detector) Config() Config {
	return d.cfg
}

// SampleRate returns the configured sample rate.
func (d *Detector) SampleRate() float64 {
	return d.cfg.SampleRate
}

// SetSampleRate updates the sample rate. Non-positive or non-finite values
// are ignored.
func (d *Detector) SetSampleRate(sampleRate float64) {
	if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
		d.cfg.SampleRate = sampleRate
	}
}

// Detect estimates the fundamental of samples. It reports false when the
// block is too short, silent, outside the band or ambiguous.
func (d *Detector) Detect(samples []float64) (Estimate, bool) {
	n := len(samples)
	sr := d.cfg.SampleRate
	if n < d.cfg.MinBufferLength || n < 2 || !(sr > 0) {
		return Estimate{}, false
	}

	minLag, maxLag := d.cfg.LagRange(n)
	if maxLag-minLag < 3 {
		return Estimate{}, false
	}
	lo, hi := minLag-1, maxLag

	d.centered = grow(d.centered, n)
	level.RemoveDC(d.centered, samples)

	d.energy = grow(d.energy, n+1)
	prefixEnergy(d.energy, d.centered)
	meanSquare := d.energy[n] / float64(n)
	if !(meanSquare > level.SilenceFloor*level.SilenceFloor) || math.IsInf(meanSquare, 0) {
		return Estimate{}, false
	}

	d.corr = grow(d.corr, hi-lo+1)
	if d.cfg.Method != MethodFFT || d.fft.raw(d.corr, d.centered, lo, hi, d.energy[n]) != nil {
		rawDirect(d.corr, d.centered, lo, hi)
	}
	normalize(d.corr, d.energy, n, lo)

	d.peaks = findPeaks(d.peaks, d.corr, lo, minLag, maxLag)
	best, second, ok := selectPeak(d.peaks)
	if !ok {
		return Estimate{}, false
	}
	clarity := best.value - second
	if !(best.value > d.cfg.MinCorrelation) || !(clarity > d.cfg.MinClarity) {
		return Estimate{}, false
	}

	// corr also holds minLag-1 and maxLag, so a peak at either end of the
	// search range still gets both neighbours and is refined.
	lag := float64(best.lag)
	if best.lag > lo && best.lag < hi {
		k := best.lag - lo
		lag += parabolicOffset(d.corr[k-1], d.corr[k], d.corr[k+1])
	}
	if !(lag > 0) {
		return Estimate{}, false
	}

	freq := sr / lag
	if math.IsInf(freq, 0) || math.IsNaN(freq) {
		return Estimate{}, false
	}
	return Estimate{
		Frequency:   freq,
		Lag:         lag,
		Correlation: best.value,
		Clarity:     clarity,
	}, true
}

// Frequency is Detect reduced to the frequency.
func (d *Detector) Frequency(samples []float64) (float64, bool) {
	est, ok := d.Detect(samples)
	return est.Frequency, ok
}

// Detect estimates pitch with the default settings at sampleRate.
func Detect(samples []float64, sampleRate float64) (Estimate, bool) {
	d, err := New(WithSampleRate(sampleRate))
	if err != nil || !(sampleRate > 0) {
		return Estimate{}, false
	}
	return d.Detect(samples)
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
