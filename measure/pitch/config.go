package pitch

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

var (
	// ErrInvalidFrequencyRange is returned when the search band is empty or non-positive.
	ErrInvalidFrequencyRange = errors.New("pitch: frequency range must satisfy 0 < min < max")

	// ErrInvalidSampleRate is returned for a negative or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("pitch: sample rate must be finite and non-negative")
)

// Method selects how raw autocorrelation sums are computed.
type Method int

const (
	// MethodFFT computes all lags at once with a zero-padded FFT.
	MethodFFT Method = iota
	// MethodDirect computes one dot product per lag.
	MethodDirect
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodFFT:
		return "fft"
	case MethodDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Default detector settings: a 35–400 Hz band, correlation above 0.3 with a
// clarity margin of 0.1, and at least 2048 samples per block.
const (
	DefaultMinFrequency    = 35.0
	DefaultMaxFrequency    = 400.0
	DefaultMinCorrelation  = 0.3
	DefaultMinClarity      = 0.1
	DefaultMinBufferLength = 2048
)

// Config holds detector settings. A zero SampleRate means the rate is not
// known yet; detection then reports no result until SetSampleRate is called.
type Config struct {
	SampleRate      float64
	MinFrequency    float64
	MaxFrequency    float64
	MinCorrelation  float64
	MinClarity      float64
	MinBufferLength int
	Method          Method
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns settings tuned for bass and guitar.
func DefaultConfig() Config {
	return Config{
		SampleRate:      core.DefaultSampleRate,
		MinFrequency:    DefaultMinFrequency,
		MaxFrequency:    DefaultMaxFrequency,
		MinCorrelation:  DefaultMinCorrelation,
		MinClarity:      DefaultMinClarity,
		MinBufferLength: DefaultMinBufferLength,
		Method:          MethodFFT,
	}
}

// WithSampleRate sets the sample rate of the analysed signal.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrequencyRange sets the band searched for a fundamental.
func WithFrequencyRange(minHz, maxHz float64) Option {
	return func(cfg *Config) {
		if minHz > 0 && maxHz > 0 {
			cfg.MinFrequency = minHz
			cfg.MaxFrequency = maxHz
		}
	}
}

// WithThresholds sets the minimum peak correlation and clarity.
func WithThresholds(minCorrelation, minClarity float64) Option {
	return func(cfg *Config) {
		if minCorrelation >= 0 && minCorrelation < 1 {
			cfg.MinCorrelation = minCorrelation
		}
		if minClarity >= 0 && minClarity < 1 {
			cfg.MinClarity = minClarity
		}
	}
}

// WithMinBufferLength sets the shortest block that is analysed.
func WithMinBufferLength(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MinBufferLength = n
		}
	}
}

// WithMethod selects the autocorrelation method.
func WithMethod(m Method) Option {
	return func(cfg *Config) {
		if m == MethodFFT || m == MethodDirect {
			cfg.Method = m
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether cfg can be used by a Detector.
func (cfg Config) Validate() error {
	if math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) || cfg.SampleRate < 0 {
		return ErrInvalidSampleRate
	}
	if !(cfg.MinFrequency > 0) || !(cfg.MaxFrequency > cfg.MinFrequency) || math.IsInf(cfg.MaxFrequency, 0) {
		return ErrInvalidFrequencyRange
	}
	return nil
}

// LagRange returns the half-open lag interval [minLag, maxLag) searched for a
// block of n samples.
func (cfg Config) LagRange(n int) (minLag, maxLag int) {
	minLag = int(cfg.SampleRate / cfg.MaxFrequency)
	maxLag = min(int(cfg.SampleRate/cfg.MinFrequency), n/2)
	if minLag < 1 {
		minLag = 1
	}
	return minLag, maxLag
}
