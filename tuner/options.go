package tuner

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

// Config holds Analyzer settings.
type Config struct {
	// BlockSize is the maximum number of samples drained per Tick.
	BlockSize int
	// SampleRate of the source in Hz; 0 until known.
	SampleRate float64
	// PitchOptions configure the pitch detector.
	PitchOptions []pitch.Option
	// History is the number of results kept; 0 disables history.
	History int
	Logger  *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default analyzer settings.
func DefaultConfig() Config {
	return Config{BlockSize: core.DefaultBlockSize}
}

// WithBlockSize sets the per-tick drain size.
func WithBlockSize(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.BlockSize = n
		}
	}
}

// WithSampleRate sets the initial sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithPitchOptions appends pitch detector options.
func WithPitchOptions(opts ...pitch.Option) Option {
	return func(cfg *Config) {
		cfg.PitchOptions = append(cfg.PitchOptions, opts...)
	}
}

// WithHistory keeps the last n results.
func WithHistory(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.History = n
		}
	}
}

// WithLogger sets the logger. Per-tick messages are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}
