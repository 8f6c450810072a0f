package mic

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/internal/logging"
)

// DefaultFramesPerBuffer is the PortAudio callback size.
const DefaultFramesPerBuffer = 512

// Config holds device settings.
type Config struct {
	// SampleRate requested from the device; 0 uses the device default.
	SampleRate      float64
	FramesPerBuffer int
	Logger          *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// WithSampleRate requests a stream rate. Non-positive values are ignored.
func WithSampleRate(sr float64) Option {
	return func(c *Config) {
		if sr > 0 {
			c.SampleRate = sr
		}
	}
}

// WithFramesPerBuffer sets the callback buffer size in frames.
func WithFramesPerBuffer(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.FramesPerBuffer = n
		}
	}
}

// WithLogger sets the backend logger. nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func newConfig(opts []Option) (Config, *zap.Logger) {
	cfg := Config{FramesPerBuffer: DefaultFramesPerBuffer}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg, logging.OrNop(cfg.Logger).With(zap.String("backend", capture.KindMic.String()))
}
