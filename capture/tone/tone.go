// Package tone provides a synthetic capture backend producing a sine wave
// with optional white noise, paced in real time.
package tone

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/internal/logging"
)

// Defaults for a new generator.
const (
	DefaultFrequency       = 110.0
	DefaultAmplitude       = 0.5
	DefaultFramesPerBuffer = 512
)

// Config holds generator settings.
type Config struct {
	SampleRate      float64
	Frequency       float64
	Amplitude       float64
	Noise           float64
	FramesPerBuffer int
	Seed            int64
	Logger          *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a 110 Hz sine at half scale.
func DefaultConfig() Config {
	return Config{
		SampleRate:      core.DefaultSampleRate,
		Frequency:       DefaultFrequency,
		Amplitude:       DefaultAmplitude,
		FramesPerBuffer: DefaultFramesPerBuffer,
		Seed:            1,
	}
}

// WithSampleRate sets the output rate. Non-positive values are ignored.
func WithSampleRate(sr float64) Option {
	return func(c *Config) {
		if sr > 0 {
			c.SampleRate = sr
		}
	}
}

// WithFrequency sets the sine frequency in Hz. Non-positive values are ignored.
func WithFrequency(hz float64) Option {
	return func(c *Config) {
		if hz > 0 {
			c.Frequency = hz
		}
	}
}

// WithAmplitude sets the peak sine amplitude. Negative values are ignored.
func WithAmplitude(a float64) Option {
	return func(c *Config) {
		if a >= 0 {
			c.Amplitude = a
		}
	}
}

// WithNoise adds uniform white noise of the given peak amplitude.
func WithNoise(a float64) Option {
	return func(c *Config) {
		if a >= 0 {
			c.Noise = a
		}
	}
}

// WithFramesPerBuffer sets how many frames are pushed per buffer period.
func WithFramesPerBuffer(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.FramesPerBuffer = n
		}
	}
}

// WithSeed seeds the noise generator.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithLogger sets the backend logger. nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Backend is a capture.Backend generating a test tone.
type Backend struct {
	cfg      Config
	producer capture.Producer
	logger   *zap.Logger
	runner   capture.Runner

	mu       sync.Mutex
	acquired bool
	phase    float64
	rng      *rand.Rand
	buf      []float32
}

var _ capture.Backend = (*Backend)(nil)

// New creates a tone backend writing to p.
func New(p capture.Producer, opts ...Option) (*Backend, error) {
	if p == nil {
		return nil, capture.ErrNilProducer
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Backend{
		cfg:      cfg,
		producer: p,
		logger:   logging.OrNop(cfg.Logger).With(zap.String("backend", capture.KindTone.String())),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		buf:      make([]float32, cfg.FramesPerBuffer),
	}, nil
}

// Acquire has nothing to open; it only honours ctx cancellation.
func (b *Backend) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tone: acquire: %w", err)
	}
	b.mu.Lock()
	b.acquired = true
	b.mu.Unlock()
	return nil
}

// Start begins pushing one buffer per buffer period.
func (b *Backend) Start() error {
	b.mu.Lock()
	acquired := b.acquired
	b.mu.Unlock()
	if !acquired {
		return capture.ErrNotAcquired
	}

	period := capture.BufferPeriod(b.cfg.FramesPerBuffer, b.cfg.SampleRate)
	if b.runner.Start(period, b.step) {
		b.logger.Info("tone started",
			zap.Float64("frequency", b.cfg.Frequency),
			zap.Float64("sampleRate", b.cfg.SampleRate),
			zap.Duration("period", period))
	}
	return nil
}

// Stop halts generation.
func (b *Backend) Stop() {
	b.runner.Stop()
	b.mu.Lock()
	b.acquired = false
	b.mu.Unlock()
}

// SampleRate returns the generator rate once acquired.
func (b *Backend) SampleRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.acquired {
		return 0
	}
	return b.cfg.SampleRate
}

// Generate fills dst with the next samples of the tone, continuing the
// phase of the previous call.
func (b *Backend) Generate(dst []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	step := 2 * math.Pi * b.cfg.Frequency / b.cfg.SampleRate
	for i := range dst {
		v := b.cfg.Amplitude * math.Sin(b.phase)
		if b.cfg.Noise > 0 {
			v += (b.rng.Float64()*2 - 1) * b.cfg.Noise
		}
		dst[i] = float32(v)
		b.phase += step
		if b.phase >= 2*math.Pi {
			b.phase -= 2 * math.Pi
		}
	}
}

func (b *Backend) step() bool {
	b.Generate(b.buf)
	if dropped := b.producer.PushBatch(b.buf); dropped > 0 {
		if ce := b.logger.Check(zap.DebugLevel, "channel full"); ce != nil {
			ce.Write(zap.Int("dropped", dropped))
		}
	}
	return true
}
