// Package file provides a capture backend that replays a decoded audio file
// in real time, as if it were being captured live.
package file

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/internal/logging"
)

// DefaultFramesPerBuffer is the replay chunk size.
const DefaultFramesPerBuffer = 1024

// Config holds replay settings.
type Config struct {
	Loop            bool
	FramesPerBuffer int
	Logger          *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// WithLoop restarts playback at the end of the clip.
func WithLoop(loop bool) Option {
	return func(c *Config) { c.Loop = loop }
}

// WithFramesPerBuffer sets how many frames are pushed per buffer period.
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

// Backend replays a clip into a Producer.
type Backend struct {
	path     string
	cfg      Config
	producer capture.Producer
	logger   *zap.Logger
	runner   capture.Runner

	mu       sync.Mutex
	clip     *Clip
	acquired bool
	pos      int
}

var _ capture.Backend = (*Backend)(nil)

// New creates a backend that decodes path on Acquire.
func New(p capture.Producer, path string, opts ...Option) (*Backend, error) {
	if p == nil {
		return nil, capture.ErrNilProducer
	}
	cfg := Config{FramesPerBuffer: DefaultFramesPerBuffer}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Backend{
		path:     path,
		cfg:      cfg,
		producer: p,
		logger:   logging.OrNop(cfg.Logger).With(zap.String("backend", capture.KindFile.String()), zap.String("path", path)),
	}, nil
}

// NewFromClip creates a backend replaying an already decoded clip.
func NewFromClip(p capture.Producer, clip *Clip, opts ...Option) (*Backend, error) {
	b, err := New(p, "", opts...)
	if err != nil {
		return nil, err
	}
	b.clip = clip
	return b, nil
}

// Acquire decodes the file unless a clip is already loaded.
func (b *Backend) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("file: acquire: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clip == nil {
		clip, err := Decode(b.path)
		if err != nil {
			return fmt.Errorf("file: acquire %s: %w", b.path, err)
		}
		b.clip = clip
		b.logger.Info("decoded",
			zap.Int("sampleRate", clip.SampleRate),
			zap.Int("channels", clip.Channels),
			zap.Duration("duration", clip.Duration()))
	}
	b.acquired = true
	b.pos = 0
	return nil
}

// Start begins replay at the clip's own rate.
func (b *Backend) Start() error {
	b.mu.Lock()
	acquired, rate := b.acquired, b.clip.sampleRate()
	b.mu.Unlock()
	if !acquired {
		return capture.ErrNotAcquired
	}
	b.runner.Start(capture.BufferPeriod(b.cfg.FramesPerBuffer, rate), b.step)
	return nil
}

// Stop halts replay and rewinds.
func (b *Backend) Stop() {
	b.runner.Stop()
	b.mu.Lock()
	b.acquired = false
	b.pos = 0
	b.mu.Unlock()
}

// SampleRate returns the clip rate once acquired.
func (b *Backend) SampleRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.acquired {
		return 0
	}
	return b.clip.sampleRate()
}

// Done is closed when a non-looping replay reaches the end or Stop is
// called. It is nil before Start.
func (b *Backend) Done() <-chan struct{} {
	return b.runner.Done()
}

// Position returns the index of the next sample to be replayed.
func (b *Backend) Position() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

func (b *Backend) step() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	samples := b.clip.Samples
	if b.pos >= len(samples) {
		if !b.cfg.Loop || len(samples) == 0 {
			b.logger.Info("replay finished")
			return false
		}
		b.pos = 0
	}

	end := min(b.pos+b.cfg.FramesPerBuffer, len(samples))
	if dropped := b.producer.PushBatch(samples[b.pos:end]); dropped > 0 {
		if ce := b.logger.Check(zap.DebugLevel, "channel full"); ce != nil {
			ce.Write(zap.Int("dropped", dropped))
		}
	}
	b.pos = end
	return true
}

func (c *Clip) sampleRate() float64 {
	if c == nil {
		return 0
	}
	return float64(c.SampleRate)
}
