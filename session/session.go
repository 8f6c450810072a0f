// Package session owns the lifecycle of one capture run: a fresh sample
// channel and analyzer per start, a backend feeding the channel, and an
// idempotent stop that tears the pair down.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/ring"
	"github.com/cwbudde/algo-tuner/internal/logging"
	"github.com/cwbudde/algo-tuner/tuner"
)

var (
	// ErrNilFactory is returned by Start when the session has no Factory.
	ErrNilFactory = errors.New("session: nil backend factory")
	// ErrStarting is returned by Start while another Start waits in Acquire.
	ErrStarting = errors.New("session: start already in progress")
	// ErrStopped is returned by Start when Stop ran while it was acquiring.
	ErrStopped = errors.New("session: stopped while starting")
)

// Factory builds a backend that writes to p.
type Factory func(p capture.Producer) (capture.Backend, error)

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the processor config.
func WithConfig(cfg core.ProcessorConfig) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithChannelSeconds sizes the channel in seconds at the nominal rate.
func WithChannelSeconds(seconds float64) Option {
	return func(s *Session) { core.WithChannelSeconds(seconds)(&s.cfg) }
}

// WithLogger sets the logger handed to the session and its analyzers.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(l) }
}

// WithAnalyzerOptions appends options for every analyzer the session creates.
func WithAnalyzerOptions(opts ...tuner.Option) Option {
	return func(s *Session) { s.analyzerOpts = append(s.analyzerOpts, opts...) }
}

// Session runs one backend at a time.
type Session struct {
	factory      Factory
	cfg          core.ProcessorConfig
	analyzerOpts []tuner.Option
	logger       *zap.Logger

	mu       sync.Mutex
	running  bool
	starting bool
	// attempt identifies the current Start; Stop bumps it to abandon a pending one.
	attempt     uint64
	cancelStart context.CancelFunc
	channel     *ring.Channel
	analyzer    *tuner.Analyzer
	backend     capture.Backend
}

// New creates a stopped session.
func New(factory Factory, opts ...Option) *Session {
	s := &Session{
		factory: factory,
		cfg:     core.DefaultProcessorConfig(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start creates a new channel and analyzer, acquires the backend and starts
// it. It returns nil without side effects when already running. The session
// lock is not held during Acquire, so Running, Stop and the accessors stay
// responsive while a backend waits for a device or permission. On error the
// session stays stopped and the backend is released.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if s.starting {
		s.mu.Unlock()
		return ErrStarting
	}
	if s.factory == nil {
		s.mu.Unlock()
		return ErrNilFactory
	}

	ch, an, be, err := s.build()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	actx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.starting = true
	s.attempt++
	attempt := s.attempt
	s.cancelStart = cancel
	s.mu.Unlock()

	acqErr := be.Acquire(actx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt != attempt {
		be.Stop()
		return ErrStopped
	}
	s.starting = false
	s.cancelStart = nil
	if acqErr != nil {
		be.Stop()
		return fmt.Errorf("session: acquire audio input: %w", acqErr)
	}

	an.SetSampleRate(be.SampleRate())
	if err := be.Start(); err != nil {
		be.Stop()
		return fmt.Errorf("session: start audio input: %w", err)
	}

	s.channel, s.analyzer, s.backend = ch, an, be
	s.running = true
	s.logger.Info("session started",
		zap.Float64("sampleRate", be.SampleRate()),
		zap.Int("channelCapacity", ch.Capacity()),
		zap.Int("blockSize", s.cfg.BlockSize))
	return nil
}

// build creates the channel, analyzer and backend for one run. s.mu is held.
func (s *Session) build() (*ring.Channel, *tuner.Analyzer, capture.Backend, error) {
	ch, err := ring.New(s.cfg.ChannelCapacity())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("session: create channel: %w", err)
	}

	opts := append([]tuner.Option{
		tuner.WithBlockSize(s.cfg.BlockSize),
		tuner.WithLogger(s.logger),
	}, s.analyzerOpts...)
	an, err := tuner.NewAnalyzer(ch, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("session: create analyzer: %w", err)
	}

	be, err := s.factory(ch)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("session: create backend: %w", err)
	}
	return ch, an, be, nil
}

// Stop stops the backend and drops the channel and analyzer. A Start still
// waiting in Acquire is cancelled and returns ErrStopped. It is safe to call
// at any time.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.starting {
		s.starting = false
		s.attempt++
		s.cancelStart()
		s.cancelStart = nil
		s.logger.Info("session start abandoned")
		return
	}
	if !s.running {
		return
	}

	s.backend.Stop()
	stats := s.channel.Stats()
	s.logger.Info("session stopped",
		zap.Uint64("pushed", stats.Pushed),
		zap.Uint64("dropped", stats.Dropped))

	s.channel, s.analyzer, s.backend = nil, nil, nil
	s.running = false
}

// Running reports whether a backend is delivering samples.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Starting reports whether a Start is waiting for the backend.
func (s *Session) Starting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starting
}

// Analyzer returns the current analyzer, nil when stopped.
func (s *Session) Analyzer() *tuner.Analyzer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzer
}

// Backend returns the current backend, nil when stopped.
func (s *Session) Backend() capture.Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

// ChannelStats returns the channel counters, zero when stopped.
func (s *Session) ChannelStats() ring.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel == nil {
		return ring.Stats{}
	}
	return s.channel.Stats()
}

// Tick runs one analyzer tick. ok is false when the session is stopped.
func (s *Session) Tick(detectPitch bool) (res tuner.Result, ok bool) {
	an := s.Analyzer()
	if an == nil {
		return tuner.Result{}, false
	}
	return an.Tick(detectPitch), true
}

// Config returns the processor config.
func (s *Session) Config() core.ProcessorConfig {
	return s.cfg
}
