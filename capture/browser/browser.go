// Package browser is the capture backend for builds running inside a web
// page. The page obtains the microphone and an AudioWorklet itself and
// reports back through Ready or Fail; worklet messages are forwarded with
// Deliver. The package has no js dependency so the lifecycle is testable
// natively; web/wasm binds it to JavaScript.
package browser

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/internal/logging"
)

// Backend waits for the page to finish device set-up.
type Backend struct {
	producer capture.Producer
	logger   *zap.Logger

	once    sync.Once
	settled chan struct{}
	err     error
	rate    atomic.Uint64
	started atomic.Bool
}

var _ capture.Backend = (*Backend)(nil)

// New creates a browser backend writing to p.
func New(p capture.Producer, logger *zap.Logger) (*Backend, error) {
	if p == nil {
		return nil, capture.ErrNilProducer
	}
	return &Backend{
		producer: p,
		logger:   logging.OrNop(logger).With(zap.String("backend", capture.KindBrowser.String())),
		settled:  make(chan struct{}),
	}, nil
}

// Ready reports a working audio graph at sampleRate. Only the first call
// to Ready or Fail has an effect.
func (b *Backend) Ready(sampleRate float64) {
	b.once.Do(func() {
		if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
			b.err = fmt.Errorf("browser: invalid sample rate %v", sampleRate)
		} else {
			b.rate.Store(math.Float64bits(sampleRate))
		}
		close(b.settled)
	})
}

// Fail reports that set-up failed. Only the first call to Ready or Fail
// has an effect.
func (b *Backend) Fail(err error) {
	if err == nil {
		err = capture.ErrNoDevice
	}
	b.once.Do(func() {
		b.err = err
		close(b.settled)
	})
}

// Acquire waits for Ready, Fail or ctx.
func (b *Backend) Acquire(ctx context.Context) error {
	select {
	case <-b.settled:
		if b.err != nil {
			return fmt.Errorf("browser: acquire: %w", b.err)
		}
		b.logger.Info("audio ready", zap.Float64("sampleRate", b.SampleRate()))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser: acquire: %w", ctx.Err())
	}
}

// Start enables delivery.
func (b *Backend) Start() error {
	select {
	case <-b.settled:
	default:
		return capture.ErrNotAcquired
	}
	if b.err != nil {
		return capture.ErrNotAcquired
	}
	b.started.Store(true)
	return nil
}

// Stop disables delivery.
func (b *Backend) Stop() {
	b.started.Store(false)
}

// SampleRate returns the AudioContext rate, 0 before Ready.
func (b *Backend) SampleRate() float64 {
	return math.Float64frombits(b.rate.Load())
}

// Started reports whether Deliver currently forwards samples.
func (b *Backend) Started() bool {
	return b.started.Load()
}

// Deliver forwards one worklet message and returns the number of samples
// the channel dropped. Samples delivered while stopped are discarded and
// not counted.
func (b *Backend) Deliver(samples []float32) int {
	if !b.started.Load() {
		return 0
	}
	return b.producer.PushBatch(samples)
}

// ErrorFromName maps a DOMException name from getUserMedia to a capture
// error.
func ErrorFromName(name, message string) error {
	switch name {
	case "NotAllowedError", "SecurityError":
		return fmt.Errorf("%w: %s", capture.ErrPermissionDenied, message)
	case "NotFoundError", "OverconstrainedError", "NotReadableError":
		return fmt.Errorf("%w: %s", capture.ErrNoDevice, message)
	default:
		return fmt.Errorf("browser: %s: %s", name, message)
	}
}
