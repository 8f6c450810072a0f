//go:build !cgo || js

package mic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
)

// Backend is unavailable without cgo.
type Backend struct {
	cfg      Config
	producer capture.Producer
	logger   *zap.Logger
}

var _ capture.Backend = (*Backend)(nil)

// New creates a backend whose Acquire always fails.
func New(p capture.Producer, opts ...Option) (*Backend, error) {
	if p == nil {
		return nil, capture.ErrNilProducer
	}
	cfg, logger := newConfig(opts)
	return &Backend{cfg: cfg, producer: p, logger: logger}, nil
}

// Acquire always fails: this build has no PortAudio.
func (b *Backend) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mic: acquire: %w", err)
	}
	return fmt.Errorf("%w: built without cgo", capture.ErrNoDevice)
}

func (b *Backend) Start() error { return capture.ErrNotAcquired }

func (b *Backend) Stop() {}

func (b *Backend) SampleRate() float64 { return 0 }

// InputDevices reports that no devices are available.
func InputDevices() ([]string, error) {
	return nil, fmt.Errorf("%w: built without cgo", capture.ErrNoDevice)
}
