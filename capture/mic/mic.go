//go:build cgo && !js

package mic

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
)

// Backend reads the default PortAudio input device.
type Backend struct {
	cfg      Config
	producer capture.Producer
	logger   *zap.Logger

	mu         sync.Mutex
	stream     *portaudio.Stream
	started    bool
	sampleRate float64
}

var _ capture.Backend = (*Backend)(nil)

// New creates a microphone backend writing to p.
func New(p capture.Producer, opts ...Option) (*Backend, error) {
	if p == nil {
		return nil, capture.ErrNilProducer
	}
	cfg, logger := newConfig(opts)
	return &Backend{cfg: cfg, producer: p, logger: logger}, nil
}

// Acquire initializes PortAudio and opens a mono input stream on the
// default device.
func (b *Backend) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mic: acquire: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream != nil {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("mic: initialize portaudio: %w", err)
	}

	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil || dev.MaxInputChannels < 1 {
		_ = portaudio.Terminate()
		if err != nil {
			return fmt.Errorf("%w: %v", capture.ErrNoDevice, err)
		}
		return capture.ErrNoDevice
	}

	sr := b.cfg.SampleRate
	if sr <= 0 {
		sr = dev.DefaultSampleRate
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, sr, b.cfg.FramesPerBuffer, b.callback)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("mic: open stream on %q: %w", dev.Name, err)
	}

	b.stream = stream
	b.sampleRate = sr
	b.logger.Info("input device opened",
		zap.String("device", dev.Name),
		zap.Float64("sampleRate", sr),
		zap.Int("framesPerBuffer", b.cfg.FramesPerBuffer))
	return nil
}

// Start starts the input stream.
func (b *Backend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream == nil {
		return capture.ErrNotAcquired
	}
	if b.started {
		return nil
	}
	if err := b.stream.Start(); err != nil {
		return fmt.Errorf("mic: start stream: %w", err)
	}
	b.started = true
	return nil
}

// Stop stops and closes the stream and terminates PortAudio.
func (b *Backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream == nil {
		return
	}
	if b.started {
		if err := b.stream.Stop(); err != nil {
			b.logger.Warn("stop stream", zap.Error(err))
		}
	}
	if err := b.stream.Close(); err != nil {
		b.logger.Warn("close stream", zap.Error(err))
	}
	_ = portaudio.Terminate()
	b.stream = nil
	b.started = false
	b.sampleRate = 0
}

// SampleRate returns the stream rate once acquired.
func (b *Backend) SampleRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sampleRate
}

// callback runs on the PortAudio thread.
func (b *Backend) callback(in []float32) {
	b.producer.PushBatch(in)
}

// InputDevices lists the names of devices with at least one input channel.
func InputDevices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("mic: initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("mic: list devices: %w", err)
	}
	var names []string
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}
