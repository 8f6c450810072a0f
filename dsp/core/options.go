package core

import "math"

const (
	// DefaultSampleRate is the nominal capture rate used until a backend reports its own.
	DefaultSampleRate = 48000.0

	// DefaultBlockSize is the number of samples the analyzer drains per tick.
	DefaultBlockSize = 4096

	// DefaultChannelSeconds sizes the sample channel to roughly two seconds of audio.
	DefaultChannelSeconds = 2.0
)

// ProcessorConfig defines common processing settings shared by the sample
// channel, the analyzer and the capture session.
type ProcessorConfig struct {
	SampleRate     float64
	BlockSize      int
	ChannelSeconds float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for live capture.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:     DefaultSampleRate,
		BlockSize:      DefaultBlockSize,
		ChannelSeconds: DefaultChannelSeconds,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the analyzer block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannelSeconds sets how many seconds of audio the sample channel holds.
func WithChannelSeconds(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 {
			cfg.ChannelSeconds = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ChannelCapacity returns the sample channel capacity for cfg. It never
// returns less than one analyzer block.
func (cfg ProcessorConfig) ChannelCapacity() int {
	capacity := int(math.Ceil(cfg.SampleRate * cfg.ChannelSeconds))
	if capacity < cfg.BlockSize {
		capacity = cfg.BlockSize
	}
	return capacity
}
