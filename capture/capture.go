package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDevice is returned when no suitable input device exists.
	ErrNoDevice = errors.New("capture: no input device")
	// ErrPermissionDenied is returned when access to the input was refused.
	ErrPermissionDenied = errors.New("capture: permission denied")
	// ErrNotAcquired is returned by Start before a successful Acquire.
	ErrNotAcquired = errors.New("capture: backend not acquired")
	// ErrUnsupportedFormat is returned for audio files that cannot be decoded.
	ErrUnsupportedFormat = errors.New("capture: unsupported format")
	// ErrUnknownKind is returned by ParseKind.
	ErrUnknownKind = errors.New("capture: unknown source kind")
	// ErrNilProducer is returned by backend constructors given no Producer.
	ErrNilProducer = errors.New("capture: nil producer")
)

// Producer is the write side of a sample channel.
type Producer interface {
	Push(sample float32) bool
	PushBatch(samples []float32) (dropped int)
}

// Backend is an audio source feeding a Producer.
type Backend interface {
	// Acquire obtains the underlying resource. It may block until ctx is done.
	Acquire(ctx context.Context) error
	// Start begins delivery. Calling Start on a running backend is a no-op.
	Start() error
	// Stop ends delivery and releases resources. It is idempotent.
	Stop()
	// SampleRate is the delivered rate in Hz, 0 until Acquire succeeds.
	SampleRate() float64
}

// Kind identifies a backend type.
type Kind int

const (
	KindTone Kind = iota
	KindFile
	KindMic
	KindBrowser
)

var kindNames = [...]string{"tone", "file", "mic", "browser"}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Downmix averages interleaved frames of the given channel count into dst
// and returns the number of mono samples written. Trailing partial frames
// are ignored.
func Downmix(dst, interleaved []float32, channels int) int {
	if channels <= 1 {
		return copy(dst, interleaved)
	}
	frames := min(len(interleaved)/channels, len(dst))
	scale := 1 / float32(channels)
	for f := 0; f < frames; f++ {
		var sum float32
		for _, v := range interleaved[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum * scale
	}
	return frames
}
