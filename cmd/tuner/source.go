package main

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/capture/file"
	"github.com/cwbudde/algo-tuner/capture/mic"
	"github.com/cwbudde/algo-tuner/capture/tone"
	"github.com/cwbudde/algo-tuner/session"
)

// source couples a backend factory with a channel that closes when the
// source runs out of audio. Live sources never close it.
type source struct {
	factory session.Factory

	mu   sync.Mutex
	file *file.Backend
}

func (s *source) done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil || s.file.Done() == nil {
		return nil
	}
	return s.file.Done()
}

func newSource(opts options, logger *zap.Logger) (*source, error) {
	kind, err := capture.ParseKind(opts.source)
	if err != nil {
		return nil, err
	}

	src := &source{}
	switch kind {
	case capture.KindTone:
		src.factory = func(p capture.Producer) (capture.Backend, error) {
			toneOpts := []tone.Option{
				tone.WithFrequency(opts.toneFreq),
				tone.WithNoise(opts.toneNoise),
				tone.WithLogger(logger),
			}
			if opts.sampleRate > 0 {
				toneOpts = append(toneOpts, tone.WithSampleRate(opts.sampleRate))
			}
			return tone.New(p, toneOpts...)
		}
	case capture.KindFile:
		if opts.file == "" {
			return nil, errors.New("-source file requires -file")
		}
		src.factory = func(p capture.Producer) (capture.Backend, error) {
			b, err := file.New(p, opts.file, file.WithLoop(opts.loop), file.WithLogger(logger))
			if err != nil {
				return nil, err
			}
			src.mu.Lock()
			src.file = b
			src.mu.Unlock()
			return b, nil
		}
	case capture.KindMic:
		src.factory = func(p capture.Producer) (capture.Backend, error) {
			return mic.New(p, mic.WithSampleRate(opts.sampleRate), mic.WithLogger(logger))
		}
	default:
		return nil, fmt.Errorf("source %q is only available in the browser build", kind)
	}
	return src, nil
}
