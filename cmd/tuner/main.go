// Command tuner prints live loudness, pitch or waveform readings from a
// microphone, an audio file or a synthetic tone.
//
// Usage:
//
//	tuner [flags]
//
// Examples:
//
//	tuner -source mic -visualizer freq
//	tuner -source file -file riff.wav -visualizer freq
//	tuner -source tone -tone-freq 82.41 -duration 3s
//	tuner -list-devices
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture/mic"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/internal/logging"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/session"
	"github.com/cwbudde/algo-tuner/tuner"
)

type options struct {
	source     string
	file       string
	loop       bool
	toneFreq   float64
	toneNoise  float64
	sampleRate float64
	visualizer string
	interval   time.Duration
	duration   time.Duration
	width      int
	minFreq    float64
	maxFreq    float64
	method     string
	blockSize  int
}

func main() {
	var opts options
	flag.StringVar(&opts.source, "source", "mic", "audio source: mic, file or tone")
	flag.StringVar(&opts.file, "file", "", "audio file for -source file (.wav, .mp3, .ogg)")
	flag.BoolVar(&opts.loop, "loop", false, "loop the audio file")
	flag.Float64Var(&opts.toneFreq, "tone-freq", 110, "frequency of the test tone in Hz")
	flag.Float64Var(&opts.toneNoise, "tone-noise", 0, "white noise amplitude added to the test tone")
	flag.Float64Var(&opts.sampleRate, "sample-rate", 0, "capture sample rate in Hz (0 = device default)")
	flag.StringVar(&opts.visualizer, "visualizer", "rms", "output mode: rms, freq or wave")
	flag.DurationVar(&opts.interval, "interval", 100*time.Millisecond, "analysis interval")
	flag.DurationVar(&opts.duration, "duration", 0, "stop after this long (0 = until interrupted)")
	flag.IntVar(&opts.width, "width", 50, "bar width in characters")
	flag.Float64Var(&opts.minFreq, "min-freq", pitch.DefaultMinFrequency, "lowest detectable frequency in Hz")
	flag.Float64Var(&opts.maxFreq, "max-freq", pitch.DefaultMaxFrequency, "highest detectable frequency in Hz")
	flag.StringVar(&opts.method, "method", "fft", "autocorrelation method: fft or direct")
	flag.IntVar(&opts.blockSize, "block", core.DefaultBlockSize, "samples analysed per interval")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	logDev := flag.Bool("log-dev", false, "human-readable log output")
	listDevices := flag.Bool("list-devices", false, "list audio input devices and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tuner [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints live loudness, pitch or waveform readings.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listDevices {
		names, err := mic.InputDevices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	logger, err := logging.New(
		logging.WithLevel(*logLevel),
		logging.WithDevelopment(*logDev),
		logging.WithFields(map[string]any{"cmd": "tuner"}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer, logger *zap.Logger) error {
	render, err := renderer(opts.visualizer, opts.width)
	if err != nil {
		return err
	}
	method, err := parseMethod(opts.method)
	if err != nil {
		return err
	}
	src, err := newSource(opts, logger)
	if err != nil {
		return err
	}
	if opts.interval <= 0 {
		return errors.New("interval must be positive")
	}

	s := session.New(src.factory,
		session.WithConfig(core.ApplyProcessorOptions(
			core.WithBlockSize(opts.blockSize),
			core.WithSampleRate(opts.sampleRate),
		)),
		session.WithLogger(logger),
		session.WithAnalyzerOptions(
			tuner.WithPitchOptions(
				pitch.WithFrequencyRange(opts.minFreq, opts.maxFreq),
				pitch.WithMethod(method),
			),
			tuner.WithHistory(trendPoints),
		),
	)
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Stop()

	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	detect := opts.visualizer == "freq"
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-src.done():
			drain(s, detect, render, out)
			return nil
		case <-ticker.C:
			res, ok := s.Tick(detect)
			if !ok {
				return nil
			}
			render(out, res, s.Analyzer())
		}
	}
}

// drain analyses what is left in the channel after a file ends.
func drain(s *session.Session, detect bool, render renderFunc, out io.Writer) {
	for {
		res, ok := s.Tick(detect)
		if !ok || res.Drained == 0 {
			return
		}
		render(out, res, s.Analyzer())
	}
}

func parseMethod(name string) (pitch.Method, error) {
	switch strings.ToLower(name) {
	case "fft":
		return pitch.MethodFFT, nil
	case "direct":
		return pitch.MethodDirect, nil
	default:
		return 0, fmt.Errorf("unknown method %q (want fft or direct)", name)
	}
}
