package tuner

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
	"github.com/cwbudde/algo-tuner/internal/logging"
	"github.com/cwbudde/algo-tuner/measure/level"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

// ErrNilSource is returned by NewAnalyzer when no Source is given.
var ErrNilSource = errors.New("tuner: nil source")

// Source is the consumer side of a sample channel.
type Source interface {
	PopBlock(out []float32) int
}

// Result is the outcome of one Tick.
type Result struct {
	// Drained is the number of samples analysed.
	Drained int
	RMS     float64
	// DB is RMS in dBFS, floored at level.SilenceFloor.
	DB float64
	// Pitched reports whether Frequency and Note are valid.
	Pitched   bool
	Frequency float64
	Note      string
	Clarity   float64
}

// Analyzer computes per-block readings. Tick and the read accessors must be
// called from one goroutine; SetSampleRate may be called from any.
type Analyzer struct {
	src    Source
	cfg    Config
	logger *zap.Logger

	block    []float32
	buf      *buffer.Buffer
	detector *pitch.Detector
	rate     atomic.Uint64
	result   Result
	history  *History
}

// NewAnalyzer creates an Analyzer reading from src.
func NewAnalyzer(src Source, opts ...Option) (*Analyzer, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	det, err := pitch.New(cfg.PitchOptions...)
	if err != nil {
		return nil, fmt.Errorf("tuner: pitch detector: %w", err)
	}

	a := &Analyzer{
		src:      src,
		cfg:      cfg,
		logger:   logging.OrNop(cfg.Logger),
		block:    make([]float32, cfg.BlockSize),
		buf:      buffer.New(cfg.BlockSize),
		detector: det,
		result:   silentResult(0),
	}
	a.SetSampleRate(cfg.SampleRate)
	if cfg.History > 0 {
		a.history = NewHistory(cfg.History)
	}
	if minLen := det.Config().MinBufferLength; cfg.BlockSize < minLen {
		a.logger.Warn("block size below pitch minimum; pitch will never be detected",
			zap.Int("blockSize", cfg.BlockSize), zap.Int("minBufferLength", minLen))
	}
	return a, nil
}

// Tick drains up to one block and analyses it. With detectPitch false only
// loudness is computed.
func (a *Analyzer) Tick(detectPitch bool) Result {
	n := a.src.PopBlock(a.block)
	a.buf.Reset()
	a.buf.AppendFloat32(a.block[:n])

	if n == 0 {
		a.result = silentResult(0)
		return a.result
	}

	samples := a.buf.Samples()
	res := silentResult(n)
	res.RMS = level.RMS(samples)
	res.DB = level.ToDB(res.RMS)

	if sr := a.SampleRate(); detectPitch && sr > 0 {
		a.detector.SetSampleRate(sr)
		if est, ok := a.detector.Detect(samples); ok {
			res.Pitched = true
			res.Frequency = est.Frequency
			res.Note = pitch.FreqToNote(est.Frequency)
			res.Clarity = est.Clarity
		}
	}

	a.result = res
	if a.history != nil {
		a.history.Push(res)
	}
	if ce := a.logger.Check(zap.DebugLevel, "analyzer tick"); ce != nil {
		ce.Write(zap.Int("drained", n), zap.Float64("rms", res.RMS), zap.Bool("pitched", res.Pitched))
	}
	return res
}

// Result returns the result of the last Tick.
func (a *Analyzer) Result() Result {
	return a.result
}

// RMS returns the loudness of the last block, 0 when it was empty.
func (a *Analyzer) RMS() float64 {
	return a.result.RMS
}

// Frequency returns the last detected fundamental.
func (a *Analyzer) Frequency() (float64, bool) {
	return a.result.Frequency, a.result.Pitched
}

// Note returns the note name of the last detected fundamental.
func (a *Analyzer) Note() (string, bool) {
	return a.result.Note, a.result.Pitched
}

// Samples returns up to n samples of the last block, evenly strided.
func (a *Analyzer) Samples(n int) []float64 {
	return a.buf.Decimate(n)
}

// SampleRate returns the current sample rate, 0 when unknown.
func (a *Analyzer) SampleRate() float64 {
	return math.Float64frombits(a.rate.Load())
}

// SetSampleRate updates the sample rate used for pitch detection. Negative
// and non-finite values are ignored; 0 marks the rate as unknown.
func (a *Analyzer) SetSampleRate(sampleRate float64) {
	if sampleRate < 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return
	}
	a.rate.Store(math.Float64bits(sampleRate))
}

// BlockSize returns the per-tick drain size.
func (a *Analyzer) BlockSize() int {
	return a.cfg.BlockSize
}

// History returns the result history, nil when disabled.
func (a *Analyzer) History() *History {
	return a.history
}

func silentResult(drained int) Result {
	return Result{Drained: drained, DB: level.ToDB(0)}
}
