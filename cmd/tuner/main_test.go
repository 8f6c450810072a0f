package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/tuner"
)

func defaultOptions() options {
	return options{
		source:     "tone",
		toneFreq:   110,
		visualizer: "rms",
		interval:   100 * time.Millisecond,
		width:      50,
		minFreq:    pitch.DefaultMinFrequency,
		maxFreq:    pitch.DefaultMaxFrequency,
		method:     "fft",
		blockSize:  4096,
	}
}

func TestRMSLine(t *testing.T) {
	tests := []struct {
		rms  float64
		bars int
		db   string
	}{
		{0.5, 8, "  -6.0 dB"},
		{0.001, 0, " -60.0 dB"},
		{0, 0, "-180.0 dB"},
		{0.1, 6, " -20.0 dB"},
	}
	for _, tt := range tests {
		got := rmsLine(tuner.Result{RMS: tt.rms}, 10)
		want := strings.Repeat("█", tt.bars) + strings.Repeat(" ", 10-tt.bars) + " " + tt.db
		if got != want {
			t.Errorf("rmsLine(%v) = %q, want %q", tt.rms, got, want)
		}
	}

	full := rmsLine(tuner.Result{RMS: 3}, 4)
	if !strings.HasPrefix(full, strings.Repeat("█", 4)+" ") {
		t.Fatalf("rmsLine() over full scale = %q", full)
	}
}

func TestTrendLine(t *testing.T) {
	if got := trendLine(nil, 4); got != "" {
		t.Fatalf("trendLine(nil) = %q", got)
	}
	got := trendLine([]float64{1, 0, 0.001, 1, 0.1}, 4)
	if got != "▁▁█▆" {
		t.Fatalf("trendLine() = %q, want %q", got, "▁▁█▆")
	}
}

func TestRunToneRMSTrend(t *testing.T) {
	opts := defaultOptions()
	opts.duration = 800 * time.Millisecond

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, zap.NewNop()); err != nil {
		t.Fatalf("run() err = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "dB ") || !strings.ContainsAny(last, "▆▇") {
		t.Fatalf("last rms line has no trend:\n%s", out.String())
	}
}

func TestFreqLine(t *testing.T) {
	got := freqLine(tuner.Result{Pitched: true, Frequency: 110, RMS: 0.354})
	if got != "Freq: 110.00Hz | A2 +0 cents | rms = 0.354" {
		t.Fatalf("freqLine() = %q", got)
	}
	if got := freqLine(tuner.Result{RMS: 0.01}); !strings.HasPrefix(got, "Freq: --") {
		t.Fatalf("freqLine(unpitched) = %q", got)
	}
}

func TestWaveLines(t *testing.T) {
	got := waveLines([]float64{0, 0.5, -1, 2}, 8)
	want := []string{"", "####", "########", "########"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRendererAndMethodErrors(t *testing.T) {
	if _, err := renderer("spectrum", 10); err == nil {
		t.Fatal("renderer(spectrum) succeeded")
	}
	if _, err := renderer("rms", 0); err == nil {
		t.Fatal("renderer with zero width succeeded")
	}
	if _, err := parseMethod("yin"); err == nil {
		t.Fatal("parseMethod(yin) succeeded")
	}
	if m, err := parseMethod("DIRECT"); err != nil || m != pitch.MethodDirect {
		t.Fatalf("parseMethod(DIRECT) = %v, %v", m, err)
	}
}

func TestNewSourceErrors(t *testing.T) {
	for _, src := range []string{"browser", "jack"} {
		opts := defaultOptions()
		opts.source = src
		if _, err := newSource(opts, zap.NewNop()); err == nil {
			t.Errorf("newSource(%q) succeeded", src)
		}
	}
	opts := defaultOptions()
	opts.source = "file"
	if _, err := newSource(opts, zap.NewNop()); err == nil {
		t.Error("file source without -file succeeded")
	}
}

func TestRunToneFreq(t *testing.T) {
	opts := defaultOptions()
	opts.visualizer = "freq"
	opts.duration = 800 * time.Millisecond

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, zap.NewNop()); err != nil {
		t.Fatalf("run() err = %v", err)
	}
	if !strings.Contains(out.String(), "| A2 ") {
		t.Fatalf("output never showed A2:\n%s", out.String())
	}
}

func TestRunFileEndsWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]int, 3200)
	for i := range data {
		data[i] = int(16000 * math.Sin(2*math.Pi*110*float64(i)/8000))
	}
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	if err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	opts := defaultOptions()
	opts.source = "file"
	opts.file = path
	opts.interval = 50 * time.Millisecond
	opts.duration = 10 * time.Second

	var out bytes.Buffer
	start := time.Now()
	if err := run(context.Background(), opts, &out, zap.NewNop()); err != nil {
		t.Fatalf("run() err = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("run() took %v, want it to end with the file", elapsed)
	}
	if !strings.Contains(out.String(), "█") {
		t.Fatalf("no level bars in output:\n%s", out.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	opts := defaultOptions()
	opts.source = "file"
	opts.file = filepath.Join(t.TempDir(), "missing.wav")
	if err := run(context.Background(), opts, &bytes.Buffer{}, zap.NewNop()); err == nil {
		t.Fatal("run() with a missing file succeeded")
	}
}
