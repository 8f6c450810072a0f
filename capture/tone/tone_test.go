package tone

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/dsp/ring"
	"github.com/cwbudde/algo-tuner/internal/testutil"
)

func newRing(t *testing.T, capacity int) *ring.Channel {
	t.Helper()
	ch, err := ring.New(capacity)
	if err != nil {
		t.Fatal(err)
	}
	return ch
}

func TestGenerateContinuesPhase(t *testing.T) {
	b, err := New(newRing(t, 8), WithSampleRate(8000), WithFrequency(440), WithAmplitude(0.8))
	if err != nil {
		t.Fatal(err)
	}
	got := make([]float32, 300)
	b.Generate(got[:100])
	b.Generate(got[100:])

	want := testutil.DeterministicSine(440, 8000, 0.8, 300)
	for i := range want {
		if math.Abs(float64(got[i])-want[i]) > 1e-5 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateNoiseIsSeeded(t *testing.T) {
	a, _ := New(newRing(t, 8), WithAmplitude(0), WithNoise(0.5), WithSeed(11))
	b, _ := New(newRing(t, 8), WithAmplitude(0), WithNoise(0.5), WithSeed(11))
	x := make([]float32, 64)
	y := make([]float32, 64)
	a.Generate(x)
	b.Generate(y)

	var nonZero bool
	for i := range x {
		if x[i] != y[i] {
			t.Fatalf("sample %d differs between equal seeds", i)
		}
		if x[i] > 0.5 || x[i] < -0.5 {
			t.Fatalf("sample %d = %v exceeds noise amplitude", i, x[i])
		}
		nonZero = nonZero || x[i] != 0
	}
	if !nonZero {
		t.Fatal("noise generator produced silence")
	}
}

func TestLifecycle(t *testing.T) {
	ch := newRing(t, 1<<16)
	b, err := New(ch, WithSampleRate(48000), WithFramesPerBuffer(480))
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Start(); !errors.Is(err, capture.ErrNotAcquired) {
		t.Fatalf("Start() before Acquire err = %v, want ErrNotAcquired", err)
	}
	if b.SampleRate() != 0 {
		t.Fatalf("SampleRate() before Acquire = %v, want 0", b.SampleRate())
	}
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.SampleRate() != 48000 {
		t.Fatalf("SampleRate() = %v, want 48000", b.SampleRate())
	}

	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("second Start() err = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ch.Len() < 960 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ch.Len() < 960 {
		t.Fatalf("only %d samples pushed", ch.Len())
	}
	if ch.Len()%480 != 0 {
		t.Fatalf("Len() = %d, want whole buffers", ch.Len())
	}

	b.Stop()
	n := ch.Len()
	time.Sleep(30 * time.Millisecond)
	if ch.Len() != n {
		t.Fatalf("samples pushed after Stop: %d -> %d", n, ch.Len())
	}
	b.Stop()
}

func TestAcquireCancelled(t *testing.T) {
	b, _ := New(newRing(t, 8))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Acquire() err = %v, want context.Canceled", err)
	}
}

func TestNewNilProducer(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, capture.ErrNilProducer) {
		t.Fatalf("New(nil) err = %v, want ErrNilProducer", err)
	}
}
