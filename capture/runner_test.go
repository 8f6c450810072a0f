package capture

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerStopsWhenStepDeclines(t *testing.T) {
	var r Runner
	var calls atomic.Int32
	if !r.Start(time.Millisecond, func() bool { return calls.Add(1) < 3 }) {
		t.Fatal("Start() = false on a fresh runner")
	}

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not finish")
	}
	if calls.Load() != 3 {
		t.Fatalf("step called %d times, want 3", calls.Load())
	}
	if r.Running() {
		t.Fatal("Running() after completion")
	}
	r.Stop()
	r.Stop()
}

func TestRunnerStartIsIdempotentAndRestartable(t *testing.T) {
	var r Runner
	if r.Running() || r.Done() != nil {
		t.Fatal("fresh runner reports activity")
	}
	step := func() bool { return true }
	if !r.Start(time.Millisecond, step) {
		t.Fatal("first Start() = false")
	}
	if r.Start(time.Millisecond, step) {
		t.Fatal("second Start() on a running runner = true")
	}
	if !r.Running() {
		t.Fatal("Running() = false")
	}

	r.Stop()
	if r.Running() {
		t.Fatal("Running() after Stop")
	}
	if !r.Start(time.Millisecond, step) {
		t.Fatal("restart after Stop failed")
	}
	r.Stop()
}

func TestBufferPeriod(t *testing.T) {
	if got := BufferPeriod(480, 48000); got != 10*time.Millisecond {
		t.Fatalf("BufferPeriod(480, 48000) = %v, want 10ms", got)
	}
	if got := BufferPeriod(0, 48000); got != time.Millisecond {
		t.Fatalf("BufferPeriod(0, _) = %v, want 1ms", got)
	}
}
