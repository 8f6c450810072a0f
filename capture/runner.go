package capture

import (
	"math"
	"sync"
	"time"
)

// Runner calls a step function on a fixed period from its own goroutine.
// Backends that synthesize or replay audio use it to deliver one buffer per
// buffer duration.
type Runner struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Start launches the goroutine unless it is already running and reports
// whether it did. The goroutine ends when step returns false or Stop is
// called.
func (r *Runner) Start(period time.Duration, step func() bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		select {
		case <-r.done:
		default:
			return false
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	r.stop, r.done = stop, done

	go func() {
		defer close(done)
		if !step() {
			return
		}
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !step() {
					return
				}
			}
		}
	}()
	return true
}

// Stop ends the goroutine and waits for it. It is safe to call repeatedly.
func (r *Runner) Stop() {
	r.mu.Lock()
	stop, done := r.stop, r.done
	r.stop = nil
	r.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if done != nil {
		<-done
	}
}

// Running reports whether the goroutine is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the current goroutine ends. It is nil
// before the first Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// BufferPeriod is the wall-clock duration of frames samples at sampleRate.
func BufferPeriod(frames int, sampleRate float64) time.Duration {
	if frames <= 0 || !(sampleRate > 0) {
		return time.Millisecond
	}
	return time.Duration(math.Round(float64(frames) * float64(time.Second) / sampleRate))
}
