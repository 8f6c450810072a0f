package ring

import (
	"errors"
	"sync/atomic"
)

// ErrInvalidCapacity is returned by New for a non-positive capacity.
var ErrInvalidCapacity = errors.New("ring: capacity must be positive")

// cacheLinePad keeps the producer and consumer cursors on separate cache lines.
type cacheLinePad [64]byte

// Channel is a fixed-capacity lock-free SPSC queue of samples.
//
// Cursors are monotonically increasing counters; the slot of a cursor is
// cursor % capacity. The write cursor is only stored by the producer and the
// read cursor only by the consumer, so Len is always writePos - readPos.
type Channel struct {
	data     []float32
	capacity uint64

	_        cacheLinePad
	writePos atomic.Uint64
	dropped  atomic.Uint64
	_        cacheLinePad
	readPos  atomic.Uint64
	_        cacheLinePad
}

// Stats reports channel health for diagnostics.
type Stats struct {
	Pushed         uint64
	Popped         uint64
	Dropped        uint64
	Len            int
	Capacity       int
	FillPercentage float64
}

// New returns an empty channel holding at most capacity samples.
func New(capacity int) (*Channel, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Channel{
		data:     make([]float32, capacity),
		capacity: uint64(capacity),
	}, nil
}

// Push enqueues one sample. It reports false and drops the sample when the
// channel is full.
func (c *Channel) Push(sample float32) bool {
	w := c.writePos.Load()
	r := c.readPos.Load()
	if w-r >= c.capacity {
		c.dropped.Add(1)
		return false
	}
	c.data[w%c.capacity] = sample
	c.writePos.Store(w + 1)
	return true
}

// PushBatch enqueues as many samples as fit and returns how many were
// dropped from the tail of samples.
func (c *Channel) PushBatch(samples []float32) (dropped int) {
	if len(samples) == 0 {
		return 0
	}

	w := c.writePos.Load()
	r := c.readPos.Load()
	free := c.capacity - (w - r)

	n := uint64(len(samples))
	if n > free {
		n = free
	}
	dropped = len(samples) - int(n)

	if n > 0 {
		start := w % c.capacity
		first := n
		if start+first > c.capacity {
			first = c.capacity - start
		}
		copy(c.data[start:start+first], samples[:first])
		copy(c.data[:n-first], samples[first:n])
		c.writePos.Store(w + n)
	}

	if dropped > 0 {
		c.dropped.Add(uint64(dropped))
	}
	return dropped
}

// Pop removes and returns the oldest sample. ok is false when the channel is empty.
func (c *Channel) Pop() (sample float32, ok bool) {
	r := c.readPos.Load()
	w := c.writePos.Load()
	if r == w {
		return 0, false
	}
	sample = c.data[r%c.capacity]
	c.readPos.Store(r + 1)
	return sample, true
}

// PopBlock moves up to len(out) of the oldest samples into out and returns
// the number read. It does not wait for more samples.
func (c *Channel) PopBlock(out []float32) int {
	r := c.readPos.Load()
	n := c.read(out, r)
	if n > 0 {
		c.readPos.Store(r + uint64(n))
	}
	return n
}

// PeekBlock copies up to len(out) of the oldest samples into out without
// consuming them. It must be called from the consumer side.
func (c *Channel) PeekBlock(out []float32) int {
	return c.read(out, c.readPos.Load())
}

// Reset discards every buffered sample. It must be called from the consumer side.
func (c *Channel) Reset() {
	c.readPos.Store(c.writePos.Load())
}

// Len returns the number of buffered samples.
func (c *Channel) Len() int {
	r := c.readPos.Load()
	w := c.writePos.Load()
	return int(occupancy(r, w, c.capacity))
}

// Capacity returns the maximum number of buffered samples.
func (c *Channel) Capacity() int {
	return int(c.capacity)
}

// IsEmpty reports whether no samples are buffered.
func (c *Channel) IsEmpty() bool {
	return c.Len() == 0
}

// Dropped returns the number of samples rejected because the channel was full.
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}

// Stats returns a snapshot of the channel counters.
func (c *Channel) Stats() Stats {
	r := c.readPos.Load()
	w := c.writePos.Load()
	used := occupancy(r, w, c.capacity)
	return Stats{
		Pushed:         w,
		Popped:         r,
		Dropped:        c.dropped.Load(),
		Len:            int(used),
		Capacity:       int(c.capacity),
		FillPercentage: float64(used) / float64(c.capacity) * 100,
	}
}

func (c *Channel) read(out []float32, r uint64) int {
	if len(out) == 0 {
		return 0
	}

	w := c.writePos.Load()
	n := occupancy(r, w, c.capacity)
	if uint64(len(out)) < n {
		n = uint64(len(out))
	}
	if n == 0 {
		return 0
	}

	start := r % c.capacity
	first := n
	if start+first > c.capacity {
		first = c.capacity - start
	}
	copy(out[:first], c.data[start:start+first])
	copy(out[first:n], c.data[:n-first])
	return int(n)
}

// occupancy returns writePos - readPos clamped to [0, capacity].
func occupancy(r, w, capacity uint64) uint64 {
	if w < r {
		return 0
	}
	used := w - r
	if used > capacity {
		return capacity
	}
	return used
}
