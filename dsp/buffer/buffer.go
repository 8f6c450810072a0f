package buffer

// Buffer wraps a float64 slice with reuse-friendly semantics.
// Analysis functions accept raw []float64; use Samples() to bridge.
type Buffer struct {
	samples []float64
}

// New returns an empty Buffer with room for capacity samples.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{samples: make([]float64, 0, capacity)}
}

// FromSlice wraps s without copying.
func FromSlice(s []float64) *Buffer {
	return &Buffer{samples: s}
}

// Samples returns the underlying slice. It is only valid until the next
// Reset or Append call.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// IsEmpty reports whether the buffer holds no samples.
func (b *Buffer) IsEmpty() bool {
	return len(b.samples) == 0
}

// Grow ensures capacity is at least n, preserving existing data.
// If the current capacity is already >= n this is a no-op.
func (b *Buffer) Grow(n int) {
	if n <= cap(b.samples) {
		return
	}
	grown := make([]float64, len(b.samples), n)
	copy(grown, b.samples)
	b.samples = grown
}

// Resize sets the length to n. New elements are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	old := len(b.samples)
	b.Grow(n)
	b.samples = b.samples[:n]
	if n > old {
		clear(b.samples[old:])
	}
}

// Zero sets every sample to 0 without changing the length.
func (b *Buffer) Zero() {
	clear(b.samples)
}

// Reset sets the length to 0 and keeps the backing array for reuse.
func (b *Buffer) Reset() {
	b.samples = b.samples[:0]
}

// AppendFloat32 widens src to float64 and appends it, growing capacity only
// when the backing array is too small.
func (b *Buffer) AppendFloat32(src []float32) {
	n := len(b.samples)
	b.Grow(n + len(src))
	b.samples = b.samples[:n+len(src)]
	for i, v := range src {
		b.samples[n+i] = float64(v)
	}
}

// Decimate returns n samples taken at a stride of Len()/n, starting with
// the first sample. A copy of the whole buffer is returned when n >= Len(),
// and an empty slice when the buffer is empty or n <= 0.
func (b *Buffer) Decimate(n int) []float64 {
	size := len(b.samples)
	if size == 0 || n <= 0 {
		return []float64{}
	}
	if n >= size {
		return b.Copy()
	}

	stride := size / n
	out := make([]float64, n)
	for i := range out {
		out[i] = b.samples[i*stride]
	}
	return out
}

// Copy returns a copy of the current samples.
func (b *Buffer) Copy() []float64 {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return s
}
