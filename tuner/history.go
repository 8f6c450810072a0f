package tuner

// History is a fixed-capacity ring of results that overwrites the oldest
// entry when full. It is not safe for concurrent use.
type History struct {
	items []Result
	start int
	n     int
}

// NewHistory creates a History holding up to capacity results.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{items: make([]Result, capacity)}
}

// Push appends r, evicting the oldest result when full.
func (h *History) Push(r Result) {
	c := len(h.items)
	if h.n < c {
		h.items[(h.start+h.n)%c] = r
		h.n++
		return
	}
	h.items[h.start] = r
	h.start = (h.start + 1) % c
}

// Last returns the newest result.
func (h *History) Last() (Result, bool) {
	if h == nil || h.n == 0 {
		return Result{}, false
	}
	return h.items[(h.start+h.n-1)%len(h.items)], true
}

// Values returns the results from oldest to newest.
func (h *History) Values() []Result {
	if h == nil {
		return nil
	}
	out := make([]Result, h.n)
	for i := range out {
		out[i] = h.items[(h.start+i)%len(h.items)]
	}
	return out
}

// RMSValues returns the RMS of each result from oldest to newest.
func (h *History) RMSValues() []float64 {
	if h == nil {
		return nil
	}
	out := make([]float64, h.n)
	for i := range out {
		out[i] = h.items[(h.start+i)%len(h.items)].RMS
	}
	return out
}

// Len returns the number of stored results.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return h.n
}

// Capacity returns the maximum number of stored results.
func (h *History) Capacity() int {
	if h == nil {
		return 0
	}
	return len(h.items)
}

// Clear drops all results.
func (h *History) Clear() {
	if h == nil {
		return
	}
	h.start, h.n = 0, 0
}
