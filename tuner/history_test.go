package tuner

import "testing"

func TestHistoryOverwritesOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(Result{Drained: i, RMS: float64(i) / 10})
	}
	if h.Len() != 3 || h.Capacity() != 3 {
		t.Fatalf("Len/Capacity = %d/%d, want 3/3", h.Len(), h.Capacity())
	}

	vals := h.Values()
	for i, want := range []int{3, 4, 5} {
		if vals[i].Drained != want {
			t.Fatalf("Values()[%d].Drained = %d, want %d", i, vals[i].Drained, want)
		}
	}
	rms := h.RMSValues()
	if rms[0] != 0.3 || rms[2] != 0.5 {
		t.Fatalf("RMSValues() = %v", rms)
	}
	last, ok := h.Last()
	if !ok || last.Drained != 5 {
		t.Fatalf("Last() = %+v, %v", last, ok)
	}
}

func TestHistoryPartialAndClear(t *testing.T) {
	h := NewHistory(4)
	if _, ok := h.Last(); ok {
		t.Fatal("Last() on empty history reported a value")
	}
	h.Push(Result{Drained: 1})
	h.Push(Result{Drained: 2})
	if got := h.Values(); len(got) != 2 || got[0].Drained != 1 {
		t.Fatalf("Values() = %+v", got)
	}

	h.Clear()
	if h.Len() != 0 || len(h.Values()) != 0 {
		t.Fatal("Clear() left results behind")
	}
	h.Push(Result{Drained: 7})
	if last, _ := h.Last(); last.Drained != 7 {
		t.Fatalf("Last() after Clear = %+v", last)
	}
}

func TestHistoryNilSafe(t *testing.T) {
	var h *History
	if h.Len() != 0 || h.Capacity() != 0 || h.Values() != nil || h.RMSValues() != nil {
		t.Fatal("nil History accessors returned data")
	}
	if _, ok := h.Last(); ok {
		t.Fatal("nil History Last() reported a value")
	}
	h.Clear()
}

func TestNewHistoryMinimumCapacity(t *testing.T) {
	if NewHistory(0).Capacity() != 1 {
		t.Fatal("NewHistory(0) capacity != 1")
	}
}
