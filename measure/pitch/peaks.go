package pitch

import "math"

const (
	// octaveTolerance is how far below the highest peak an earlier peak may
	// sit and still be chosen as the period.
	octaveTolerance = 0.1
	// harmonicTolerance is the allowed distance of a lag ratio from an
	// integer for two peaks to count as harmonically related.
	harmonicTolerance = 0.08
	// flatCurvature is the parabola denominator below which refinement is skipped.
	flatCurvature = 1e-12
)

type peak struct {
	lag   int
	value float64
}

// findPeaks appends to dst the local maxima of corr (indexed lag-lo) whose lag
// lies in [minLag, maxLag). corr must cover [minLag-1, maxLag].
func findPeaks(dst []peak, corr []float64, lo, minLag, maxLag int) []peak {
	dst = dst[:0]
	for lag := minLag; lag < maxLag; lag++ {
		c := corr[lag-lo]
		if c > corr[lag-lo-1] && c >= corr[lag-lo+1] {
			dst = append(dst, peak{lag: lag, value: c})
		}
	}
	return dst
}

// harmonic reports whether lags a and b are near an integer ratio.
func harmonic(a, b int) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	q := float64(a) / float64(b)
	if q < 1 {
		q = 1 / q
	}
	return math.Abs(q-math.Round(q)) <= harmonicTolerance
}

// selectPeak picks the period peak and its strongest non-harmonic rival.
// It returns false when there are no peaks.
func selectPeak(peaks []peak) (best peak, second float64, ok bool) {
	if len(peaks) == 0 {
		return peak{}, 0, false
	}

	top := peaks[0].value
	for _, p := range peaks[1:] {
		top = math.Max(top, p.value)
	}
	floor := top - octaveTolerance*math.Abs(top)
	for _, p := range peaks {
		if p.value >= floor {
			best = p
			break
		}
	}

	for _, p := range peaks {
		if p.lag == best.lag || harmonic(p.lag, best.lag) {
			continue
		}
		second = math.Max(second, p.value)
	}
	return best, second, true
}

// parabolicOffset returns the vertex offset of the parabola through
// (-1, cm), (0, c0), (1, cp), clamped to [-1, 1].
func parabolicOffset(cm, c0, cp float64) float64 {
	den := cm - 2*c0 + cp
	if math.Abs(den) < flatCurvature {
		return 0
	}
	off := 0.5 * (cm - cp) / den
	return math.Max(-1, math.Min(1, off))
}
