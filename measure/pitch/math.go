//go:build !fastmath

package pitch

import "math"

func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}
