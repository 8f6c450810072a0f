//go:build fastmath

package pitch

import "github.com/meko-christian/algo-approx"

// mathSqrt trades a little accuracy in the correlation denominators for speed.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
