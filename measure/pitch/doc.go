// Package pitch estimates the fundamental frequency of a block of mono
// samples and maps frequencies to equal-tempered note names.
//
// Detection uses normalized autocorrelation restricted to a configurable
// frequency band:
//
//  1. The DC offset is removed.
//  2. corr(lag) = Σ x[i]·x[i+lag] / sqrt(Σ x[i]² · Σ x[i+lag]²) is evaluated
//     for every lag of the band, either directly or through an FFT
//     (Wiener–Khinchin) with identical results.
//  3. The best peak must exceed a correlation threshold and stand clear of
//     the strongest competing, non-harmonic peak by a clarity margin.
//  4. The peak lag is refined with parabolic interpolation.
//
// Weak, ambiguous, short or silent input yields no estimate rather than an
// error; estimation is best-effort on real-world signals.
package pitch
