// Package level computes loudness values for a block of samples: RMS, DC
// offset and their decibel forms for meters.
package level

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"gonum.org/v1/gonum/floats"
)

const (
	// SilenceFloor is the smallest RMS considered for dB conversion.
	SilenceFloor = 1e-9

	// MeterFloorDB and MeterCeilDB bound the default level meter scale.
	MeterFloorDB = -60.0
	MeterCeilDB  = 0.0
)

// RMS returns the root-mean-square of the signal, or 0 for an empty signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// DC returns the mean (DC offset) of the signal, or 0 for an empty signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return floats.Sum(signal) / float64(len(signal))
}

// RemoveDC writes src minus its mean into dst and returns the mean.
// dst and src may alias. dst must be at least as long as src.
func RemoveDC(dst, src []float64) float64 {
	mean := DC(src)
	dst = dst[:len(src)]
	copy(dst, src)
	floats.AddConst(-mean, dst)
	return mean
}

// ToDB converts an RMS value to dBFS, flooring silence at SilenceFloor so
// the result is always finite.
func ToDB(rms float64) float64 {
	return core.LinearToDB(math.Max(rms, SilenceFloor))
}

// MeterFraction maps rms onto [0, 1] between floorDB and ceilDB, as used by
// bar-style level meters.
func MeterFraction(rms, floorDB, ceilDB float64) float64 {
	if ceilDB <= floorDB {
		return 0
	}
	db := ToDB(rms)
	return core.Clamp((db-floorDB)/(ceilDB-floorDB), 0, 1)
}
