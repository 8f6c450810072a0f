package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/measure/level"
)

func ExampleRMS() {
	block := []float64{0.5, -0.5, 0.5, -0.5}
	rms := level.RMS(block)

	fmt.Printf("rms=%.2f dB=%.1f meter=%.2f\n", rms, level.ToDB(rms), level.MeterFraction(rms, level.MeterFloorDB, level.MeterCeilDB))

	// Output:
	// rms=0.50 dB=-6.0 meter=0.90
}
