package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cwbudde/algo-tuner/measure/level"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/tuner"
)

const (
	// wavePoints is the number of samples drawn per wave frame.
	wavePoints = 16
	// trendPoints is the number of recent ticks in the rms trend.
	trendPoints = 16
)

var trendGlyphs = []rune("▁▂▃▄▅▆▇█")

type renderFunc func(w io.Writer, res tuner.Result, a *tuner.Analyzer)

func renderer(name string, width int) (renderFunc, error) {
	if width < 1 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}
	switch strings.ToLower(name) {
	case "rms":
		return func(w io.Writer, res tuner.Result, a *tuner.Analyzer) {
			line := rmsLine(res, width)
			if a != nil {
				if trend := trendLine(a.History().RMSValues(), trendPoints); trend != "" {
					line += " " + trend
				}
			}
			fmt.Fprintln(w, line)
		}, nil
	case "freq":
		return func(w io.Writer, res tuner.Result, _ *tuner.Analyzer) {
			fmt.Fprintln(w, freqLine(res))
		}, nil
	case "wave":
		return func(w io.Writer, _ tuner.Result, a *tuner.Analyzer) {
			if a == nil {
				return
			}
			for _, line := range waveLines(a.Samples(wavePoints), width) {
				fmt.Fprintln(w, line)
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown visualizer %q (want rms, freq or wave)", name)
	}
}

// rmsLine draws a -60..0 dBFS meter of width cells followed by the level.
func rmsLine(res tuner.Result, width int) string {
	frac := level.MeterFraction(res.RMS, level.MeterFloorDB, level.MeterCeilDB)
	bars := min(int(frac*float64(width)), width)
	return fmt.Sprintf("%-*s %6.1f dB", width, strings.Repeat("█", bars), level.ToDB(res.RMS))
}

// trendLine draws the last n rms values on the meter scale, oldest first.
func trendLine(rms []float64, n int) string {
	if len(rms) > n {
		rms = rms[len(rms)-n:]
	}
	top := len(trendGlyphs) - 1
	var b strings.Builder
	for _, v := range rms {
		frac := level.MeterFraction(v, level.MeterFloorDB, level.MeterCeilDB)
		b.WriteRune(trendGlyphs[int(math.Round(frac*float64(top)))])
	}
	return b.String()
}

func freqLine(res tuner.Result) string {
	if !res.Pitched {
		return fmt.Sprintf("Freq: --      | --  | rms = %.3f", res.RMS)
	}
	n, _ := pitch.NoteFor(res.Frequency)
	return fmt.Sprintf("Freq: %.2fHz | %s %+.0f cents | rms = %.3f", res.Frequency, n, n.Cents, res.RMS)
}

// waveLines draws one '#' bar per sample, scaled so full scale spans width.
func waveLines(samples []float64, width int) []string {
	lines := make([]string, len(samples))
	for i, s := range samples {
		n := min(int(math.Abs(s)*float64(width)), width)
		lines[i] = strings.Repeat("#", n)
	}
	return lines
}
