package pitch

import (
	"math"
	"strconv"
)

// ReferenceA4 is the tuning reference in Hz.
const ReferenceA4 = 440.0

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is the nearest equal-tempered note to a frequency.
type Note struct {
	Name      string  // pitch class, e.g. "C#"
	Octave    int     // scientific octave number
	Semitones int     // signed distance from A4
	Cents     float64 // deviation of the input from Frequency, in [-50, 50]
	Frequency float64 // equal-tempered target in Hz
}

// String returns the note in scientific pitch notation, e.g. "A4".
func (n Note) String() string {
	return n.Name + strconv.Itoa(n.Octave)
}

// NoteFor maps freq to the nearest note. It reports false for non-positive
// or non-finite input.
func NoteFor(freq float64) (Note, bool) {
	if !(freq > 0) || math.IsInf(freq, 0) {
		return Note{}, false
	}

	exact := 12 * math.Log2(freq/ReferenceA4)
	semis := int(math.Round(exact))
	fromC := semis + 9

	return Note{
		Name:      pitchClasses[((fromC%12)+12)%12],
		Octave:    4 + floorDiv(fromC, 12),
		Semitones: semis,
		Cents:     100 * (exact - float64(semis)),
		Frequency: NoteFrequency(semis),
	}, true
}

// FreqToNote returns the note name for freq, or "" when freq is not a
// positive finite number.
func FreqToNote(freq float64) string {
	n, ok := NoteFor(freq)
	if !ok {
		return ""
	}
	return n.String()
}

// NoteFrequency returns the equal-tempered frequency semitones away from A4.
func NoteFrequency(semitones int) float64 {
	return ReferenceA4 * math.Exp2(float64(semitones)/12)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
