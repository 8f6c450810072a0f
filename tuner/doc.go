// Package tuner turns blocks of captured samples into loudness and pitch
// readings.
//
// An Analyzer drains at most one block per Tick from a Source, typically a
// *ring.Channel filled by a capture callback, and keeps the latest Result
// together with the raw samples of that block for waveform display.
// Ticks that find no samples report silence rather than repeating stale
// values.
package tuner
