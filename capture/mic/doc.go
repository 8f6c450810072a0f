// Package mic captures mono audio from the default input device through
// PortAudio. Builds without cgo get a stub whose Acquire reports
// capture.ErrNoDevice.
package mic
