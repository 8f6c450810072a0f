// Package capture defines the contract between audio sources and the
// sample channel they feed.
//
// A Backend goes through two phases. Acquire obtains the device, file or
// permission and may block or fail; Start begins delivering samples to the
// Producer and is synchronous. Stop releases everything and may be called
// any number of times. Producers are called from the backend's delivery
// goroutine or audio callback only, so they must not block.
package capture
