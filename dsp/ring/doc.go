// Package ring provides the sample channel that carries audio from a
// real-time capture callback to the analysis stage.
//
// A Channel is a bounded single-producer/single-consumer queue of float32
// samples. One goroutine (the capture callback) may call Push and PushBatch
// while another (the processing tick) calls Pop, PopBlock, PeekBlock and
// Reset; no locks are taken on either side. Multiple producers or multiple
// consumers must be serialized by the caller.
//
// When the channel is full, incoming samples are dropped and counted. The
// producer never blocks and never allocates.
package ring
