// Package buffer provides the reusable float64 working buffer the analyzer
// refills on every tick. Capacity is retained across Reset so steady-state
// processing does not allocate.
package buffer
