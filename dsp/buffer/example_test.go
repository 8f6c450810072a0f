package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
)

func ExampleBuffer() {
	b := buffer.New(8)
	b.AppendFloat32([]float32{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25})

	fmt.Println(b.Decimate(4))

	b.Reset()
	fmt.Println(b.Len(), b.Cap())

	// Output:
	// [0 0.5 1 0.5]
	// 0 8
}
