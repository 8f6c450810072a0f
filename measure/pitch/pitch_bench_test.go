package pitch

import (
	"testing"

	"github.com/cwbudde/algo-tuner/internal/testutil"
)

func benchmarkDetect(b *testing.B, m Method) {
	d, err := New(WithSampleRate(testSampleRate), WithMethod(m))
	if err != nil {
		b.Fatal(err)
	}
	x := testutil.DeterministicSine(110, testSampleRate, 0.8, testBlock)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Detect(x)
	}
}

func BenchmarkDetectFFT(b *testing.B)    { benchmarkDetect(b, MethodFFT) }
func BenchmarkDetectDirect(b *testing.B) { benchmarkDetect(b, MethodDirect) }
