//go:build js && wasm

package main

import (
	"context"
	"encoding/binary"
	"math"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/capture/browser"
	"github.com/cwbudde/algo-tuner/internal/logging"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/session"
	"github.com/cwbudde/algo-tuner/tuner"
)

// historyLength is the number of ticks kept for the level trend.
const historyLength = 64

var (
	sess    *session.Session
	backend *browser.Backend
	cancel  context.CancelFunc
	// ready or fail may arrive before the session goroutine builds the backend.
	pendingRate float64
	pendingErr  error
	scratch     []byte
	samples     []float32
	funcs       []js.Func
)

func main() {
	logger, err := logging.New(logging.WithLevel("warn"), logging.WithOutputPaths("stdout"))
	if err != nil {
		logger = zap.NewNop()
	}

	sess = session.New(func(p capture.Producer) (capture.Backend, error) {
		b, err := browser.New(p, logger)
		if err != nil {
			return nil, err
		}
		backend = b
		switch {
		case pendingErr != nil:
			b.Fail(pendingErr)
		case pendingRate > 0:
			b.Ready(pendingRate)
		}
		return b, nil
	}, session.WithLogger(logger), session.WithAnalyzerOptions(tuner.WithHistory(historyLength)))

	api := js.Global().Get("Object").New()

	// start() returns a Promise that settles once ready() or fail() is called.
	api.Set("start", export(func(args []js.Value) any {
		handler := js.FuncOf(func(_ js.Value, p []js.Value) any {
			resolve, reject := p[0], p[1]
			pendingRate, pendingErr = 0, nil
			ctx, c := context.WithCancel(context.Background())
			cancel = c
			go func() {
				if err := sess.Start(ctx); err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
					return
				}
				resolve.Invoke(sess.Analyzer().SampleRate())
			}()
			return nil
		})
		defer handler.Release()
		return js.Global().Get("Promise").New(handler)
	}))

	api.Set("ready", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Null()
		}
		if backend == nil {
			pendingRate = args[0].Float()
			return js.Null()
		}
		backend.Ready(args[0].Float())
		return js.Null()
	}))

	api.Set("fail", export(func(args []js.Value) any {
		name, msg := "Error", ""
		if len(args) > 0 {
			name = args[0].String()
		}
		if len(args) > 1 {
			msg = args[1].String()
		}
		err := browser.ErrorFromName(name, msg)
		if backend == nil {
			pendingErr = err
			return js.Null()
		}
		backend.Fail(err)
		return js.Null()
	}))

	api.Set("push", export(func(args []js.Value) any {
		if backend == nil || len(args) < 1 {
			return 0
		}
		return backend.Deliver(float32sFromJS(args[0]))
	}))

	api.Set("tick", export(func(args []js.Value) any {
		detect := len(args) > 0 && args[0].Truthy()
		res, ok := sess.Tick(detect)
		if !ok {
			return js.Null()
		}
		return resultToJS(res)
	}))

	api.Set("samples", export(func(args []js.Value) any {
		an := sess.Analyzer()
		if an == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		s := an.Samples(args[0].Int())
		arr := js.Global().Get("Float32Array").New(len(s))
		for i, v := range s {
			arr.SetIndex(i, v)
		}
		return arr
	}))

	api.Set("history", export(func(args []js.Value) any {
		an := sess.Analyzer()
		if an == nil {
			return js.Global().Get("Float32Array").New(0)
		}
		rms := an.History().RMSValues()
		arr := js.Global().Get("Float32Array").New(len(rms))
		for i, v := range rms {
			arr.SetIndex(i, v)
		}
		return arr
	}))

	api.Set("stats", export(func(args []js.Value) any {
		st := sess.ChannelStats()
		obj := js.Global().Get("Object").New()
		obj.Set("pushed", float64(st.Pushed))
		obj.Set("popped", float64(st.Popped))
		obj.Set("dropped", float64(st.Dropped))
		obj.Set("len", st.Len)
		obj.Set("capacity", st.Capacity)
		obj.Set("fill", st.FillPercentage)
		return obj
	}))

	api.Set("running", export(func(args []js.Value) any {
		return sess.Running()
	}))

	api.Set("starting", export(func(args []js.Value) any {
		return sess.Starting()
	}))

	api.Set("stop", export(func(args []js.Value) any {
		if cancel != nil {
			cancel()
		}
		sess.Stop()
		backend = nil
		return js.Null()
	}))

	js.Global().Set("AlgoTuner", api)
	select {}
}

func resultToJS(res tuner.Result) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("drained", res.Drained)
	obj.Set("rms", res.RMS)
	obj.Set("db", res.DB)
	obj.Set("pitched", res.Pitched)
	if res.Pitched {
		obj.Set("frequency", res.Frequency)
		obj.Set("note", res.Note)
		obj.Set("clarity", res.Clarity)
		if n, ok := pitch.NoteFor(res.Frequency); ok {
			obj.Set("cents", n.Cents)
		}
	}
	return obj
}

// float32sFromJS copies a Float32Array into a reused Go slice.
func float32sFromJS(arr js.Value) []float32 {
	n := arr.Get("length").Int()
	byteLen := n * 4
	if cap(scratch) < byteLen {
		scratch = make([]byte, byteLen)
		samples = make([]float32, n)
	}
	scratch = scratch[:byteLen]
	samples = samples[:n]

	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), byteLen)
	js.CopyBytesToGo(scratch, view)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(scratch[4*i:]))
	}
	return samples
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
