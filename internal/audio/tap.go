package audio

import (
	"github.com/faiface/beep"
)

// sampleSink receives mono samples in [-1, 1].
type sampleSink interface {
	Write(samples []float64)
}

// visualTap wraps a beep.Streamer and forwards a mono mix of everything it
// streams to the analyser, so the frame loop sees what is being played.
type visualTap struct {
	Source beep.Streamer
	sink   sampleSink
	mono   []float64
}

func newVisualTap(src beep.Streamer, sink sampleSink) *visualTap {
	return &visualTap{
		Source: src,
		sink:   sink,
	}
}

func (t *visualTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		if cap(t.mono) < n {
			t.mono = make([]float64, n)
		}
		mono := t.mono[:n]
		for i := 0; i < n; i++ {
			mono[i] = (samples[i][0] + samples[i][1]) * 0.5
		}
		t.sink.Write(mono)
	}
	return n, ok
}

func (t *visualTap) Err() error { return t.Source.Err() }
