package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/iburimskiy/particle-visualizer/internal/config"
)

// micSource captures the default input device. Its samples only reach the
// analyser, never the speaker.
type micSource struct {
	stream *portaudio.Stream
	sink   sampleSink
	buf    []float64
}

func (m *micSource) process(in []float32) {
	if cap(m.buf) < len(in) {
		m.buf = make([]float64, len(in))
	}
	buf := m.buf[:len(in)]
	for i, v := range in {
		buf[i] = float64(v)
	}
	m.sink.Write(buf)
}

func openMic(sink sampleSink) (*micSource, error) {
	m := &micSource{sink: sink}
	stream, err := portaudio.OpenDefaultStream(1, 0, config.MicSampleRate, config.MicFramesPerBuffer, m.process)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	m.stream = stream
	return m, nil
}

func (m *micSource) close() error {
	if m.stream == nil {
		return nil
	}
	err := m.stream.Stop()
	if cerr := m.stream.Close(); err == nil {
		err = cerr
	}
	m.stream = nil
	return err
}
