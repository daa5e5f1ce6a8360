package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	got []float64
}

func (r *recordingSink) Write(samples []float64) {
	r.got = append(r.got, samples...)
}

func TestVisualTapForwardsAndMixes(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{float64(i) * 0.1, -float64(i) * 0.05}
		}
		return len(samples), true
	})
	sink := &recordingSink{}
	tap := newVisualTap(src, sink)

	buf := make([][2]float64, 4)
	n, ok := tap.Stream(buf)
	require.Equal(t, 4, n)
	require.True(t, ok)

	// Samples pass through unchanged.
	assert.InDelta(t, 0.3, buf[3][0], 1e-12)
	assert.InDelta(t, -0.15, buf[3][1], 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.025, 0.05, 0.075}, sink.got, 1e-12)
	assert.NoError(t, tap.Err())
}

func TestVisualTapStopsWithSource(t *testing.T) {
	sink := &recordingSink{}
	tap := newVisualTap(beep.Silence(3), sink)

	buf := make([][2]float64, 8)
	n, ok := tap.Stream(buf)
	assert.Equal(t, 3, n)
	assert.True(t, ok)
	assert.Len(t, sink.got, 3)

	n, ok = tap.Stream(buf)
	assert.Equal(t, 0, n)
	assert.False(t, ok)
	assert.Len(t, sink.got, 3)
}

func TestActive(t *testing.T) {
	tests := []struct {
		name  string
		file  bool
		mic   bool
		state State
		want  bool
	}{
		{"nothing connected", false, false, StateRunning, false},
		{"file running", true, false, StateRunning, true},
		{"file suspended", true, false, StateSuspended, false},
		{"mic running", false, true, StateRunning, true},
		{"mic suspended", false, true, StateSuspended, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline()
			p.state = tt.state
			if tt.file {
				p.file = &fileSource{name: "a.wav"}
			}
			if tt.mic {
				p.mic = &micSource{}
			}
			assert.Equal(t, tt.want, p.Active())
		})
	}
}

func TestNewPipelineIsIdle(t *testing.T) {
	p := NewPipeline()
	assert.False(t, p.Active())
	assert.False(t, p.MicActive())
	assert.Equal(t, StateRunning, p.State())
	assert.Empty(t, p.NowPlaying())
	assert.Equal(t, 2048, p.BinCount())

	pos, length := p.Progress()
	assert.Zero(t, pos)
	assert.Zero(t, length)
}

func TestTogglePauseWithoutSource(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, StateSuspended, p.TogglePause())
	assert.Equal(t, StateRunning, p.TogglePause())
	p.Suspend()
	assert.Equal(t, "suspended", p.State().String())
	p.Resume()
	assert.Equal(t, "running", p.State().String())
}

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	_, err := decodeFile("song.ogg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	p := NewPipeline()
	assert.ErrorIs(t, p.PlayFile("notes.txt"), ErrUnsupportedFormat)
	assert.False(t, p.Active())
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := decodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.WAV")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o644))

	_, err := decodeFile(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestApplyGain(t *testing.T) {
	vol := &effects.Volume{Base: 2}

	applyGain(vol, 1)
	assert.False(t, vol.Silent)
	assert.Equal(t, 0.0, vol.Volume)

	applyGain(vol, 0.5)
	assert.Equal(t, -1.0, vol.Volume)
	assert.InDelta(t, 0.5, math.Pow(vol.Base, vol.Volume), 1e-12)

	applyGain(vol, 0)
	assert.True(t, vol.Silent)
}

// blockingOpener hands out microphone sources only when released.
type blockingOpener struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingOpener() *blockingOpener {
	return &blockingOpener{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (o *blockingOpener) open(sink sampleSink) (*micSource, error) {
	o.entered <- struct{}{}
	<-o.release
	return &micSource{sink: sink}, nil
}

func TestStartMicDoesNotBlockAccessors(t *testing.T) {
	p := NewPipeline()
	opener := newBlockingOpener()
	p.openInput = opener.open

	started := make(chan error, 1)
	go func() { started <- p.StartMic() }()
	<-opener.entered

	active := make(chan bool, 1)
	go func() { active <- p.Active() }()
	select {
	case got := <-active:
		assert.False(t, got, "idle until the device is open")
	case <-time.After(2 * time.Second):
		t.Fatal("Active blocked while the microphone was opening")
	}
	assert.False(t, p.MicActive())
	assert.Equal(t, StateRunning, p.State())

	close(opener.release)
	require.NoError(t, <-started)
	assert.True(t, p.MicActive())
	assert.True(t, p.Active())
}

func TestStartMicDiscardsSupersededStream(t *testing.T) {
	p := NewPipeline()
	slow := newBlockingOpener()
	p.openInput = slow.open

	started := make(chan error, 1)
	go func() { started <- p.StartMic() }()
	<-slow.entered

	// A second start completes while the first device is still opening.
	var fast *micSource
	p.openInput = func(sink sampleSink) (*micSource, error) {
		fast = &micSource{sink: sink}
		return fast, nil
	}
	require.NoError(t, p.StartMic())
	require.NotNil(t, fast)

	close(slow.release)
	require.NoError(t, <-started)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Same(t, fast, p.mic, "the first connected source is kept")
}

func TestStartMicOpenError(t *testing.T) {
	p := NewPipeline()
	p.openInput = func(sampleSink) (*micSource, error) {
		return nil, os.ErrPermission
	}

	on, err := p.ToggleMic()
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, on)
	assert.False(t, p.Active())
}

func TestToggleMicWithInjectedOpener(t *testing.T) {
	p := NewPipeline()
	p.openInput = func(sink sampleSink) (*micSource, error) {
		return &micSource{sink: sink}, nil
	}
	p.Suspend()

	on, err := p.ToggleMic()
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, StateRunning, p.State(), "starting the mic resumes the context")

	on, err = p.ToggleMic()
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, p.Active())
}

func TestDecodeBundledSampleTrack(t *testing.T) {
	src, err := decodeFile(filepath.Join("..", "..", "assets", "sample-track.wav"))
	require.NoError(t, err)
	defer src.close()

	assert.Equal(t, "sample-track.wav", src.name)
	assert.Equal(t, beep.SampleRate(22050), src.format.SampleRate)
	assert.Equal(t, 1, src.format.NumChannels)
	assert.Equal(t, 4*22050, src.streamer.Len())
}
