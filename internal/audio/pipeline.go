// Package audio owns the single live audio source (a decoded file or the
// microphone) and the analyser it feeds.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/particle-visualizer/internal/analyser"
	"github.com/iburimskiy/particle-visualizer/internal/config"
)

// ErrUnsupportedFormat is returned for files beep cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// speakerRate is the fixed output rate; files at other rates are resampled.
const speakerRate = beep.SampleRate(44100)

// State mirrors an audio context: suspended stops file playback.
type State int

const (
	StateRunning State = iota
	StateSuspended
)

func (s State) String() string {
	if s == StateSuspended {
		return "suspended"
	}
	return "running"
}

// fileSource is a decoded file connected to the speaker.
type fileSource struct {
	name     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
}

func (s *fileSource) close() {
	_ = s.streamer.Close()
	_ = s.file.Close()
}

// Pipeline connects at most one source to the analyser. All methods are safe
// for concurrent use; source swaps disconnect the old source before the new
// one is connected.
type Pipeline struct {
	mu       sync.Mutex
	analyser *analyser.Analyser
	state    State
	volume   float64

	file *fileSource
	mic  *micSource
	// gen changes whenever a source is connected or disconnected.
	gen uint64

	speakerReady bool

	// openInput opens the capture stream. It runs without mu held.
	openInput func(sink sampleSink) (*micSource, error)
	// deviceMu guards portaudioReady.
	deviceMu       sync.Mutex
	portaudioReady bool
}

// NewPipeline returns a running pipeline with no source connected.
func NewPipeline() *Pipeline {
	p := &Pipeline{
		analyser: analyser.New(),
		state:    StateRunning,
		volume:   config.DefaultVolume,
	}
	p.openInput = p.openDefaultInput
	return p
}

// Active reports whether the analyser is being driven: the microphone is on,
// or a file is connected and playback is running.
func (p *Pipeline) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mic != nil || (p.file != nil && p.state == StateRunning)
}

func (p *Pipeline) BinCount() int                 { return p.analyser.BinCount() }
func (p *Pipeline) ByteFrequencyData(dst []byte)  { p.analyser.ByteFrequencyData(dst) }
func (p *Pipeline) ByteTimeDomainData(dst []byte) { p.analyser.ByteTimeDomainData(dst) }

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) MicActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mic != nil
}

// NowPlaying returns the base name of the connected file, if any.
func (p *Pipeline) NowPlaying() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return ""
	}
	return p.file.name
}

// decodeFile opens and decodes path based on its extension.
func decodeFile(path string) (*fileSource, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &fileSource{
		name:     filepath.Base(path),
		file:     f,
		streamer: streamer,
		format:   format,
	}, nil
}

// PlayFile decodes path and makes it the active source. Decoding happens
// before the lock is taken so a slow file does not stall the frame loop.
func (p *Pipeline) PlayFile(path string) error {
	src, err := decodeFile(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "PlayFile",
			"path":     path,
		}).WithError(err).Error("Failed to load audio file")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.disconnectLocked()

	if err := p.ensureSpeakerLocked(); err != nil {
		src.close()
		return err
	}

	// Chain: decoded -> tap -> ctrl -> volume -> (resample) -> speaker
	var s beep.Streamer = newVisualTap(src.streamer, p.analyser)
	src.ctrl = &beep.Ctrl{Streamer: s}
	src.volume = &effects.Volume{Streamer: src.ctrl, Base: 2}
	applyGain(src.volume, p.volume)
	s = src.volume
	if src.format.SampleRate != speakerRate {
		s = beep.Resample(4, src.format.SampleRate, speakerRate, s)
	}

	p.file = src
	p.state = StateRunning

	speaker.Play(beep.Seq(s, beep.Callback(func() {
		// Runs with the speaker lock held; finish outside it.
		go p.finished(src)
	})))

	logrus.WithFields(logrus.Fields{
		"function":    "PlayFile",
		"file":        src.name,
		"sample_rate": int(src.format.SampleRate),
		"channels":    src.format.NumChannels,
	}).Info("Playing audio file")
	return nil
}

// finished releases src once it has played to the end, unless it has already
// been replaced.
func (p *Pipeline) finished(src *fileSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file != src {
		return
	}
	src.close()
	p.file = nil
	logrus.WithFields(logrus.Fields{
		"function": "finished",
		"file":     src.name,
	}).Info("Playback finished")
}

func (p *Pipeline) ensureSpeakerLocked() error {
	if p.speakerReady {
		return nil
	}
	if err := speaker.Init(speakerRate, speakerRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.speakerReady = true
	logrus.WithFields(logrus.Fields{
		"function":    "ensureSpeakerLocked",
		"sample_rate": int(speakerRate),
	}).Debug("Speaker initialised")
	return nil
}

// disconnectLocked tears down whichever source is connected.
func (p *Pipeline) disconnectLocked() {
	if p.file != nil {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
		p.file.close()
		logrus.WithFields(logrus.Fields{
			"function": "disconnect",
			"file":     p.file.name,
		}).Debug("Disconnected file source")
		p.file = nil
	}
	if p.mic != nil {
		if err := p.mic.close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "disconnect",
			}).WithError(err).Warn("Failed to close microphone stream")
		}
		p.mic = nil
		logrus.WithFields(logrus.Fields{
			"function": "disconnect",
		}).Debug("Disconnected microphone")
	}
	p.gen++
	p.analyser.Reset()
}

// StartMic connects the default input device. The device is opened without
// holding the pipeline lock, so Active and the other accessors stay responsive.
// If another source is connected or disconnected while the device opens, the
// new stream is discarded. The context is resumed as a side effect.
func (p *Pipeline) StartMic() error {
	p.mu.Lock()
	if p.mic != nil {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	p.mu.Unlock()

	m, err := p.openInput(p.analyser)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "StartMic",
		}).WithError(err).Error("Could not access microphone")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		if err := m.close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "StartMic",
			}).WithError(err).Warn("Failed to close superseded microphone stream")
		}
		logrus.WithFields(logrus.Fields{
			"function": "StartMic",
		}).Debug("Another source connected while the microphone opened")
		return nil
	}

	p.disconnectLocked()
	p.mic = m
	p.state = StateRunning

	logrus.WithFields(logrus.Fields{
		"function":    "StartMic",
		"sample_rate": config.MicSampleRate,
	}).Info("Microphone active")
	return nil
}

// openDefaultInput initialises portaudio on first use and opens the default
// capture device.
func (p *Pipeline) openDefaultInput(sink sampleSink) (*micSource, error) {
	p.deviceMu.Lock()
	defer p.deviceMu.Unlock()
	if !p.portaudioReady {
		if err := portaudio.Initialize(); err != nil {
			return nil, fmt.Errorf("init portaudio: %w", err)
		}
		p.portaudioReady = true
	}
	return openMic(sink)
}

// StopMic disconnects the microphone if it is the active source.
func (p *Pipeline) StopMic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mic == nil {
		return
	}
	p.disconnectLocked()
}

// ToggleMic starts or stops the microphone and reports whether it is on.
func (p *Pipeline) ToggleMic() (bool, error) {
	if p.MicActive() {
		p.StopMic()
		return false, nil
	}
	if err := p.StartMic(); err != nil {
		return false, err
	}
	return p.MicActive(), nil
}

// Suspend pauses file playback.
func (p *Pipeline) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setStateLocked(StateSuspended)
}

// Resume continues file playback.
func (p *Pipeline) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setStateLocked(StateRunning)
}

// TogglePause flips between running and suspended.
func (p *Pipeline) TogglePause() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRunning {
		p.setStateLocked(StateSuspended)
	} else {
		p.setStateLocked(StateRunning)
	}
	return p.state
}

func (p *Pipeline) setStateLocked(s State) {
	p.state = s
	if p.file == nil {
		return
	}
	speaker.Lock()
	p.file.ctrl.Paused = s == StateSuspended
	speaker.Unlock()
}

// SetVolume sets the linear output gain of file playback. The analyser sees
// the signal before the gain.
func (p *Pipeline) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v == p.volume {
		return
	}
	p.volume = v
	if p.file == nil {
		return
	}
	speaker.Lock()
	applyGain(p.file.volume, v)
	speaker.Unlock()
}

func applyGain(vol *effects.Volume, gain float64) {
	if gain <= 0 {
		vol.Silent = true
		vol.Volume = 0
		return
	}
	vol.Silent = false
	vol.Volume = math.Log2(gain)
}

// Progress returns the playback position and length of the connected file.
func (p *Pipeline) Progress() (pos, length time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return 0, 0
	}
	speaker.Lock()
	position, total := p.file.streamer.Position(), p.file.streamer.Len()
	speaker.Unlock()
	rate := p.file.format.SampleRate
	return rate.D(position), rate.D(total)
}

// Close disconnects everything and releases the audio devices.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.disconnectLocked()
	p.mu.Unlock()

	p.deviceMu.Lock()
	defer p.deviceMu.Unlock()
	if p.portaudioReady {
		if err := portaudio.Terminate(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Close",
			}).WithError(err).Warn("Failed to terminate portaudio")
		}
		p.portaudioReady = false
	}
}
