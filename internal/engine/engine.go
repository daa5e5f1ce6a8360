// Package engine turns analysis buffers into per-particle render state once
// per tick.
package engine

import (
	"math"

	"github.com/iburimskiy/particle-visualizer/internal/config"
	"github.com/iburimskiy/particle-visualizer/internal/palette"
	"github.com/iburimskiy/particle-visualizer/internal/particle"
)

// Source is the analysis side of the audio pipeline.
type Source interface {
	Active() bool
	BinCount() int
	ByteFrequencyData(dst []byte)
	ByteTimeDomainData(dst []byte)
}

// Mode is the state the last tick ran in.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAudio
)

func (m Mode) String() string {
	if m == ModeAudio {
		return "audio"
	}
	return "idle"
}

// Engine owns the particle field and the shell scale.
type Engine struct {
	field      *particle.Field
	scheme     *palette.Scheme
	shellScale float64
	mode       Mode

	freq []byte
	wave []byte
}

// New returns an engine drawing field with scheme. The field is expected to be
// coloured with scheme already.
func New(field *particle.Field, scheme *palette.Scheme) *Engine {
	return &Engine{
		field:      field,
		scheme:     scheme,
		shellScale: 1,
	}
}

func (e *Engine) Field() *particle.Field  { return e.field }
func (e *Engine) Scheme() *palette.Scheme { return e.scheme }
func (e *Engine) ShellScale() float64     { return e.shellScale }
func (e *Engine) Mode() Mode              { return e.mode }

// SelectScheme activates the named scheme and recolours every particle from
// its intensity. Unknown names and the current scheme are ignored.
func (e *Engine) SelectScheme(name string) bool {
	s, ok := palette.Lookup(name)
	if !ok || s == e.scheme {
		return false
	}
	e.scheme = s
	e.field.Recolor(s)
	return true
}

// Tick runs one frame. now is in seconds.
func (e *Engine) Tick(now float64, params config.FrameParams, src Source) Mode {
	e.SelectScheme(params.Scheme)

	if src == nil || !src.Active() {
		e.UpdateIdle(now, params)
		e.mode = ModeIdle
		return e.mode
	}

	n := src.BinCount()
	if len(e.freq) != n {
		e.freq = make([]byte, n)
		e.wave = make([]byte, n)
	}
	src.ByteFrequencyData(e.freq)
	src.ByteTimeDomainData(e.wave)

	e.UpdateAudio(now, e.freq, e.wave, params)
	e.mode = ModeAudio
	return e.mode
}

// UpdateAudio recomputes position, size and colour of every particle from the
// frequency and time-domain buffers. Both buffers must have the same length.
func (e *Engine) UpdateAudio(now float64, freq, wave []byte, params config.FrameParams) {
	bins := len(freq)
	if bins == 0 {
		return
	}

	var total float64
	for _, v := range freq {
		total += float64(v)
	}
	averageAmplitude := total / float64(bins) / 255

	n := e.field.Len()
	sizeMul := params.ParticleSizeMultiplier
	for i := 0; i < n; i++ {
		// Only the lowest quarter of the spectrum is sampled.
		bin := int(math.Floor(float64(i) / float64(n) * (float64(bins) / 4)))

		freqValue := float64(freq[bin]) / 255
		waveValue := (float64(wave[bin]) - 128) / 128

		s := e.field.Seed(i)

		pulseAmount := freqValue * 5 * sizeMul
		waveSpeed := 1 + freqValue*2
		w := math.Sin(now*waveSpeed+s.PhaseFactor) * 0.2 * s.VelocityFactor * params.WaveIntensity
		waveAmplitude := 0.3 + freqValue*2
		dynamicOffset := waveAmplitude * w * pulseAmount
		expansion := 1 + (pulseAmount/8)*s.Intensity

		// The axes pair with cos θ, sin φ, sin θ respectively.
		e.field.SetPosition(i,
			s.Origin.X()*expansion+dynamicOffset*math.Cos(s.Theta),
			s.Origin.Y()*expansion+dynamicOffset*math.Sin(s.Phi),
			s.Origin.Z()*expansion+dynamicOffset*math.Sin(s.Theta),
		)

		sizeFactor := math.Max(0.05, freqValue*2*sizeMul*s.Intensity)
		e.field.SetSize(i, 0.05+sizeFactor+math.Abs(waveValue)*sizeFactor*0.3)

		c := e.scheme.Blend(freqValue)
		brightness := 0.8 + freqValue*0.4
		e.field.SetColor(i, c.R*brightness, c.G*brightness, c.B*brightness)
	}

	e.shellScale = 1 + averageAmplitude*0.3
}

// UpdateIdle applies a slow breathing motion. Colours and sizes are left as
// they are.
func (e *Engine) UpdateIdle(now float64, params config.FrameParams) {
	n := e.field.Len()
	for i := 0; i < n; i++ {
		s := e.field.Seed(i)
		w := math.Sin(now*0.5+s.PhaseFactor) * 0.05 * s.VelocityFactor * params.WaveIntensity
		k := 0.95 + (s.Intensity-0.8)*0.12 + w*0.1
		e.field.SetPosition(i, s.Origin.X()*k, s.Origin.Y()*k, s.Origin.Z()*k)
	}
}
