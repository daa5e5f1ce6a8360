package config

import "sync"

// FrameParams is the knob state read once at the start of a tick.
type FrameParams struct {
	ParticleSizeMultiplier float64
	RotationSpeed          float64
	WaveIntensity          float64
	Volume                 float64
	Scheme                 string
}

// Settings is the process-wide knob store. Setters can be called from any
// goroutine; the frame loop reads a Snapshot once per tick.
type Settings struct {
	mu     sync.RWMutex
	params FrameParams
}

// NewSettings returns a store holding the default knob values and the given scheme.
func NewSettings(scheme string) *Settings {
	return &Settings{
		params: FrameParams{
			ParticleSizeMultiplier: DefaultParticleSizeMultiplier,
			RotationSpeed:          DefaultRotationSpeed,
			WaveIntensity:          DefaultWaveIntensity,
			Volume:                 DefaultVolume,
			Scheme:                 scheme,
		},
	}
}

// Snapshot returns a copy of the current values.
func (s *Settings) Snapshot() FrameParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *Settings) ParticleSizeMultiplier() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.ParticleSizeMultiplier
}

func (s *Settings) SetParticleSizeMultiplier(v float64) {
	s.mu.Lock()
	s.params.ParticleSizeMultiplier = v
	s.mu.Unlock()
}

func (s *Settings) RotationSpeed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.RotationSpeed
}

func (s *Settings) SetRotationSpeed(v float64) {
	s.mu.Lock()
	s.params.RotationSpeed = v
	s.mu.Unlock()
}

func (s *Settings) WaveIntensity() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.WaveIntensity
}

func (s *Settings) SetWaveIntensity(v float64) {
	s.mu.Lock()
	s.params.WaveIntensity = v
	s.mu.Unlock()
}

func (s *Settings) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.Volume
}

func (s *Settings) SetVolume(v float64) {
	s.mu.Lock()
	s.params.Volume = v
	s.mu.Unlock()
}

func (s *Settings) Scheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.Scheme
}

// SetScheme records the requested scheme name. Unknown names are stored as-is;
// the engine ignores them when it applies the snapshot.
func (s *Settings) SetScheme(name string) {
	s.mu.Lock()
	s.params.Scheme = name
	s.mu.Unlock()
}
