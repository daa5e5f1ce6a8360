package config

import (
	"math"
	"os"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	// Analyser parameters
	FFTSize               = 4096
	SmoothingTimeConstant = 0.85
	MinDecibels           = -100.0
	MaxDecibels           = -30.0
	MicSampleRate         = 44100
	MicFramesPerBuffer    = 1024

	// Button dimensions
	ButtonWidth  = 96
	ButtonHeight = 28
	ButtonX      = 12
	ButtonY      = 36
	ButtonGap    = 8

	// Visualization parameters
	ParticleCount = 20000
	SphereRadius  = 10.0
	ShellDetail   = 3
	ShellOpacity  = 0.1

	// Camera
	CameraFOV  = 75.0
	CameraNear = 0.1
	CameraFar  = 1000.0
	CameraZ    = 30.0

	// Orbit controls
	OrbitDamping     = 0.05
	OrbitMinPolar    = 0.2 * math.Pi
	OrbitMaxPolar    = 0.8 * math.Pi
	OrbitMinDistance = 12.0
	OrbitMaxDistance = 120.0
	OrbitZoomStep    = 0.95

	// Knob defaults
	DefaultParticleSizeMultiplier = 0.1
	DefaultRotationSpeed          = 0.003
	DefaultWaveIntensity          = 1.0
	DefaultVolume                 = 1.0

	// Knob steps for keyboard control
	ParticleSizeStep  = 0.01
	RotationSpeedStep = 0.001
	WaveIntensityStep = 0.1
	VolumeStep        = 0.05

	// SampleTrack is resolved against the working directory.
	SampleTrack = "assets/sample-track.wav"
)

// SampleTrackAvailable reports whether SampleTrack exists as a regular file.
func SampleTrackAvailable() bool {
	fi, err := os.Stat(SampleTrack)
	return err == nil && fi.Mode().IsRegular()
}
