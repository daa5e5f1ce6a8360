package config

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownScheme(name string) bool {
	return name == "ocean" || name == "magenta"
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions(nil, io.Discard, knownScheme)
	require.NoError(t, err)

	assert.Equal(t, ParticleCount, opts.Particles)
	assert.Equal(t, int64(1), opts.Seed)
	assert.Equal(t, "ocean", opts.Scheme)
	assert.Equal(t, logrus.InfoLevel, opts.LogLevel)
	assert.False(t, opts.Mic)
	assert.Empty(t, opts.File)
}

func TestParseOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero particles", []string{"-particles", "0"}},
		{"negative particles", []string{"-particles", "-5"}},
		{"unknown scheme", []string{"-scheme", "plaid"}},
		{"file and mic", []string{"-file", "a.mp3", "-mic"}},
		{"bad log level", []string{"-log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.args, io.Discard, knownScheme)
			assert.ErrorIs(t, err, ErrInvalidOption)
		})
	}
}

func TestParseOptionsOverrides(t *testing.T) {
	opts, err := ParseOptions([]string{"-particles", "4", "-seed", "0", "-scheme", "magenta", "-mic", "-log-level", "debug"}, io.Discard, knownScheme)
	require.NoError(t, err)

	assert.Equal(t, 4, opts.Particles)
	assert.Equal(t, int64(0), opts.Seed)
	assert.Equal(t, "magenta", opts.Scheme)
	assert.True(t, opts.Mic)
	assert.Equal(t, logrus.DebugLevel, opts.LogLevel)
}

func TestSettingsSnapshot(t *testing.T) {
	s := NewSettings("ocean")
	snap := s.Snapshot()
	assert.Equal(t, FrameParams{
		ParticleSizeMultiplier: DefaultParticleSizeMultiplier,
		RotationSpeed:          DefaultRotationSpeed,
		WaveIntensity:          DefaultWaveIntensity,
		Volume:                 DefaultVolume,
		Scheme:                 "ocean",
	}, snap)

	s.SetParticleSizeMultiplier(0.4)
	s.SetRotationSpeed(0.01)
	s.SetWaveIntensity(2)
	s.SetVolume(0.5)
	s.SetScheme("sunset")

	// The earlier snapshot is a value and does not see later writes.
	assert.Equal(t, DefaultWaveIntensity, snap.WaveIntensity)

	got := s.Snapshot()
	assert.Equal(t, 0.4, got.ParticleSizeMultiplier)
	assert.Equal(t, 0.01, got.RotationSpeed)
	assert.Equal(t, 2.0, got.WaveIntensity)
	assert.Equal(t, 0.5, got.Volume)
	assert.Equal(t, "sunset", got.Scheme)
	assert.Equal(t, got.Volume, s.Volume())
	assert.Equal(t, got.Scheme, s.Scheme())
}

func TestSettingsConcurrentAccess(t *testing.T) {
	s := NewSettings("ocean")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetWaveIntensity(float64(i))
				_ = s.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	v := s.WaveIntensity()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 8.0)
}

func TestSampleTrackAvailable(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.False(t, SampleTrackAvailable(), "missing file")

	require.NoError(t, os.MkdirAll(SampleTrack, 0o755))
	assert.False(t, SampleTrackAvailable(), "directory is not a track")
	require.NoError(t, os.Remove(SampleTrack))

	require.NoError(t, os.WriteFile(SampleTrack, []byte("RIFF"), 0o644))
	assert.True(t, SampleTrackAvailable())
	assert.Equal(t, "assets", filepath.Dir(SampleTrack))
}
