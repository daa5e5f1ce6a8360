package analyser

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-visualizer/internal/config"
)

func tone(n int, bin, fftSize int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(fftSize))
	}
	return out
}

func TestDefaults(t *testing.T) {
	a := New()
	assert.Equal(t, config.FFTSize, a.FFTSize())
	assert.Equal(t, config.FFTSize/2, a.BinCount())
}

func TestSilence(t *testing.T) {
	a := NewWithSize(256)
	a.Write(make([]float64, 256))

	freq := make([]byte, a.BinCount())
	wave := make([]byte, a.BinCount())
	a.ByteFrequencyData(freq)
	a.ByteTimeDomainData(wave)

	for i := range freq {
		assert.Equal(t, byte(0), freq[i])
		assert.Equal(t, byte(128), wave[i])
	}
}

func TestTimeDomainMapping(t *testing.T) {
	a := NewWithSize(8)
	a.Write([]float64{-1, -0.5, 0, 0.5, 0.999, 1, 2, -2})

	got := make([]byte, 8)
	a.ByteTimeDomainData(got)
	assert.Equal(t, []byte{0, 64, 128, 192, 255, 255, 255, 0}, got)
}

func TestTimeDomainIsChronological(t *testing.T) {
	a := NewWithSize(4)
	a.Write([]float64{0.1, 0.2, 0.3})
	a.Write([]float64{0.4, 0.5, 0.6})

	got := make([]byte, 4)
	a.ByteTimeDomainData(got)
	want := []byte{
		byte(math.Floor(128 * 1.3)),
		byte(math.Floor(128 * 1.4)),
		byte(math.Floor(128 * 1.5)),
		byte(math.Floor(128 * 1.6)),
	}
	assert.Equal(t, want, got)
}

func TestTonePeaksAtItsBin(t *testing.T) {
	const size = 1024
	const bin = 37
	a := NewWithSize(size)
	a.Write(tone(size, bin, size, 0.8))

	freq := make([]byte, a.BinCount())
	for i := 0; i < 20; i++ {
		a.ByteFrequencyData(freq)
	}

	peak := 0
	for i, v := range freq {
		if v > freq[peak] {
			peak = i
		}
	}
	assert.Equal(t, bin, peak)
	assert.Greater(t, freq[bin], byte(200))
	assert.Less(t, freq[size/2-1], byte(100), "far bins stay near the dB floor")
}

func TestSmoothingRisesGradually(t *testing.T) {
	const size = 512
	a := NewWithSize(size)
	a.Write(tone(size, 10, size, 0.5))

	freq := make([]byte, a.BinCount())
	a.ByteFrequencyData(freq)
	first := freq[10]
	for i := 0; i < 30; i++ {
		a.ByteFrequencyData(freq)
	}
	assert.Greater(t, freq[10], first)
}

func TestReset(t *testing.T) {
	const size = 256
	a := NewWithSize(size)
	a.Write(tone(size, 5, size, 1))
	freq := make([]byte, a.BinCount())
	a.ByteFrequencyData(freq)
	require.NotZero(t, freq[5])

	a.Reset()
	a.ByteFrequencyData(freq)
	assert.Equal(t, byte(0), freq[5])
}

func TestShortDestination(t *testing.T) {
	a := NewWithSize(64)
	a.Write(tone(64, 3, 64, 1))
	dst := make([]byte, 4)
	assert.NotPanics(t, func() {
		a.ByteFrequencyData(dst)
		a.ByteTimeDomainData(dst)
	})
}

func TestConcurrentWriteAndRead(t *testing.T) {
	a := NewWithSize(512)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		chunk := tone(128, 4, 512, 0.5)
		for i := 0; i < 200; i++ {
			a.Write(chunk)
		}
	}()

	freq := make([]byte, a.BinCount())
	for i := 0; i < 50; i++ {
		a.ByteFrequencyData(freq)
		a.ByteTimeDomainData(freq)
	}
	wg.Wait()
}
