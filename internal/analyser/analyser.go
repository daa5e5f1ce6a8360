// Package analyser keeps a window of recent samples and turns it into byte
// frequency and time-domain arrays the way a Web Audio AnalyserNode does.
package analyser

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/iburimskiy/particle-visualizer/internal/config"
)

// Analyser is fed from the audio goroutine via Write and read from the frame
// loop via the Byte* methods.
type Analyser struct {
	mu   sync.Mutex
	ring []float64
	next int

	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	fft      *fourier.FFT
	window   []float64
	frame    []float64
	coeffs   []complex128
	smoothed []float64
}

// New returns an analyser with the configured FFT size, smoothing and
// decibel range.
func New() *Analyser {
	return NewWithSize(config.FFTSize)
}

// NewWithSize returns an analyser over fftSize samples. fftSize must be even.
func NewWithSize(fftSize int) *Analyser {
	win := make([]float64, fftSize)
	for i := range win {
		win[i] = 1
	}
	return &Analyser{
		ring:      make([]float64, fftSize),
		fftSize:   fftSize,
		smoothing: config.SmoothingTimeConstant,
		minDB:     config.MinDecibels,
		maxDB:     config.MaxDecibels,
		fft:       fourier.NewFFT(fftSize),
		window:    window.Blackman(win),
		frame:     make([]float64, fftSize),
		coeffs:    make([]complex128, fftSize/2+1),
		smoothed:  make([]float64, fftSize/2),
	}
}

// BinCount is the number of frequency bins, half the FFT size.
func (a *Analyser) BinCount() int { return a.fftSize / 2 }

// FFTSize is the number of samples analysed per frame.
func (a *Analyser) FFTSize() int { return a.fftSize }

// Write appends mono samples in [-1, 1], overwriting the oldest.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.next] = s
		a.next++
		if a.next >= len(a.ring) {
			a.next = 0
		}
	}
	a.mu.Unlock()
}

// Reset clears the sample window and the smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.ring)
	clear(a.smoothed)
	a.next = 0
}

// snapshot copies the window into a.frame in chronological order.
// Callers hold a.mu.
func (a *Analyser) snapshot() {
	n := copy(a.frame, a.ring[a.next:])
	copy(a.frame[n:], a.ring[:a.next])
}

// ByteTimeDomainData fills dst with the oldest len(dst) samples of the
// current window, mapped to 0..255 with silence at 128.
func (a *Analyser) ByteTimeDomainData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot()

	n := min(len(dst), a.fftSize)
	for i := 0; i < n; i++ {
		v := math.Floor(128 * (1 + a.frame[i]))
		dst[i] = clampByte(v)
	}
}

// ByteFrequencyData runs one analysis frame and fills dst with smoothed
// magnitudes mapped from [minDecibels, maxDecibels] to 0..255.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot()

	for i, w := range a.window {
		a.frame[i] *= w
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	scale := 255 / (a.maxDB - a.minDB)
	n := min(len(dst), len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / float64(a.fftSize)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k >= n {
			continue
		}
		if a.smoothed[k] <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		dst[k] = clampByte(math.Floor(scale * (db - a.minDB)))
	}
}

func clampByte(v float64) byte {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
