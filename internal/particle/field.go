// Package particle owns the immutable particle seeds and the flat render
// buffers the engine rewrites every frame.
package particle

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/particle-visualizer/internal/config"
	"github.com/iburimskiy/particle-visualizer/internal/palette"
)

// Seed is the per-particle data fixed at construction.
type Seed struct {
	Origin         mgl64.Vec3
	Phi            float64
	Theta          float64
	VelocityFactor float64 // [0.2, 1.0)
	PhaseFactor    float64 // [0, 2π)
	Intensity      float64 // [0.8, 1.2)
}

// Field is a fixed-size particle set plus its render buffers.
type Field struct {
	seeds     []Seed
	positions []float32
	colors    []float32
	sizes     []float32
}

// NewRand returns a PCG source for seed. A zero seed is replaced by the
// current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewField distributes n particles over a sphere using a Fibonacci spiral and
// colours them with scheme. n must be at least 1.
func NewField(n int, rng *rand.Rand, scheme *palette.Scheme) *Field {
	f := &Field{
		seeds:     make([]Seed, n),
		positions: make([]float32, n*3),
		colors:    make([]float32, n*3),
		sizes:     make([]float32, n),
	}

	spiral := math.Sqrt(float64(n) * math.Pi)
	for i := range f.seeds {
		phi := math.Acos(-1 + 2*float64(i)/float64(n))
		theta := spiral * phi

		origin := mgl64.Vec3{
			config.SphereRadius * math.Sin(phi) * math.Cos(theta),
			config.SphereRadius * math.Sin(phi) * math.Sin(theta),
			config.SphereRadius * math.Cos(phi),
		}

		f.seeds[i] = Seed{
			Origin:         origin,
			Phi:            phi,
			Theta:          theta,
			VelocityFactor: 0.2 + rng.Float64()*0.8,
			PhaseFactor:    rng.Float64() * math.Pi * 2,
			Intensity:      0.8 + rng.Float64()*0.4,
		}

		f.SetPosition(i, origin.X(), origin.Y(), origin.Z())
		f.sizes[i] = float32(0.05 + rng.Float64()*0.1)
	}

	f.Recolor(scheme)
	return f
}

// Len returns the particle count.
func (f *Field) Len() int { return len(f.seeds) }

// Seed returns the immutable seed of particle i.
func (f *Field) Seed(i int) Seed { return f.seeds[i] }

// Positions returns the xyz render buffer (3 per particle).
func (f *Field) Positions() []float32 { return f.positions }

// Colors returns the rgb render buffer (3 per particle).
func (f *Field) Colors() []float32 { return f.colors }

// Sizes returns the size render buffer (1 per particle).
func (f *Field) Sizes() []float32 { return f.sizes }

func (f *Field) SetPosition(i int, x, y, z float64) {
	f.positions[i*3] = float32(x)
	f.positions[i*3+1] = float32(y)
	f.positions[i*3+2] = float32(z)
}

func (f *Field) SetColor(i int, r, g, b float64) {
	f.colors[i*3] = float32(r)
	f.colors[i*3+1] = float32(g)
	f.colors[i*3+2] = float32(b)
}

func (f *Field) SetSize(i int, s float64) {
	f.sizes[i] = float32(s)
}

// Recolor rewrites every particle colour from its static intensity.
func (f *Field) Recolor(scheme *palette.Scheme) {
	for i, s := range f.seeds {
		c := scheme.IntensityBlend(s.Intensity)
		f.SetColor(i, c.R, c.G, c.B)
	}
}
