package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-visualizer/internal/audio"
	"github.com/iburimskiy/particle-visualizer/internal/config"
)

const (
	particleAlpha = 0.8
	// Particles per DrawTriangles call; 4 vertices each must fit uint16 indices.
	batchParticles = 16000
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// particleBatch holds reusable vertex and index storage for one draw call.
type particleBatch struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

func (b *particleBatch) reset() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

func (b *particleBatch) full() bool {
	return len(b.vertices)/4 >= batchParticles
}

func (b *particleBatch) addQuad(x, y, half float32, r, g, bl, a float32) {
	base := uint16(len(b.vertices))
	for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX:   x + c[0]*half,
			DstY:   y + c[1]*half,
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: bl,
			ColorA: a,
		})
	}
	b.indices = append(b.indices, base, base+1, base+2, base+1, base+3, base+2)
}

func (b *particleBatch) flush(screen *ebiten.Image) {
	if len(b.vertices) == 0 {
		return
	}
	screen.DrawTriangles(b.vertices, b.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{
		Blend: ebiten.BlendLighter,
	})
	b.reset()
}

// drawParticles projects the render buffers through the group rotation and
// draws each particle as an additive quad.
func (g *Game) drawParticles(screen *ebiten.Image) {
	field := g.engine.Field()
	positions := field.Positions()
	colors := field.Colors()
	sizes := field.Sizes()

	frame := g.camera.Frame(g.rotation.Matrix())
	g.batch.reset()

	for i := 0; i < field.Len(); i++ {
		p := mgl64.Vec3{float64(positions[i*3]), float64(positions[i*3+1]), float64(positions[i*3+2])}
		x, y, w, ok := frame.Project(p)
		if !ok {
			continue
		}
		half := float32(math.Max(0.5, frame.PointSize(float64(sizes[i]), w)/2))
		g.batch.addQuad(float32(x), float32(y), half,
			float32(clamp01(float64(colors[i*3]))),
			float32(clamp01(float64(colors[i*3+1]))),
			float32(clamp01(float64(colors[i*3+2]))),
			particleAlpha,
		)
		if g.batch.full() {
			g.batch.flush(screen)
		}
	}
	g.batch.flush(screen)
}

// drawShell draws the wireframe sphere scaled by the engine's shell factor.
func (g *Game) drawShell(screen *ebiten.Image) {
	s := g.engine.ShellScale()
	frame := g.camera.Frame(g.rotation.Matrix().Mul4(mgl64.Scale3D(s, s, s)))

	n := len(g.shell.Vertices)
	if len(g.shellX) != n {
		g.shellX = make([]float32, n)
		g.shellY = make([]float32, n)
		g.shellV = make([]bool, n)
	}
	for i, v := range g.shell.Vertices {
		x, y, _, ok := frame.Project(v)
		g.shellX[i], g.shellY[i], g.shellV[i] = float32(x), float32(y), ok
	}

	dark := g.engine.Scheme().Dark
	clr := rgba(dark.R, dark.G, dark.B, config.ShellOpacity)
	for _, e := range g.shell.Edges {
		a, b := e[0], e[1]
		if !g.shellV[a] || !g.shellV[b] {
			continue
		}
		vector.StrokeLine(screen, g.shellX[a], g.shellY[a], g.shellX[b], g.shellY[b], 1, clr, true)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	p := g.settings.Snapshot()

	source := "no source"
	switch {
	case g.pipeline.MicActive():
		source = "microphone"
	case g.pipeline.NowPlaying() != "":
		pos, length := g.pipeline.Progress()
		source = fmt.Sprintf("%s %s / %s", g.pipeline.NowPlaying(), formatDuration(pos), formatDuration(length))
	}
	if g.pipeline.State() == audio.StateSuspended {
		source += " (paused)"
	}

	status := fmt.Sprintf("[%s] %s | scheme: %s", g.mode, source, g.engine.Scheme().Label)
	if g.pending > 0 {
		status += " | loading..."
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	knobs := fmt.Sprintf("size %.2f (Up/Down)  rotation %.3f (Left/Right)  wave %.1f (W/E)  volume %.2f (-/=)",
		p.ParticleSizeMultiplier, p.RotationSpeed, p.WaveIntensity, p.Volume)
	ebitenutil.DebugPrintAt(screen, knobs, 12, config.WindowHeight-40)
	ebitenutil.DebugPrintAt(screen, "O: open  S: sample  M: mic  Space: pause  1-4: scheme  Esc/Q: quit", 12, config.WindowHeight-22)
}
