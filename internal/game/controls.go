package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-visualizer/internal/config"
	"github.com/iburimskiy/particle-visualizer/internal/palette"
)

// Knob ranges for keyboard adjustment.
const (
	minParticleSize = 0.01
	maxParticleSize = 1.0
	maxRotation     = 0.05
	maxWave         = 3.0
)

type button struct {
	label   string
	x, y    int
	w, h    int
	onClick func()
	// active, when set, highlights the button while it returns true.
	active func() bool

	hovered bool
	pressed bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

func (g *Game) newButtons() []*button {
	var out []*button
	x := config.ButtonX
	add := func(label string, onClick func(), active func() bool) {
		out = append(out, &button{
			label:   label,
			x:       x,
			y:       config.ButtonY,
			w:       config.ButtonWidth,
			h:       config.ButtonHeight,
			onClick: onClick,
			active:  active,
		})
		x += config.ButtonWidth + config.ButtonGap
	}

	add("Open File", g.OpenFileDialog, nil)
	if g.hasSample {
		add("Sample", g.PlaySample, nil)
	}
	add("Mic", g.ToggleMic, g.pipeline.MicActive)
	for _, name := range palette.Names() {
		name := name
		add(name, func() { g.SelectScheme(name) }, func() bool {
			return g.engine.Scheme().Name == name
		})
	}
	return out
}

func (g *Game) updateButtons() {
	mouseX, mouseY := ebiten.CursorPosition()
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	for _, b := range g.buttons {
		b.hovered = b.contains(mouseX, mouseY)
		if b.hovered && justPressed {
			b.pressed = true
		}
		if justReleased {
			if b.pressed && b.hovered {
				b.onClick()
			}
			b.pressed = false
		}
	}
}

// updateOrbit drags the camera with the left button held outside the buttons
// and zooms it with the wheel.
func (g *Game) updateOrbit() {
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = !g.overButton(x, y)
		g.dragX, g.dragY = x, y
	}
	if g.dragging {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.dragging = false
		} else {
			g.camera.Drag(float64(x-g.dragX), float64(y-g.dragY))
			g.dragX, g.dragY = x, y
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camera.Zoom(wy)
	}
	g.camera.Update()
}

func (g *Game) overButton(x, y int) bool {
	for _, b := range g.buttons {
		if b.contains(x, y) {
			return true
		}
	}
	return false
}

// handleKeys maps the keyboard onto commands and knobs.
func (g *Game) handleKeys() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	schemeKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}
	for i, name := range palette.Names() {
		if i < len(schemeKeys) && inpututil.IsKeyJustPressed(schemeKeys[i]) {
			g.SelectScheme(name)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.OpenFileDialog()
	case g.hasSample && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.PlaySample()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.ToggleMic()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.pipeline.TogglePause()
	}

	s := g.settings
	if d := keyDelta(ebiten.KeyArrowUp, ebiten.KeyArrowDown); d != 0 {
		s.SetParticleSizeMultiplier(clamp(s.ParticleSizeMultiplier()+d*config.ParticleSizeStep, minParticleSize, maxParticleSize))
	}
	if d := keyDelta(ebiten.KeyArrowRight, ebiten.KeyArrowLeft); d != 0 {
		s.SetRotationSpeed(clamp(s.RotationSpeed()+d*config.RotationSpeedStep, 0, maxRotation))
	}
	if d := keyDelta(ebiten.KeyE, ebiten.KeyW); d != 0 {
		s.SetWaveIntensity(clamp(s.WaveIntensity()+d*config.WaveIntensityStep, 0, maxWave))
	}
	if d := keyDelta(ebiten.KeyEqual, ebiten.KeyMinus); d != 0 {
		s.SetVolume(clamp(s.Volume()+d*config.VolumeStep, 0, 1))
	}
	return nil
}

// keyDelta returns +1 or -1 when up or down was just pressed.
func keyDelta(up, down ebiten.Key) float64 {
	switch {
	case inpututil.IsKeyJustPressed(up):
		return 1
	case inpututil.IsKeyJustPressed(down):
		return -1
	}
	return 0
}

func (g *Game) drawButtons(screen *ebiten.Image) {
	for _, b := range g.buttons {
		var bgColor color.Color
		switch {
		case b.pressed:
			bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
		case b.active != nil && b.active():
			bgColor = color.RGBA{R: 40, G: 140, B: 190, A: 255} // Active
		case b.hovered:
			bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
		default:
			bgColor = color.RGBA{R: 50, G: 60, B: 80, A: 255} // Normal
		}

		vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)
		borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
		vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1, borderColor, false)

		textWidth := len(b.label) * 6 // debug font glyph width
		textX := b.x + (b.w-textWidth)/2
		textY := b.y + (b.h-16)/2
		ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
	}
}
