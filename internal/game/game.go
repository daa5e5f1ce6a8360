// Package game is the ebiten front end: it drives the frame engine once per
// tick, draws the particle field and shell, and maps input onto settings and
// audio source commands.
package game

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/particle-visualizer/internal/audio"
	"github.com/iburimskiy/particle-visualizer/internal/camera"
	"github.com/iburimskiy/particle-visualizer/internal/config"
	"github.com/iburimskiy/particle-visualizer/internal/engine"
	"github.com/iburimskiy/particle-visualizer/internal/palette"
	"github.com/iburimskiy/particle-visualizer/internal/rotation"
	"github.com/iburimskiy/particle-visualizer/internal/shell"
)

// taskResult is what an async source switch reports back to the frame loop.
type taskResult struct {
	action string
	err    error
}

// Game implements ebiten.Game.
type Game struct {
	settings *config.Settings
	engine   *engine.Engine
	rotation *rotation.Driver
	pipeline *audio.Pipeline

	// scene
	camera *camera.Camera
	shell  *shell.Mesh
	batch  particleBatch
	shellX []float32
	shellY []float32
	shellV []bool

	dragging     bool
	dragX, dragY int

	start time.Time
	mode  engine.Mode

	// ui
	buttons   []*button
	hasSample bool
	tasks     chan taskResult
	pending   int
	lastErr   error

	appliedVolume float64
}

// New wires the engine, settings and audio pipeline into a game.
func New(settings *config.Settings, eng *engine.Engine, pipeline *audio.Pipeline) *Game {
	g := &Game{
		settings:      settings,
		engine:        eng,
		rotation:      rotation.NewDriver(),
		pipeline:      pipeline,
		camera:        camera.New(config.WindowWidth, config.WindowHeight),
		shell:         shell.Icosphere(config.SphereRadius, config.ShellDetail),
		start:         time.Now(),
		tasks:         make(chan taskResult, 4),
		appliedVolume: -1,
		hasSample:     config.SampleTrackAvailable(),
	}
	if !g.hasSample {
		logrus.WithFields(logrus.Fields{
			"function": "New",
			"path":     config.SampleTrack,
		}).Warn("Sample track not found, hiding the Sample control")
	}
	g.buttons = g.newButtons()
	return g
}

func (g *Game) Update() error {
	g.collectTasks()

	g.updateButtons()
	g.updateOrbit()
	if err := g.handleKeys(); err != nil {
		return err
	}

	params := g.settings.Snapshot()
	if params.Volume != g.appliedVolume {
		g.pipeline.SetVolume(params.Volume)
		g.appliedVolume = params.Volume
	}

	now := time.Since(g.start).Seconds()
	g.mode = g.engine.Tick(now, params, g.pipeline)
	g.rotation.Step(params.RotationSpeed)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawShell(screen)
	g.drawParticles(screen)
	g.drawButtons(screen)
	g.drawStatus(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// runTask runs fn off the frame loop and reports its result on the next tick.
func (g *Game) runTask(action string, fn func() error) {
	g.pending++
	go func() {
		g.tasks <- taskResult{action: action, err: fn()}
	}()
}

func (g *Game) collectTasks() {
	for {
		select {
		case r := <-g.tasks:
			g.pending--
			g.lastErr = r.err
			if r.err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "collectTasks",
					"action":   r.action,
				}).WithError(r.err).Warn("Audio source task failed")
			}
		default:
			return
		}
	}
}

// PlayFile loads path in the background and makes it the active source.
func (g *Game) PlayFile(path string) {
	g.runTask("play file", func() error {
		return g.pipeline.PlayFile(path)
	})
}

// OpenFileDialog asks for a file and plays it. Cancelling is not an error.
func (g *Game) OpenFileDialog() {
	g.runTask("open file", func() error {
		filename, err := zenity.SelectFile(
			zenity.Title("Open Audio File"),
			zenity.FileFilters{{
				Name:     "Audio",
				Patterns: []string{"*.wav", "*.mp3", "*.flac"},
			}},
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return nil
			}
			return err
		}
		return g.pipeline.PlayFile(filename)
	})
}

// PlaySample plays the bundled sample track.
func (g *Game) PlaySample() {
	g.PlayFile(config.SampleTrack)
}

// ToggleMic switches the microphone on or off. Failures are shown in a
// blocking dialog; the engine stays idle meanwhile.
func (g *Game) ToggleMic() {
	g.runTask("toggle mic", func() error {
		if _, err := g.pipeline.ToggleMic(); err != nil {
			_ = zenity.Error(
				"Could not access microphone. Please check permissions.",
				zenity.Title("Microphone"),
				zenity.ErrorIcon,
			)
			return err
		}
		return nil
	})
}

// SelectScheme requests a colour scheme; it is applied on the next tick.
// Unknown names are ignored.
func (g *Game) SelectScheme(name string) {
	if !palette.Valid(name) {
		return
	}
	g.settings.SetScheme(name)
}
