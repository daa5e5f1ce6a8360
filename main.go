package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/particle-visualizer/internal/audio"
	"github.com/iburimskiy/particle-visualizer/internal/config"
	"github.com/iburimskiy/particle-visualizer/internal/engine"
	"github.com/iburimskiy/particle-visualizer/internal/game"
	"github.com/iburimskiy/particle-visualizer/internal/palette"
	"github.com/iburimskiy/particle-visualizer/internal/particle"
)

func main() {
	opts, err := config.ParseOptions(os.Args[1:], os.Stderr, palette.Valid)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logrus.WithError(err).Fatal("Invalid arguments")
	}

	logrus.SetLevel(opts.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	scheme, _ := palette.Lookup(opts.Scheme)
	field := particle.NewField(opts.Particles, particle.NewRand(opts.Seed), scheme)
	eng := engine.New(field, scheme)

	logrus.WithFields(logrus.Fields{
		"function":  "main",
		"particles": opts.Particles,
		"seed":      opts.Seed,
		"scheme":    scheme.Name,
	}).Info("Particle field ready")

	pipeline := audio.NewPipeline()
	defer pipeline.Close()

	g := game.New(config.NewSettings(scheme.Name), eng, pipeline)
	switch {
	case opts.File != "":
		g.PlayFile(opts.File)
	case opts.Mic:
		g.ToggleMic()
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Particle Visualizer - O: open file, M: microphone, 1-4: colours, Esc/Q: quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logrus.WithError(err).Fatal("Visualizer stopped")
	}
}
