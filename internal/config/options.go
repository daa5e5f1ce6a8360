package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrInvalidOption is returned by ParseOptions for out-of-range flag values.
var ErrInvalidOption = errors.New("invalid option")

// Options are the command-line settings read once at startup.
type Options struct {
	Particles int
	Seed      int64
	File      string
	Mic       bool
	Scheme    string
	LogLevel  logrus.Level
}

// ParseOptions parses args (without the program name). validScheme reports
// whether a scheme name is known.
func ParseOptions(args []string, output io.Writer, validScheme func(string) bool) (Options, error) {
	fs := flag.NewFlagSet("particle-visualizer", flag.ContinueOnError)
	fs.SetOutput(output)

	var opts Options
	var level string
	fs.IntVar(&opts.Particles, "particles", ParticleCount, "number of particles in the field")
	fs.Int64Var(&opts.Seed, "seed", 1, "seed for particle randomisation (0 = time based)")
	fs.StringVar(&opts.File, "file", "", "audio file to play on startup (wav, mp3, flac)")
	fs.BoolVar(&opts.Mic, "mic", false, "start with the microphone as audio source")
	fs.StringVar(&opts.Scheme, "scheme", "ocean", "initial colour scheme")
	fs.StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if opts.Particles < 1 {
		return Options{}, fmt.Errorf("%w: particles must be >= 1, got %d", ErrInvalidOption, opts.Particles)
	}
	if validScheme != nil && !validScheme(opts.Scheme) {
		return Options{}, fmt.Errorf("%w: unknown scheme %q", ErrInvalidOption, opts.Scheme)
	}
	if opts.File != "" && opts.Mic {
		return Options{}, fmt.Errorf("%w: -file and -mic are mutually exclusive", ErrInvalidOption)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	opts.LogLevel = lvl

	return opts, nil
}
