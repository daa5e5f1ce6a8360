package game

import (
	"fmt"
	"image/color"
	"time"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

// rgba converts straight-alpha float channels to a premultiplied colour,
// clamping overshoot.
func rgba(r, g, b, a float64) color.RGBA {
	a = clamp01(a)
	return color.RGBA{
		R: uint8(clamp01(r) * a * 255),
		G: uint8(clamp01(g) * a * 255),
		B: uint8(clamp01(b) * a * 255),
		A: uint8(a * 255),
	}
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
