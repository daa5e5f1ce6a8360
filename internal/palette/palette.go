// Package palette holds the named colour schemes and the blend functions that
// map a scalar onto a scheme's gradient.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Default is the scheme active at startup.
const Default = "ocean"

// Scheme is a named 5-colour gradient.
type Scheme struct {
	Name      string
	Label     string
	Primary   colorful.Color
	Secondary colorful.Color
	Accent    colorful.Color
	Highlight colorful.Color
	Dark      colorful.Color
}

var schemes = []*Scheme{
	{
		Name:      "ocean",
		Label:     "Ocean Blue",
		Primary:   mustHex("#0077be"),
		Secondary: mustHex("#00a9ff"),
		Accent:    mustHex("#00d2ff"),
		Highlight: mustHex("#80eaff"),
		Dark:      mustHex("#004080"),
	},
	{
		Name:      "magenta",
		Label:     "Magenta Dream",
		Primary:   mustHex("#ff00ff"),
		Secondary: mustHex("#d400d4"),
		Accent:    mustHex("#ff2cc4"),
		Highlight: mustHex("#ff9dff"),
		Dark:      mustHex("#800080"),
	},
	{
		Name:      "emerald",
		Label:     "Emerald Forest",
		Primary:   mustHex("#00cc44"),
		Secondary: mustHex("#00aa44"),
		Accent:    mustHex("#22ee66"),
		Highlight: mustHex("#88ffaa"),
		Dark:      mustHex("#006633"),
	},
	{
		Name:      "sunset",
		Label:     "Sunset Glow",
		Primary:   mustHex("#ff5500"),
		Secondary: mustHex("#ff8800"),
		Accent:    mustHex("#ffaa00"),
		Highlight: mustHex("#ffdd44"),
		Dark:      mustHex("#aa2200"),
	},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the scheme with the given name.
func Lookup(name string) (*Scheme, bool) {
	for _, s := range schemes {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Names returns the scheme names in display order.
func Names() []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.Name
	}
	return out
}

// Valid reports whether name is a known scheme.
func Valid(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Blend maps t in [0,1] onto dark -> primary -> secondary -> highlight with
// breakpoints at 0.3 and 0.6.
func (s *Scheme) Blend(t float64) colorful.Color {
	switch {
	case t < 0.3:
		return s.Dark.BlendRgb(s.Primary, clamp01(t*(1/0.3)))
	case t < 0.6:
		return s.Primary.BlendRgb(s.Secondary, clamp01((t-0.3)*(1/0.3)))
	default:
		return s.Secondary.BlendRgb(s.Highlight, clamp01((t-0.6)*(1/0.4)))
	}
}

// IntensityBlend is the static recolor used at construction and on scheme
// switch. It only spans dark -> primary -> secondary and is keyed off the
// particle intensity in [0.8, 1.2).
func (s *Scheme) IntensityBlend(intensity float64) colorful.Color {
	b := clamp01((intensity - 0.8) * 5)
	if b < 0.5 {
		return s.Dark.BlendRgb(s.Primary, b*2)
	}
	return s.Primary.BlendRgb(s.Secondary, (b-0.5)*2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
