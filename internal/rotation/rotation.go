// Package rotation accumulates the constant-axis spin applied to the whole
// visualizer group.
package rotation

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Axis is the fixed rotation axis, normalised.
var Axis = mgl64.Vec3{0.3, 1.0, 0.2}.Normalize()

// Driver holds the accumulated orientation.
type Driver struct {
	axis        mgl64.Vec3
	orientation mgl64.Quat
}

// NewDriver returns a driver spinning around Axis, starting at identity.
func NewDriver() *Driver {
	return &Driver{
		axis:        Axis,
		orientation: mgl64.QuatIdent(),
	}
}

// Step rotates by angle radians. The new rotation is applied before the
// accumulated one (pre-multiplication).
func (d *Driver) Step(angle float64) {
	r := mgl64.QuatRotate(angle, d.axis)
	d.orientation = r.Mul(d.orientation).Normalize()
}

func (d *Driver) Orientation() mgl64.Quat { return d.orientation }

// Matrix returns the orientation as a model matrix.
func (d *Driver) Matrix() mgl64.Mat4 { return d.orientation.Mat4() }

func (d *Driver) Reset() { d.orientation = mgl64.QuatIdent() }
