// Package camera projects world-space points to screen pixels for a
// perspective camera orbiting the origin.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/particle-visualizer/internal/config"
)

// Camera is a perspective camera on a sphere around the origin. It starts on
// the +z axis; Drag and Zoom move it, Update eases pending rotation in.
type Camera struct {
	width, height float64
	proj          mgl64.Mat4
	viewProj      mgl64.Mat4
	// pointScale converts a world-space point size at unit distance to pixels.
	pointScale float64

	// Spherical position: polar from +y, azimuth around y from +z.
	polar, azimuth, distance float64
	// Rotation still to be applied, drained by Update.
	pendingPolar, pendingAzimuth float64
}

// New returns a camera for a width x height viewport.
func New(width, height int) *Camera {
	c := &Camera{
		polar:    math.Pi / 2,
		distance: config.CameraZ,
	}
	c.Resize(width, height)
	return c
}

// Resize updates the viewport and the projection aspect.
func (c *Camera) Resize(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
	fov := mgl64.DegToRad(config.CameraFOV)
	c.proj = mgl64.Perspective(fov, c.width/c.height, config.CameraNear, config.CameraFar)
	c.pointScale = c.height / 2 / math.Tan(fov/2)
	c.rebuild()
}

// Drag queues a rotation for a pointer move of dx, dy pixels. A drag across
// the full viewport height turns the camera once around.
func (c *Camera) Drag(dx, dy float64) {
	c.pendingAzimuth -= 2 * math.Pi * dx / c.height
	c.pendingPolar -= 2 * math.Pi * dy / c.height
}

// Zoom moves the camera towards the origin for positive steps and away for
// negative ones. The distance is clamped.
func (c *Camera) Zoom(steps float64) {
	if steps == 0 {
		return
	}
	c.distance *= math.Pow(config.OrbitZoomStep, steps)
	c.distance = math.Max(config.OrbitMinDistance, math.Min(config.OrbitMaxDistance, c.distance))
	c.rebuild()
}

// Update applies a damped share of the pending rotation, as orbit controls do
// once per frame.
func (c *Camera) Update() {
	if c.pendingAzimuth == 0 && c.pendingPolar == 0 {
		return
	}
	c.azimuth += c.pendingAzimuth * config.OrbitDamping
	c.polar += c.pendingPolar * config.OrbitDamping
	c.polar = math.Max(config.OrbitMinPolar, math.Min(config.OrbitMaxPolar, c.polar))

	c.pendingAzimuth *= 1 - config.OrbitDamping
	c.pendingPolar *= 1 - config.OrbitDamping
	if math.Abs(c.pendingAzimuth) < 1e-9 {
		c.pendingAzimuth = 0
	}
	if math.Abs(c.pendingPolar) < 1e-9 {
		c.pendingPolar = 0
	}
	c.rebuild()
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl64.Vec3 {
	s := math.Sin(c.polar)
	return mgl64.Vec3{
		c.distance * s * math.Sin(c.azimuth),
		c.distance * math.Cos(c.polar),
		c.distance * s * math.Cos(c.azimuth),
	}
}

func (c *Camera) Polar() float64    { return c.polar }
func (c *Camera) Azimuth() float64  { return c.azimuth }
func (c *Camera) Distance() float64 { return c.distance }

func (c *Camera) rebuild() {
	view := mgl64.LookAtV(c.Position(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	c.viewProj = c.proj.Mul4(view)
}

// Frame precomputes the full transform for one model matrix.
func (c *Camera) Frame(model mgl64.Mat4) Frame {
	return Frame{cam: c, mvp: c.viewProj.Mul4(model)}
}

// Frame projects points that share one model matrix.
type Frame struct {
	cam *Camera
	mvp mgl64.Mat4
}

// Project returns screen coordinates and the clip-space w (distance along the
// view axis). ok is false for points behind the near plane.
func (f Frame) Project(p mgl64.Vec3) (x, y, w float64, ok bool) {
	v := f.mvp.Mul4x1(p.Vec4(1))
	w = v.W()
	if w <= config.CameraNear {
		return 0, 0, w, false
	}
	ndcX := v.X() / w
	ndcY := v.Y() / w
	x = (ndcX + 1) / 2 * f.cam.width
	y = (1 - ndcY) / 2 * f.cam.height
	return x, y, w, true
}

// PointSize converts a world-space size at distance w to pixels.
func (f Frame) PointSize(size, w float64) float64 {
	return size * f.cam.pointScale / w
}
