package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up reference used to orient the view
var WorldUp = mgl32.Vec3{0, 1, 0}

// Spherical places the eye on a sphere around Target.
// RelativePosition holds (azimuth°, elevation°, radius): azimuth is measured
// from +X towards +Z, elevation from the +Y pole.
//
// The elevation must stay away from the poles (0° and 180°), where the look
// direction is parallel to WorldUp and the view matrix is NaN. Spherical does
// not clamp it, Controller does.
type Spherical struct {
	RelativePosition mgl32.Vec3
	Target           mgl32.Vec3
}

// Default returns the camera used by the 3D scenes: 50 units from the origin,
// 45° down from the pole, on the +Z side.
func Default() Spherical {
	return Spherical{
		RelativePosition: mgl32.Vec3{90, 45, 50},
		Target:           mgl32.Vec3{0, 0, 0},
	}
}

func (c Spherical) Azimuth() float32 {
	return c.RelativePosition[0]
}

func (c Spherical) Elevation() float32 {
	return c.RelativePosition[1]
}

func (c Spherical) Radius() float32 {
	return c.RelativePosition[2]
}

// EyePosition converts the spherical offset to world space
func (c Spherical) EyePosition() mgl32.Vec3 {
	theta := float64(c.Azimuth()) * math.Pi / 180
	phi := float64(c.Elevation()) * math.Pi / 180
	r := float64(c.Radius())

	sinPhi := math.Sin(phi)
	offset := mgl32.Vec3{
		float32(r * sinPhi * math.Cos(theta)),
		float32(r * math.Cos(phi)),
		float32(r * sinPhi * math.Sin(theta)),
	}

	return offset.Add(c.Target)
}

// ViewMatrix returns the world to camera transform R·T(-eye), where the rows
// of R are the camera right, up and backward axes.
func (c Spherical) ViewMatrix() mgl32.Mat4 {
	eye := c.EyePosition()

	lookDir := c.Target.Sub(eye).Normalize()
	right := lookDir.Cross(WorldUp).Normalize()
	up := right.Cross(lookDir)

	// column-major, so each basis vector is spread over a row
	rot := mgl32.Mat4{
		right[0], up[0], -lookDir[0], 0,
		right[1], up[1], -lookDir[1], 0,
		right[2], up[2], -lookDir[2], 0,
		0, 0, 0, 1,
	}

	return rot.Mul4(mgl32.Translate3D(-eye[0], -eye[1], -eye[2]))
}

// AdjustAzimuth orbits around the vertical axis through the target
func (c *Spherical) AdjustAzimuth(delta float32) {
	c.RelativePosition[0] += delta
}

// AdjustElevation tilts towards (negative) or away from (positive) the +Y pole.
// No clamping is applied.
func (c *Spherical) AdjustElevation(delta float32) {
	c.RelativePosition[1] += delta
}

// PanTarget moves the target, and the eye with it
func (c *Spherical) PanTarget(delta mgl32.Vec3) {
	c.Target = c.Target.Add(delta)
}
