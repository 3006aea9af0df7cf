package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Intent is a discrete camera command produced by the input layer
type Intent int

const (
	OrbitLeft Intent = iota
	OrbitRight
	TiltUp
	TiltDown
	PanForward
	PanBack
	PanLeft
	PanRight
	PanUp
	PanDown
)

var intentNames = [...]string{
	OrbitLeft:  "orbit-left",
	OrbitRight: "orbit-right",
	TiltUp:     "tilt-up",
	TiltDown:   "tilt-down",
	PanForward: "pan-forward",
	PanBack:    "pan-back",
	PanLeft:    "pan-left",
	PanRight:   "pan-right",
	PanUp:      "pan-up",
	PanDown:    "pan-down",
}

func (i Intent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// ParseIntent is the inverse of Intent.String
func ParseIntent(name string) (Intent, error) {
	for i, n := range intentNames {
		if n == name {
			return Intent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown camera intent %q", name)
}

// Steps holds how far a single intent moves the camera
type Steps struct {
	Azimuth   float32 // degrees
	Elevation float32 // degrees
	Pan       float32 // world units
}

// Limits bounds the elevation so the view never reaches a pole
type Limits struct {
	MinElevation float32
	MaxElevation float32
}

// Controller applies intents to a camera and keeps its elevation in Limits
type Controller struct {
	Camera *Spherical
	Steps  Steps
	Limits Limits
}

func DefaultSteps() Steps {
	return Steps{Azimuth: 3, Elevation: 1, Pan: 4}
}

func DefaultLimits() Limits {
	return Limits{MinElevation: 1, MaxElevation: 80}
}

// NewController creates a controller with the default steps and limits
func NewController(camera *Spherical) *Controller {
	return &Controller{
		Camera: camera,
		Steps:  DefaultSteps(),
		Limits: DefaultLimits(),
	}
}

// Apply performs the intent then clamps the elevation
func (ctl *Controller) Apply(intent Intent) error {
	c := ctl.Camera
	pan := ctl.Steps.Pan

	switch intent {
	case OrbitLeft:
		c.AdjustAzimuth(-ctl.Steps.Azimuth)
	case OrbitRight:
		c.AdjustAzimuth(ctl.Steps.Azimuth)
	case TiltUp:
		c.AdjustElevation(-ctl.Steps.Elevation)
	case TiltDown:
		c.AdjustElevation(ctl.Steps.Elevation)
	case PanForward:
		c.PanTarget(mgl32.Vec3{0, 0, -pan})
	case PanBack:
		c.PanTarget(mgl32.Vec3{0, 0, pan})
	case PanLeft:
		c.PanTarget(mgl32.Vec3{-pan, 0, 0})
	case PanRight:
		c.PanTarget(mgl32.Vec3{pan, 0, 0})
	case PanUp:
		c.PanTarget(mgl32.Vec3{0, pan, 0})
	case PanDown:
		c.PanTarget(mgl32.Vec3{0, -pan, 0})
	default:
		return fmt.Errorf("unhandled camera intent %v", intent)
	}

	ctl.Clamp()
	return nil
}

// Clamp brings the elevation back into Limits
func (ctl *Controller) Clamp() {
	ctl.Camera.RelativePosition[1] = mgl32.Clamp(ctl.Camera.RelativePosition[1], ctl.Limits.MinElevation, ctl.Limits.MaxElevation)
}
