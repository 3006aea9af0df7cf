package transform

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidLens   = errors.New("transform: invalid lens")
	ErrDepthMismatch = errors.New("transform: depth convention does not match the perspective matrix")
)

// DepthFunc mirrors the depth comparison set on the graphics context
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthGreater
	DepthGreaterEqual
)

func (f DepthFunc) String() string {
	switch f {
	case DepthLess:
		return "less"
	case DepthLessEqual:
		return "lequal"
	case DepthGreater:
		return "greater"
	case DepthGreaterEqual:
		return "gequal"
	}
	return fmt.Sprintf("DepthFunc(%d)", int(f))
}

// DepthConvention is the depth state that must be configured together with
// the perspective matrix built by SetPerspective.
type DepthConvention struct {
	RangeNear  float32 // glDepthRange near value
	RangeFar   float32 // glDepthRange far value
	Func       DepthFunc
	ClearDepth float32
}

// ReversedDepth is the convention the perspective matrix is written for:
// the matrix puts the near plane at NDC z=+1 and the far plane at z=-1,
// so the depth range is flipped to keep near=0 and far=1 in the window.
var ReversedDepth = DepthConvention{
	RangeNear:  1,
	RangeFar:   0,
	Func:       DepthLessEqual,
	ClearDepth: 1,
}

// WindowDepth maps a normalized device z to the window depth written to the
// depth buffer
func (d DepthConvention) WindowDepth(ndcZ float32) float32 {
	return (d.RangeFar-d.RangeNear)/2*ndcZ + (d.RangeFar+d.RangeNear)/2
}

// Passes reports whether an incoming fragment depth passes against the
// stored depth
func (d DepthConvention) Passes(incoming, stored float32) bool {
	switch d.Func {
	case DepthLess:
		return incoming < stored
	case DepthLessEqual:
		return incoming <= stored
	case DepthGreater:
		return incoming > stored
	case DepthGreaterEqual:
		return incoming >= stored
	}
	return false
}

// Lens holds the perspective parameters fed in by window resize handling
type Lens struct {
	FOV  float32 // vertical field of view, degrees
	Near float32
	Far  float32
}

func (l Lens) Validate() error {
	if l.FOV <= 0 || l.FOV >= 180 {
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalidLens, l.FOV)
	}
	if l.Near <= 0 {
		return fmt.Errorf("%w: near %v must be positive", ErrInvalidLens, l.Near)
	}
	if l.Far <= l.Near {
		return fmt.Errorf("%w: far %v must exceed near %v", ErrInvalidLens, l.Far, l.Near)
	}

	return nil
}

// Matrix builds the projection for the given aspect ratio
func (l Lens) Matrix(aspect float32) mgl32.Mat4 {
	s := Stack{}
	s.SetPerspectiveAspect(l.FOV, aspect, l.Near, l.Far)
	return s.Top()
}

// Projection pairs a lens with the depth state its matrix relies on
type Projection struct {
	Lens  Lens
	Depth DepthConvention
}

// Validate checks the lens and that the depth state keeps nearer fragments
// winning with the NDC range the perspective matrix produces.
func (p Projection) Validate() error {
	if err := p.Lens.Validate(); err != nil {
		return err
	}

	near, far := p.Depth.WindowDepth(1), p.Depth.WindowDepth(-1)
	if near >= far {
		return fmt.Errorf("%w: near plane maps to %v, far plane to %v", ErrDepthMismatch, near, far)
	}
	if !p.Depth.Passes(near, far) || p.Depth.Passes(far, near) {
		return fmt.Errorf("%w: depth func %v", ErrDepthMismatch, p.Depth.Func)
	}

	return nil
}

// DefaultProjection matches the 3D samples: 45° fov, near 0.1, far 100
func DefaultProjection() Projection {
	return Projection{
		Lens:  Lens{FOV: 45, Near: 0.1, Far: 100},
		Depth: ReversedDepth,
	}
}
