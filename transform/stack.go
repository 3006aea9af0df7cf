package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrStackUnderflow is returned when Pop is called without a matching Push
var ErrStackUnderflow = errors.New("transform: pop on empty stack")

// Stack holds a current 4x4 transform and the matrices saved by Push.
// Every composition right-multiplies the current matrix, so a local transform
// applied inside a pushed scope is expressed relative to its parent.
type Stack struct {
	current mgl32.Mat4
	saved   []mgl32.Mat4
}

// NewStack creates a stack whose current matrix is the identity
func NewStack() *Stack {
	return &Stack{current: mgl32.Ident4()}
}

// NewStackFrom creates a stack starting from the given matrix
func NewStackFrom(initial mgl32.Mat4) *Stack {
	return &Stack{current: initial}
}

// Push saves a copy of the current matrix
func (s *Stack) Push() {
	s.saved = append(s.saved, s.current)
}

// Pop restores the most recently pushed matrix.
// The current matrix is left untouched when nothing was pushed.
func (s *Stack) Pop() error {
	n := len(s.saved)
	if n == 0 {
		return ErrStackUnderflow
	}

	s.current = s.saved[n-1]
	s.saved = s.saved[:n-1]

	return nil
}

// Top returns the current matrix
func (s *Stack) Top() mgl32.Mat4 {
	return s.current
}

// Depth returns the number of saved matrices
func (s *Stack) Depth() int {
	return len(s.saved)
}

// WithPushed runs fn between a Push and a Pop. The pop happens on every exit
// path of fn, panics included.
func (s *Stack) WithPushed(fn func() error) (err error) {
	s.Push()
	depth := len(s.saved)
	defer func() {
		// fn may have popped our entry itself, only unwind down to it
		if len(s.saved) < depth {
			err = errors.Join(err, fmt.Errorf("scope at depth %d: %w", depth, ErrStackUnderflow))
			return
		}
		s.current = s.saved[depth-1]
		s.saved = s.saved[:depth-1]
	}()

	return fn()
}

// Scope pushes the current matrix and returns the matching pop, to be
// deferred: defer stack.Scope()()
// The returned function panics if the stack was unbalanced inside the scope.
func (s *Stack) Scope() func() {
	s.Push()
	return func() {
		if err := s.Pop(); err != nil {
			panic(err)
		}
	}
}

// Scale right-multiplies the current matrix by diag(v.x, v.y, v.z, 1)
func (s *Stack) Scale(v mgl32.Vec3) {
	s.current = s.current.Mul4(mgl32.Scale3D(v.X(), v.Y(), v.Z()))
}

// UniformScale scales all three axes by the same factor
func (s *Stack) UniformScale(factor float32) {
	s.Scale(mgl32.Vec3{factor, factor, factor})
}

// Translate right-multiplies the current matrix by a translation of v
func (s *Stack) Translate(v mgl32.Vec3) {
	s.current = s.current.Mul4(mgl32.Translate3D(v.X(), v.Y(), v.Z()))
}

// Rotate right-multiplies the current matrix by a counter-clockwise rotation
// of the given degrees about axis. The axis is normalized here; a zero-length
// axis carries no direction and leaves the matrix unchanged.
func (s *Stack) Rotate(degrees float32, axis mgl32.Vec3) {
	length := axis.Len()
	if length == 0 || math.IsNaN(float64(length)) {
		return
	}

	s.current = s.current.Mul4(rotation(degrees, axis.Mul(1/length)))
}

// RotateZ rotates in the XY plane about +Z
func (s *Stack) RotateZ(degrees float32) {
	s.current = s.current.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees)))
}

// RotateAbout rotates about an axis passing through pivot instead of the origin
func (s *Stack) RotateAbout(pivot mgl32.Vec3, degrees float32, axis mgl32.Vec3) {
	s.Translate(pivot)
	s.Rotate(degrees, axis)
	s.Translate(pivot.Mul(-1))
}

// ScreenToClip maps pixel coordinates (origin top-left, y down) of a
// width x height viewport to clip space.
func (s *Stack) ScreenToClip(width, height float32) {
	s.Translate(mgl32.Vec3{-1, 1, 0})
	s.Scale(mgl32.Vec3{2 / width, -2 / height, 1})
}

// SetPerspective replaces the current matrix with a square-aspect perspective
// projection. The depth terms assume ReversedDepth.
func (s *Stack) SetPerspective(fovDegrees, near, far float32) {
	s.SetPerspectiveAspect(fovDegrees, 1, near, far)
}

// SetPerspectiveAspect replaces the current matrix with a perspective
// projection for a viewport of the given width/height ratio.
func (s *Stack) SetPerspectiveAspect(fovDegrees, aspect, near, far float32) {
	halfFov := float64(fovDegrees) * math.Pi / 360.0
	focal := float32(1 / math.Tan(halfFov))

	s.current = mgl32.Mat4{
		focal / aspect, 0, 0, 0,
		0, focal, 0, 0,
		0, 0, (far + near) / (far - near), -1,
		0, 0, (2 * far * near) / (far - near), 0,
	}
}

// rotation builds the Rodrigues matrix for a unit axis
func rotation(degrees float32, axis mgl32.Vec3) mgl32.Mat4 {
	rad := float64(degrees) * math.Pi / 180.0
	c := float32(math.Cos(rad))
	sn := float32(math.Sin(rad))
	t := 1 - c
	x, y, z := axis.X(), axis.Y(), axis.Z()

	// column-major
	return mgl32.Mat4{
		t*x*x + c, t*x*y + sn*z, t*x*z - sn*y, 0,
		t*x*y - sn*z, t*y*y + c, t*y*z + sn*x, 0,
		t*x*z + sn*y, t*y*z - sn*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}
