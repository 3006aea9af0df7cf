package transform

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Op is a single composition applied to a Stack.
// Scene nodes keep their local transform as an ordered list of ops.
type Op interface {
	Apply(s *Stack)
}

type ScaleOp struct {
	Factors mgl32.Vec3
}

func (op ScaleOp) Apply(s *Stack) {
	s.Scale(op.Factors)
}

type TranslateOp struct {
	Offset mgl32.Vec3
}

func (op TranslateOp) Apply(s *Stack) {
	s.Translate(op.Offset)
}

type RotateOp struct {
	Degrees float32
	Axis    mgl32.Vec3
}

func (op RotateOp) Apply(s *Stack) {
	s.Rotate(op.Degrees, op.Axis)
}

type RotateZOp struct {
	Degrees float32
}

func (op RotateZOp) Apply(s *Stack) {
	s.RotateZ(op.Degrees)
}

// Apply runs the ops in order on the stack
func (s *Stack) Apply(ops ...Op) {
	for _, op := range ops {
		op.Apply(s)
	}
}

// Sprint formats a matrix row by row, the way it reads on paper
func Sprint(m mgl32.Mat4) string {
	var b strings.Builder
	for row := 0; row < 4; row++ {
		fmt.Fprintf(&b, "%.3f, %.3f, %.3f, %.3f", m.At(row, 0), m.At(row, 1), m.At(row, 2), m.At(row, 3))
		if row < 3 {
			b.WriteString(",\n")
		}
	}

	return b.String()
}
