package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func almostEqual(a, b, tolerance float32) bool {
	return float32(math.Abs(float64(a-b))) <= tolerance
}

func mat4AlmostEqual(a, b mgl32.Mat4, tolerance float32) bool {
	for i := range a {
		if !almostEqual(a[i], b[i], tolerance) {
			return false
		}
	}
	return true
}

func vec3AlmostEqual(a, b mgl32.Vec3, tolerance float32) bool {
	return almostEqual(a[0], b[0], tolerance) &&
		almostEqual(a[1], b[1], tolerance) &&
		almostEqual(a[2], b[2], tolerance)
}

func transformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// a non trivial starting matrix, so composition bugs do not hide behind identity
func sampleMatrix() mgl32.Mat4 {
	s := NewStack()
	s.Translate(mgl32.Vec3{3, -2, 5})
	s.Rotate(30, mgl32.Vec3{1, 1, 0})
	s.Scale(mgl32.Vec3{2, 0.5, 3})
	return s.Top()
}

// =============================================================================
// Push / Pop Tests
// =============================================================================

func TestNewStack_Identity(t *testing.T) {
	s := NewStack()

	if s.Top() != mgl32.Ident4() {
		t.Errorf("Top() = %v, want identity", s.Top())
	}
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestNewStackFrom(t *testing.T) {
	initial := sampleMatrix()
	s := NewStackFrom(initial)

	if s.Top() != initial {
		t.Errorf("Top() = %v, want %v", s.Top(), initial)
	}
}

func TestStack_PushPopRestoresExactly(t *testing.T) {
	s := NewStackFrom(sampleMatrix())
	before := s.Top()

	s.Push()
	s.Scale(mgl32.Vec3{7, 7, 7})
	s.Rotate(17, mgl32.Vec3{0, 1, 1})
	s.Translate(mgl32.Vec3{1, 2, 3})

	if err := s.Pop(); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if s.Top() != before {
		t.Errorf("Top() after Pop = %v, want bit-exact %v", s.Top(), before)
	}
}

func TestStack_NestedPushPop(t *testing.T) {
	s := NewStack()

	s.Push()
	s.Translate(mgl32.Vec3{1, 0, 0})
	outer := s.Top()

	s.Push()
	s.Translate(mgl32.Vec3{0, 1, 0})
	if s.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", s.Depth())
	}

	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}
	if s.Top() != outer {
		t.Errorf("inner Pop restored %v, want %v", s.Top(), outer)
	}

	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}
	if s.Top() != mgl32.Ident4() {
		t.Errorf("outer Pop restored %v, want identity", s.Top())
	}
}

func TestStack_PopEmpty(t *testing.T) {
	s := NewStackFrom(sampleMatrix())
	before := s.Top()

	err := s.Pop()
	if !errors.Is(err, ErrStackUnderflow) {
		t.Fatalf("Pop() error = %v, want ErrStackUnderflow", err)
	}
	if s.Top() != before {
		t.Error("failed Pop should leave the current matrix untouched")
	}
}

func TestStack_TopIdempotent(t *testing.T) {
	s := NewStackFrom(sampleMatrix())

	first := s.Top()
	for i := 0; i < 3; i++ {
		if s.Top() != first {
			t.Fatalf("Top() call %d = %v, want %v", i, s.Top(), first)
		}
	}
}

// =============================================================================
// Scoped Push Tests
// =============================================================================

func TestStack_WithPushed(t *testing.T) {
	s := NewStackFrom(sampleMatrix())
	before := s.Top()

	var inside mgl32.Mat4
	err := s.WithPushed(func() error {
		s.UniformScale(4)
		inside = s.Top()
		return nil
	})

	if err != nil {
		t.Fatalf("WithPushed() error = %v", err)
	}
	if inside == before {
		t.Error("scale inside the scope had no effect")
	}
	if s.Top() != before || s.Depth() != 0 {
		t.Errorf("scope not restored: depth %d, top %v", s.Depth(), s.Top())
	}
}

func TestStack_WithPushedError(t *testing.T) {
	s := NewStack()
	sentinel := errors.New("draw failed")

	err := s.WithPushed(func() error {
		s.Translate(mgl32.Vec3{1, 2, 3})
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("WithPushed() error = %v, want %v", err, sentinel)
	}
	if s.Top() != mgl32.Ident4() || s.Depth() != 0 {
		t.Error("scope must be popped on the error path")
	}
}

func TestStack_WithPushedPanic(t *testing.T) {
	s := NewStack()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate")
			}
		}()
		_ = s.WithPushed(func() error {
			s.Translate(mgl32.Vec3{1, 0, 0})
			panic("boom")
		})
	}()

	if s.Top() != mgl32.Ident4() || s.Depth() != 0 {
		t.Error("scope must be popped when fn panics")
	}
}

func TestStack_WithPushedUnbalancedInside(t *testing.T) {
	s := NewStack()

	// unpopped inner push is unwound with the scope
	err := s.WithPushed(func() error {
		s.Push()
		s.Translate(mgl32.Vec3{1, 0, 0})
		return nil
	})
	if err != nil {
		t.Errorf("WithPushed() error = %v", err)
	}
	if s.Depth() != 0 || s.Top() != mgl32.Ident4() {
		t.Errorf("inner push not unwound: depth %d", s.Depth())
	}

	// popping the scope's own entry is reported
	err = s.WithPushed(func() error {
		return s.Pop()
	})
	if !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("WithPushed() error = %v, want ErrStackUnderflow", err)
	}
}

func TestStack_Scope(t *testing.T) {
	s := NewStack()

	func() {
		defer s.Scope()()
		s.Scale(mgl32.Vec3{2, 2, 2})
		if s.Depth() != 1 {
			t.Errorf("Depth() inside scope = %d, want 1", s.Depth())
		}
	}()

	if s.Top() != mgl32.Ident4() || s.Depth() != 0 {
		t.Error("Scope did not restore the stack")
	}
}

func TestStack_ScopePanicsOnUnderflow(t *testing.T) {
	s := NewStack()
	pop := s.Scope()
	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("recover() = %v, want ErrStackUnderflow", r)
		}
	}()
	pop()
}

// =============================================================================
// Composition Tests
// =============================================================================

func TestStack_ScaleRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		factor mgl32.Vec3
	}{
		{"uniform", mgl32.Vec3{8, 8, 8}},
		{"non uniform", mgl32.Vec3{50, 1, 50}},
		{"negative", mgl32.Vec3{-2, 0.25, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStackFrom(sampleMatrix())
			before := s.Top()

			s.Scale(tt.factor)
			s.Scale(mgl32.Vec3{1 / tt.factor.X(), 1 / tt.factor.Y(), 1 / tt.factor.Z()})

			if !mat4AlmostEqual(s.Top(), before, 1e-4) {
				t.Errorf("Top() = %v, want %v", s.Top(), before)
			}
		})
	}
}

func TestStack_ScaleComposes(t *testing.T) {
	s := NewStack()
	s.Translate(mgl32.Vec3{0, 1, 0})
	s.UniformScale(8)

	// local point is scaled first, then moved by the parent translation
	got := transformPoint(s.Top(), mgl32.Vec3{1, 1, 1})
	want := mgl32.Vec3{8, 9, 8}
	if !vec3AlmostEqual(got, want, 1e-5) {
		t.Errorf("transformed point = %v, want %v", got, want)
	}
}

func TestStack_TranslateRoundTrip(t *testing.T) {
	s := NewStackFrom(sampleMatrix())
	before := s.Top()
	offset := mgl32.Vec3{5, 10, 4}

	s.Translate(offset)
	s.Translate(offset.Mul(-1))

	if !mat4AlmostEqual(s.Top(), before, 1e-4) {
		t.Errorf("Top() = %v, want %v", s.Top(), before)
	}
}

func TestStack_TranslateLastColumn(t *testing.T) {
	s := NewStack()
	s.Translate(mgl32.Vec3{5, 10, 4})

	top := s.Top()
	if top[12] != 5 || top[13] != 10 || top[14] != 4 || top[15] != 1 {
		t.Errorf("last column = %v, want [5 10 4 1]", top.Col(3))
	}
}

func TestStack_RotateRoundTrip(t *testing.T) {
	axes := []mgl32.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, -1},
		{1, 2, 3},
	}

	for _, axis := range axes {
		s := NewStackFrom(sampleMatrix())
		before := s.Top()

		s.Rotate(37, axis)
		s.Rotate(-37, axis)
		if !mat4AlmostEqual(s.Top(), before, 1e-4) {
			t.Errorf("axis %v: rotate/unrotate = %v, want %v", axis, s.Top(), before)
		}

		s.Rotate(360, axis)
		if !mat4AlmostEqual(s.Top(), before, 1e-4) {
			t.Errorf("axis %v: rotate 360 = %v, want %v", axis, s.Top(), before)
		}
	}
}

func TestStack_RotateCounterClockwise(t *testing.T) {
	tests := []struct {
		name  string
		axis  mgl32.Vec3
		point mgl32.Vec3
		want  mgl32.Vec3
	}{
		{"about +Z", mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"about +X", mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{"about +Y", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{"unnormalized axis", mgl32.Vec3{0, 0, 10}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"about -Z", mgl32.Vec3{0, 0, -1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack()
			s.Rotate(90, tt.axis)

			got := transformPoint(s.Top(), tt.point)
			if !vec3AlmostEqual(got, tt.want, 1e-5) {
				t.Errorf("rotated point = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStack_RotateZeroAxis(t *testing.T) {
	s := NewStackFrom(sampleMatrix())
	before := s.Top()

	s.Rotate(45, mgl32.Vec3{0, 0, 0})

	if s.Top() != before {
		t.Errorf("zero axis rotation changed the matrix: %v", s.Top())
	}
}

func TestStack_RotateZMatchesRotate(t *testing.T) {
	for _, degrees := range []float32{0, 15, 90, -120, 270} {
		general := NewStackFrom(sampleMatrix())
		general.Rotate(degrees, mgl32.Vec3{0, 0, 1})

		fast := NewStackFrom(sampleMatrix())
		fast.RotateZ(degrees)

		if !mat4AlmostEqual(general.Top(), fast.Top(), 1e-5) {
			t.Errorf("%v°: RotateZ = %v, Rotate = %v", degrees, fast.Top(), general.Top())
		}
	}
}

func TestStack_RotateAbout(t *testing.T) {
	s := NewStack()
	pivot := mgl32.Vec3{10, 10, 0}
	s.RotateAbout(pivot, 180, mgl32.Vec3{0, 0, 1})

	if got := transformPoint(s.Top(), pivot); !vec3AlmostEqual(got, pivot, 1e-4) {
		t.Errorf("pivot moved to %v", got)
	}
	got := transformPoint(s.Top(), mgl32.Vec3{12, 10, 0})
	if !vec3AlmostEqual(got, mgl32.Vec3{8, 10, 0}, 1e-4) {
		t.Errorf("rotated point = %v, want [8 10 0]", got)
	}
}

func TestStack_ScreenToClip(t *testing.T) {
	s := NewStack()
	s.ScreenToClip(600, 400)

	tests := []struct {
		pixel mgl32.Vec3
		want  mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{-1, 1, 0}},
		{mgl32.Vec3{600, 400, 0}, mgl32.Vec3{1, -1, 0}},
		{mgl32.Vec3{300, 200, 0}, mgl32.Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		got := transformPoint(s.Top(), tt.pixel)
		if !vec3AlmostEqual(got, tt.want, 1e-5) {
			t.Errorf("pixel %v -> %v, want %v", tt.pixel, got, tt.want)
		}
	}
}

func TestStack_Apply(t *testing.T) {
	direct := NewStack()
	direct.Translate(mgl32.Vec3{0, 1, 0})
	direct.RotateZ(30)
	direct.Rotate(45, mgl32.Vec3{1, 0, 0})
	direct.Scale(mgl32.Vec3{2, 3, 4})

	viaOps := NewStack()
	viaOps.Apply(
		TranslateOp{Offset: mgl32.Vec3{0, 1, 0}},
		RotateZOp{Degrees: 30},
		RotateOp{Degrees: 45, Axis: mgl32.Vec3{1, 0, 0}},
		ScaleOp{Factors: mgl32.Vec3{2, 3, 4}},
	)

	if direct.Top() != viaOps.Top() {
		t.Errorf("Apply() = %v, want %v", viaOps.Top(), direct.Top())
	}
}

func TestSprint(t *testing.T) {
	s := NewStack()
	s.Translate(mgl32.Vec3{1, 2, 3})

	want := "1.000, 0.000, 0.000, 1.000,\n" +
		"0.000, 1.000, 0.000, 2.000,\n" +
		"0.000, 0.000, 1.000, 3.000,\n" +
		"0.000, 0.000, 0.000, 1.000"
	if got := Sprint(s.Top()); got != want {
		t.Errorf("Sprint() =\n%s\nwant\n%s", got, want)
	}
}
