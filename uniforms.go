package orbit

import "github.com/go-gl/mathgl/mgl32"

// Uniform names shared by the shader programs of the 3D scenes
const (
	UniformWorldToCamera  = "worldToCameraMatrix"
	UniformCameraToClip   = "cameraToClipMatrix"
	UniformModelToWorld   = "modelToWorldMatrix"
	UniformNormalMatrix   = "normalTransformMatrix"
	UniformLightPosition  = "lightPosition_cameraSpace"
	UniformLightIntensity = "lightIntensity"
	UniformAmbient        = "ambientIntensity"
	UniformDiffuseColor   = "diffuseColor"
)

// UniformSink receives matrices and vectors for the shader programs.
// Matrices are column-major, the layout a non-transposed upload expects.
type UniformSink interface {
	SetMat4(name string, m mgl32.Mat4)
	SetMat3(name string, m mgl32.Mat3)
	SetVec3(name string, v mgl32.Vec3)
}

// UniformBlock is an in-memory UniformSink keeping the last value set per name
type UniformBlock struct {
	values map[string][]float32
}

func NewUniformBlock() *UniformBlock {
	return &UniformBlock{values: make(map[string][]float32)}
}

func (u *UniformBlock) SetMat4(name string, m mgl32.Mat4) {
	u.set(name, m[:])
}

func (u *UniformBlock) SetMat3(name string, m mgl32.Mat3) {
	u.set(name, m[:])
}

func (u *UniformBlock) SetVec3(name string, v mgl32.Vec3) {
	u.set(name, v[:])
}

func (u *UniformBlock) set(name string, data []float32) {
	u.values[name] = append(u.values[name][:0], data...)
}

// Floats returns the raw floats uploaded under name
func (u *UniformBlock) Floats(name string) ([]float32, bool) {
	v, ok := u.values[name]
	return v, ok
}

// Mat4 returns the matrix uploaded under name
func (u *UniformBlock) Mat4(name string) (mgl32.Mat4, bool) {
	var m mgl32.Mat4
	v, ok := u.values[name]
	if !ok || len(v) != len(m) {
		return m, false
	}
	copy(m[:], v)
	return m, true
}

// Vec3 returns the vector uploaded under name
func (u *UniformBlock) Vec3(name string) (mgl32.Vec3, bool) {
	var vec mgl32.Vec3
	v, ok := u.values[name]
	if !ok || len(v) != len(vec) {
		return vec, false
	}
	copy(vec[:], v)
	return vec, true
}

// Names returns the uniforms set so far, in no particular order
func (u *UniformBlock) Names() []string {
	names := make([]string, 0, len(u.values))
	for name := range u.values {
		names = append(names, name)
	}
	return names
}

type discardSink struct{}

func (discardSink) SetMat4(string, mgl32.Mat4) {}
func (discardSink) SetMat3(string, mgl32.Mat3) {}
func (discardSink) SetVec3(string, mgl32.Vec3) {}
