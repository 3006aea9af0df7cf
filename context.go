package orbit

import (
	"errors"
	"fmt"

	"github.com/akmonengine/orbit/camera"
	"github.com/akmonengine/orbit/transform"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

var (
	ErrInvalidViewport = errors.New("orbit: invalid viewport")
	ErrNoProjection    = errors.New("orbit: no projection, Resize was never called")
)

// PointLight is a light emitting equally in every direction
type PointLight struct {
	Position  mgl32.Vec3
	Intensity mgl32.Vec3
}

// DrawCall carries everything the shader glue needs to draw one node
type DrawCall struct {
	Name   string     // slash separated path from the root node
	Mesh   string     // geometry to draw, empty for groups
	Model  mgl32.Mat4 // model to world
	Clip   mgl32.Mat4 // projection * view * model
	Normal mgl32.Mat3 // transpose(inverse(mat3(view * model)))
	Color  mgl32.Vec3
}

// Context owns the render state of a scene: camera, projection, lighting and
// the sink uniforms are uploaded to. It is built once and passed to the draw
// code explicitly.
type Context struct {
	Camera     *camera.Spherical
	Projection transform.Projection
	Light      PointLight
	Ambient    mgl32.Vec3
	Uniforms   UniformSink
	Workers    int
	Logger     *zap.Logger

	// Root nodes of the scene
	Nodes []*Node

	projection    mgl32.Mat4
	hasProjection bool
}

// NewContext creates a context with the lighting of the lit cube scene.
// A nil sink discards uploads.
func NewContext(cam *camera.Spherical, sink UniformSink) *Context {
	if sink == nil {
		sink = discardSink{}
	}

	return &Context{
		Camera:     cam,
		Projection: transform.DefaultProjection(),
		Light: PointLight{
			Position:  mgl32.Vec3{5, 10, 4},
			Intensity: mgl32.Vec3{0.8, 0.8, 0.8},
		},
		Ambient:  mgl32.Vec3{0.2, 0.2, 0.2},
		Uniforms: sink,
		Workers:  DEFAULT_WORKERS,
		Logger:   zap.NewNop(),
	}
}

// AddNode adds a root node to the scene
func (c *Context) AddNode(node *Node) {
	c.Nodes = append(c.Nodes, node)
}

// RemoveNode removes a root node from the scene
func (c *Context) RemoveNode(node *Node) {
	k := -1
	for i, n := range c.Nodes {
		if n == node {
			k = i
			break
		}
	}

	if k != -1 {
		c.Nodes = append(c.Nodes[:k], c.Nodes[k+1:]...)
	}
}

// ProjectionMatrix returns the projection built by the last Resize
func (c *Context) ProjectionMatrix() (mgl32.Mat4, bool) {
	return c.projection, c.hasProjection
}

// Resize rebuilds the projection for a new viewport and uploads it
func (c *Context) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	if err := c.Projection.Validate(); err != nil {
		return err
	}

	lens := c.Projection.Lens
	stack := transform.NewStack()
	stack.SetPerspectiveAspect(lens.FOV, float32(width)/float32(height), lens.Near, lens.Far)

	c.projection = stack.Top()
	c.hasProjection = true
	c.Uniforms.SetMat4(UniformCameraToClip, c.projection)

	c.logger().Debug("Projection updated",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("fov", lens.FOV),
		zap.Float32("near", lens.Near),
		zap.Float32("far", lens.Far))

	return nil
}

// Frame uploads the per-frame uniforms and resolves one draw call per
// visible node.
func (c *Context) Frame() ([]DrawCall, error) {
	if !c.hasProjection {
		return nil, ErrNoProjection
	}

	view := c.Camera.ViewMatrix()
	c.Uniforms.SetMat4(UniformWorldToCamera, view)

	lightPosition := view.Mul4x1(c.Light.Position.Vec4(1)).Vec3()
	c.Uniforms.SetVec3(UniformLightPosition, lightPosition)
	c.Uniforms.SetVec3(UniformLightIntensity, c.Light.Intensity)
	c.Uniforms.SetVec3(UniformAmbient, c.Ambient)

	var placements []placement
	stack := transform.NewStack()
	if err := walk(stack, c.Nodes, "", func(p placement) {
		placements = append(placements, p)
	}); err != nil {
		return nil, err
	}

	viewProjection := c.projection.Mul4(view)
	calls := make([]DrawCall, len(placements))
	task(c.Workers, placements, func(i int, p placement) {
		calls[i] = DrawCall{
			Name:   p.path,
			Mesh:   p.node.Mesh,
			Model:  p.model,
			Clip:   viewProjection.Mul4(p.model),
			Normal: NormalMatrix(view, p.model),
			Color:  p.node.Color,
		}
	})

	c.logger().Debug("Frame resolved",
		zap.Int("draws", len(calls)),
		zap.Stringer("eye", vec3Stringer(c.Camera.EyePosition())))

	return calls, nil
}

// Submit uploads the per-draw uniforms of a call
func (c *Context) Submit(call DrawCall) {
	c.Uniforms.SetMat4(UniformModelToWorld, call.Model)
	c.Uniforms.SetMat3(UniformNormalMatrix, call.Normal)
	c.Uniforms.SetVec3(UniformDiffuseColor, call.Color)
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// NormalMatrix returns the matrix taking model space normals to camera space
func NormalMatrix(view, model mgl32.Mat4) mgl32.Mat3 {
	return view.Mul4(model).Mat3().Inv().Transpose()
}

type vec3Stringer mgl32.Vec3

func (v vec3Stringer) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
