package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/akmonengine/orbit"
	"github.com/akmonengine/orbit/camera"
	"github.com/akmonengine/orbit/transform"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Lens struct {
	FOV  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

type Camera struct {
	Azimuth   float32    `toml:"azimuth"`
	Elevation float32    `toml:"elevation"`
	Radius    float32    `toml:"radius"`
	Target    [3]float32 `toml:"target"`
}

type Controls struct {
	AzimuthStep   float32 `toml:"azimuth_step"`
	ElevationStep float32 `toml:"elevation_step"`
	PanStep       float32 `toml:"pan_step"`
	MinElevation  float32 `toml:"min_elevation"`
	MaxElevation  float32 `toml:"max_elevation"`
}

type Light struct {
	Position  [3]float32 `toml:"position"`
	Intensity [3]float32 `toml:"intensity"`
	Ambient   [3]float32 `toml:"ambient"`
}

// Op is one local transform of a node. Kind selects which fields are read:
// "scale" and "translate" use Vec, "rotate" uses Degrees and Vec as the axis,
// "rotate-z" uses Degrees.
type Op struct {
	Kind    string     `toml:"kind"`
	Vec     [3]float32 `toml:"vec"`
	Degrees float32    `toml:"degrees"`
}

type Node struct {
	Name     string     `toml:"name"`
	Mesh     string     `toml:"mesh"`
	Color    [3]float32 `toml:"color"`
	Ops      []Op       `toml:"ops"`
	Children []Node     `toml:"children"`
}

// Config describes a scene and how it is viewed
type Config struct {
	Window   Window   `toml:"window"`
	Lens     Lens     `toml:"lens"`
	Camera   Camera   `toml:"camera"`
	Controls Controls `toml:"controls"`
	Light    Light    `toml:"light"`
	Workers  int      `toml:"workers"`
	Nodes    []Node   `toml:"nodes"`
}

// Default is the lit cube scene seen from the default camera
func Default() Config {
	return Config{
		Window:   Window{Width: 640, Height: 640},
		Lens:     Lens{FOV: 45, Near: 0.1, Far: 100},
		Camera:   Camera{Azimuth: 90, Elevation: 45, Radius: 50},
		Controls: Controls{AzimuthStep: 3, ElevationStep: 1, PanStep: 4, MinElevation: 1, MaxElevation: 80},
		Light: Light{
			Position:  [3]float32{5, 10, 4},
			Intensity: [3]float32{0.8, 0.8, 0.8},
			Ambient:   [3]float32{0.2, 0.2, 0.2},
		},
		Workers: 1,
		Nodes: []Node{
			{
				Name:  "floor",
				Mesh:  "floor",
				Color: [3]float32{0.9, 0.8, 0.7},
				Ops:   []Op{{Kind: "scale", Vec: [3]float32{50, 1, 50}}},
			},
			{
				Name: "pedestal",
				Ops:  []Op{{Kind: "translate", Vec: [3]float32{0, 1, 0}}},
				Children: []Node{{
					Name:  "cube",
					Mesh:  "cube",
					Color: [3]float32{0.3, 0.3, 0.3},
					Ops:   []Op{{Kind: "scale", Vec: [3]float32{8, 8, 8}}},
				}},
			},
			{
				Name:  "light",
				Mesh:  "cube",
				Color: [3]float32{0.8, 0.8, 0.8},
				Ops:   []Op{{Kind: "translate", Vec: [3]float32{5, 10, 4}}},
			},
		},
	}
}

// Load reads a TOML file. Keys missing from the file keep their default value,
// except Nodes which replace the default scene when present.
func Load(path string) (Config, error) {
	conf := Default()
	conf.Nodes = nil

	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return Config{}, fmt.Errorf("couldn't read config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	if !meta.IsDefined("nodes") {
		conf.Nodes = Default().Nodes
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// Write encodes conf as TOML to path
func Write(path string, conf Config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("couldn't encode config: %w", err)
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("couldn't write config file %s: %w", path, err)
	}

	return nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if err := c.Projection().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Camera.Radius <= 0 {
		return fmt.Errorf("%w: camera radius %v must be positive", ErrInvalidConfig, c.Camera.Radius)
	}
	ctl := c.Controls
	if ctl.MinElevation <= 0 || ctl.MaxElevation >= 180 || ctl.MinElevation > ctl.MaxElevation {
		return fmt.Errorf("%w: elevation limits [%v, %v] must lie strictly between the poles",
			ErrInvalidConfig, ctl.MinElevation, ctl.MaxElevation)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	for _, node := range c.Nodes {
		if err := node.validate(""); err != nil {
			return err
		}
	}

	return nil
}

func (n Node) validate(parent string) error {
	path := parent + "/" + n.Name
	if n.Name == "" {
		return fmt.Errorf("%w: unnamed node under %q", ErrInvalidConfig, parent)
	}
	for _, op := range n.Ops {
		if _, err := op.toOp(); err != nil {
			return fmt.Errorf("node %q: %w", path, err)
		}
	}
	for _, child := range n.Children {
		if err := child.validate(path); err != nil {
			return err
		}
	}

	return nil
}

func (op Op) toOp() (transform.Op, error) {
	v := mgl32.Vec3(op.Vec)
	switch op.Kind {
	case "scale":
		return transform.ScaleOp{Factors: v}, nil
	case "translate":
		return transform.TranslateOp{Offset: v}, nil
	case "rotate":
		return transform.RotateOp{Degrees: op.Degrees, Axis: v}, nil
	case "rotate-z":
		return transform.RotateZOp{Degrees: op.Degrees}, nil
	}

	return nil, fmt.Errorf("%w: unknown op kind %q", ErrInvalidConfig, op.Kind)
}

// Projection returns the lens paired with the reversed depth convention
func (c Config) Projection() transform.Projection {
	return transform.Projection{
		Lens:  transform.Lens{FOV: c.Lens.FOV, Near: c.Lens.Near, Far: c.Lens.Far},
		Depth: transform.ReversedDepth,
	}
}

func (c Config) Spherical() camera.Spherical {
	return camera.Spherical{
		RelativePosition: mgl32.Vec3{c.Camera.Azimuth, c.Camera.Elevation, c.Camera.Radius},
		Target:           mgl32.Vec3(c.Camera.Target),
	}
}

// Controller returns a controller driving cam with the configured steps
func (c Config) Controller(cam *camera.Spherical) *camera.Controller {
	return &camera.Controller{
		Camera: cam,
		Steps: camera.Steps{
			Azimuth:   c.Controls.AzimuthStep,
			Elevation: c.Controls.ElevationStep,
			Pan:       c.Controls.PanStep,
		},
		Limits: camera.Limits{
			MinElevation: c.Controls.MinElevation,
			MaxElevation: c.Controls.MaxElevation,
		},
	}
}

// Scene converts the configured nodes. The config must be valid.
func (c Config) Scene() []*orbit.Node {
	nodes := make([]*orbit.Node, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		nodes = append(nodes, n.node())
	}
	return nodes
}

func (n Node) node() *orbit.Node {
	node := &orbit.Node{
		Name:  n.Name,
		Mesh:  n.Mesh,
		Color: mgl32.Vec3(n.Color),
	}
	for _, op := range n.Ops {
		if o, err := op.toOp(); err == nil {
			node.Ops = append(node.Ops, o)
		}
	}
	for _, child := range n.Children {
		node.AddChild(child.node())
	}

	return node
}

// NewContext builds a render context for the configured scene.
// The camera is owned by the returned context.
func (c Config) NewContext(sink orbit.UniformSink) *orbit.Context {
	cam := c.Spherical()
	ctx := orbit.NewContext(&cam, sink)
	ctx.Projection = c.Projection()
	ctx.Light = orbit.PointLight{
		Position:  mgl32.Vec3(c.Light.Position),
		Intensity: mgl32.Vec3(c.Light.Intensity),
	}
	ctx.Ambient = mgl32.Vec3(c.Light.Ambient)
	ctx.Workers = max(orbit.DEFAULT_WORKERS, c.Workers)
	ctx.Nodes = c.Scene()

	return ctx
}
