package orbit

import (
	"fmt"

	"github.com/akmonengine/orbit/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an object of the scene. Its Ops are applied relative to the parent
// transform, in order, and Children inherit the result. A node without a
// Mesh only groups its children.
type Node struct {
	Name     string
	Mesh     string
	Ops      []transform.Op
	Color    mgl32.Vec3
	Hidden   bool // skipped together with its children
	Children []*Node
}

// AddChild attaches a child node and returns it
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// placement is a node with its resolved model matrix
type placement struct {
	node  *Node
	path  string
	model mgl32.Mat4
}

// walk visits the nodes depth first, each inside its own pushed scope
func walk(stack *transform.Stack, nodes []*Node, parent string, visit func(placement)) error {
	for _, node := range nodes {
		if node == nil || node.Hidden {
			continue
		}

		path := node.Name
		if parent != "" {
			path = parent + "/" + node.Name
		}

		err := stack.WithPushed(func() error {
			stack.Apply(node.Ops...)
			if node.Mesh != "" {
				visit(placement{node: node, path: path, model: stack.Top()})
			}

			return walk(stack, node.Children, path, visit)
		})
		if err != nil {
			return fmt.Errorf("node %q: %w", path, err)
		}
	}

	return nil
}

// LitCubeScene builds the floor, the cube standing on it and the marker cube
// drawn at the light position
func LitCubeScene(light PointLight) []*Node {
	floor := &Node{
		Name:  "floor",
		Mesh:  "floor",
		Ops:   []transform.Op{transform.ScaleOp{Factors: mgl32.Vec3{50, 1, 50}}},
		Color: mgl32.Vec3{0.9, 0.8, 0.7},
	}

	pedestal := &Node{
		Name: "pedestal",
		Ops:  []transform.Op{transform.TranslateOp{Offset: mgl32.Vec3{0, 1, 0}}},
	}
	pedestal.AddChild(&Node{
		Name:  "cube",
		Mesh:  "cube",
		Ops:   []transform.Op{transform.ScaleOp{Factors: mgl32.Vec3{8, 8, 8}}},
		Color: mgl32.Vec3{0.3, 0.3, 0.3},
	})

	lamp := &Node{
		Name:  "light",
		Mesh:  "cube",
		Ops:   []transform.Op{transform.TranslateOp{Offset: light.Position}},
		Color: light.Intensity,
	}

	return []*Node{floor, pedestal, lamp}
}
