package main

import (
	"fmt"

	"github.com/akmonengine/orbit"
	"github.com/akmonengine/orbit/camera"
	"github.com/akmonengine/orbit/transform"
)

// SetupScene creates the lit cube scene viewed from the default camera
func SetupScene() (*orbit.Context, *camera.Controller, *orbit.UniformBlock) {
	cam := camera.Default()
	uniforms := orbit.NewUniformBlock()

	ctx := orbit.NewContext(&cam, uniforms)
	for _, node := range orbit.LitCubeScene(ctx.Light) {
		ctx.AddNode(node)
	}

	return ctx, camera.NewController(&cam), uniforms
}

// OrbitCube orbits the camera once around the cube, tilting on the way,
// and prints where the eye and the light end up
func OrbitCube() {
	fmt.Println("Orbit around the lit cube")
	fmt.Println("=========================")

	ctx, controller, uniforms := SetupScene()
	if err := ctx.Resize(640, 640); err != nil {
		fmt.Println("resize failed:", err)
		return
	}

	projection, _ := ctx.ProjectionMatrix()
	fmt.Printf("Projection (fov %.0f°, near %.1f, far %.0f):\n%s\n\n",
		ctx.Projection.Lens.FOV, ctx.Projection.Lens.Near, ctx.Projection.Lens.Far, transform.Sprint(projection))

	const steps = 120 // 3° each
	for step := 0; step <= steps; step++ {
		calls, err := ctx.Frame()
		if err != nil {
			fmt.Println("frame failed:", err)
			return
		}

		if step%30 == 0 {
			light, _ := uniforms.Vec3(orbit.UniformLightPosition)
			fmt.Printf("--- STEP %d ---\n", step)
			fmt.Printf("  Camera: %v\n", ctx.Camera.RelativePosition)
			fmt.Printf("  Eye: %v\n", ctx.Camera.EyePosition())
			fmt.Printf("  Light (camera space): %v\n", light)
			for _, call := range calls {
				fmt.Printf("  %s: clip origin w=%.3f\n", call.Name, call.Clip.Col(3).W())
			}
			fmt.Println()
		}

		_ = controller.Apply(camera.OrbitRight)
		if step%10 == 0 {
			_ = controller.Apply(camera.TiltDown)
		}
	}

	fmt.Println("Done!")
}

func main() {
	OrbitCube()
}
