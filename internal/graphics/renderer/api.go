package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/graphics"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera    *graphics.Camera
	View      mgl32.Mat4
	Proj      mgl32.Mat4
	DT        float64
	Wireframe bool
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
