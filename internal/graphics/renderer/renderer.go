package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/graphics"
	"mini-voxel/internal/profiling"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
	clearColor  mgl32.Vec3
}

// NewRenderer configures GL state and initializes rs in order. On failure the
// renderables initialized so far are disposed.
func NewRenderer(camera *graphics.Camera, rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	// Face instances are wound counter clockwise seen from outside the block.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	r := &Renderer{camera: camera, clearColor: mgl32.Vec3{0.53, 0.81, 0.92}}
	for i, rb := range rs {
		if err := rb.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, fmt.Errorf("init renderable %T: %w", rb, err)
		}
		r.renderables = append(r.renderables, rb)
	}
	return r, nil
}

// Render clears the frame and draws every renderable from the camera.
func (r *Renderer) Render(dt float64, wireframe bool) {
	defer profiling.Track("renderer.Render")()
	gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := RenderContext{
		Camera:    r.camera,
		View:      r.camera.ViewMatrix(),
		Proj:      r.camera.ProjectionMatrix(),
		DT:        dt,
		Wireframe: wireframe,
	}
	for _, rb := range r.renderables {
		rb.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.renderables = nil
}

func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// SetViewport resizes the GL viewport and notifies the camera and renderables.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, rb := range r.renderables {
		rb.SetViewport(width, height)
	}
}
