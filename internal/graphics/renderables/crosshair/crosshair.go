package crosshair

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"mini-voxel/internal/graphics"
	renderer "mini-voxel/internal/graphics/renderer"
	"mini-voxel/internal/profiling"
)

const (
	VertShader = "shaders/crosshair.vert"
	FragShader = "shaders/crosshair.frag"
)

// Vertices are two lines in normalized device coordinates.
var Vertices = []float32{
	-0.02, 0.0,
	0.02, 0.0,
	0.0, -0.02,
	0.0, 0.02,
}

// Crosshair draws a cross at the screen center.
type Crosshair struct {
	shader *graphics.Shader
	vao    uint32
	vbo    uint32
}

func NewCrosshair() *Crosshair {
	return &Crosshair{}
}

func (c *Crosshair) Init() error {
	var err error
	c.shader, err = graphics.NewShader(graphics.Shaders, VertShader, FragShader)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(Vertices)*4, gl.Ptr(Vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindVertexArray(0)
	return nil
}

func (c *Crosshair) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderCrosshair")()
	gl.Disable(gl.DEPTH_TEST)
	c.shader.Use()
	c.shader.SetFloat("aspectRatio", ctx.Camera.AspectRatio)
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(Vertices)/2))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (c *Crosshair) SetViewport(width, height int) {}

func (c *Crosshair) Dispose() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}
