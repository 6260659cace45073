package planes

import (
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/graphics"
	renderer "mini-voxel/internal/graphics/renderer"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
)

const (
	VertShader = "shaders/plane.vert"
	FragShader = "shaders/plane.frag"
)

// quadVertices is a unit quad facing +Z: position then normal per vertex,
// wound counter clockwise.
var quadVertices = []float32{
	-0.5, -0.5, 0, 0, 0, 1,
	0.5, -0.5, 0, 0, 0, 1,
	0.5, 0.5, 0, 0, 0, 1,
	0.5, 0.5, 0, 0, 0, 1,
	-0.5, 0.5, 0, 0, 0, 1,
	-0.5, -0.5, 0, 0, 0, 1,
}

// Planes draws every plane of a registry with one instanced call each.
type Planes struct {
	reg *registry.Registry
	log *slog.Logger

	shader  *graphics.Shader
	quadVBO uint32
	// vaos is keyed by plane; a plane's VAO is rebuilt when its buffer grows
	// into a new GL buffer.
	vaos map[registry.PlaneID]planeVAO

	lightDir mgl32.Vec3
}

type planeVAO struct {
	vao         uint32
	instanceVBO uint32
}

func NewPlanes(reg *registry.Registry, log *slog.Logger) *Planes {
	if log == nil {
		log = slog.Default()
	}
	return &Planes{
		reg:      reg,
		log:      log,
		vaos:     make(map[registry.PlaneID]planeVAO),
		lightDir: mgl32.Vec3{0.3, 1.0, 0.5}.Normalize(),
	}
}

func (p *Planes) Init() error {
	var err error
	p.shader, err = graphics.NewShader(graphics.Shaders, VertShader, FragShader)
	if err != nil {
		return err
	}
	gl.GenBuffers(1, &p.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (p *Planes) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderPlanes")()
	if ctx.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	p.shader.Use()
	p.shader.SetMat4("view", ctx.View)
	p.shader.SetMat4("proj", ctx.Proj)
	p.shader.SetVec3("lightDir", p.lightDir)

	for _, pl := range p.reg.Planes() {
		st, ok := pl.Buffer.Buffer().Storage().(*graphics.Storage)
		if !ok {
			continue
		}
		func() {
			defer profiling.Track("graphics.Flush")()
			st.Flush()
		}()
		if st.DrawCount() == 0 {
			continue
		}
		v := p.vaoFor(pl.ID, st.VBO())
		p.shader.SetVec3("color", mgl32.Vec3{
			float32(pl.Color.R) / 255,
			float32(pl.Color.G) / 255,
			float32(pl.Color.B) / 255,
		})
		gl.BindVertexArray(v.vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(len(quadVertices)/6), int32(st.DrawCount()))
	}
	gl.BindVertexArray(0)
}

// vaoFor returns the VAO binding the quad to a plane's instance buffer.
func (p *Planes) vaoFor(id registry.PlaneID, instanceVBO uint32) planeVAO {
	if v, ok := p.vaos[id]; ok {
		if v.instanceVBO == instanceVBO {
			return v
		}
		gl.DeleteVertexArrays(1, &v.vao)
		p.log.Debug("rebinding plane after growth", "plane", id)
	}

	v := planeVAO{instanceVBO: instanceVBO}
	gl.GenVertexArrays(1, &v.vao)
	gl.BindVertexArray(v.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, p.quadVBO)
	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)

	// A mat4 attribute takes four vec4 locations.
	gl.BindBuffer(gl.ARRAY_BUFFER, instanceVBO)
	for col := uint32(0); col < 4; col++ {
		loc := 2 + col
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, 16*4, uintptr(col*16))
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	p.vaos[id] = v
	return v
}

func (p *Planes) SetViewport(width, height int) {}

func (p *Planes) Dispose() {
	for id, v := range p.vaos {
		gl.DeleteVertexArrays(1, &v.vao)
		delete(p.vaos, id)
	}
	if p.quadVBO != 0 {
		gl.DeleteBuffers(1, &p.quadVBO)
	}
	if p.shader != nil {
		p.shader.Delete()
	}
}
