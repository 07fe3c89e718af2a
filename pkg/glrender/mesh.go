package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/meadow/pkg/models"
)

// Mesh is a non-indexed vertex buffer of position, normal and uv.
type Mesh struct {
	ctx   *Context
	vao   uint32
	vbo   uint32
	count int32
}

// NewMesh uploads m.
func (c *Context) NewMesh(m *models.Mesh) *Mesh {
	data := m.Interleave()
	mesh := &Mesh{ctx: c, count: int32(len(data) / models.FloatsPerVertex)}

	gl.GenVertexArrays(1, &mesh.vao)
	gl.GenBuffers(1, &mesh.vbo)
	gl.BindVertexArray(mesh.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	const stride = models.FloatsPerVertex * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	gl.BindVertexArray(0)
	c.own(mesh)
	return mesh
}

// Draw implements scene.Geometry.
func (m *Mesh) Draw() {
	if m.count == 0 {
		return
	}
	if p := m.ctx.program; p != nil && !p.cullBackFaces() {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	gl.BindVertexArray(0)
}

// Delete frees the buffers.
func (m *Mesh) Delete() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
