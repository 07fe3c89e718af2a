package render

import (
	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/models"
)

// Mesh is geometry uploaded to a Device. It implements scene.Geometry.
type Mesh struct {
	dev *Device
	src *models.Mesh
}

// Source returns the mesh data.
func (m *Mesh) Source() *models.Mesh { return m.src }

// Draw runs the program in use over every triangle of the mesh: vertices
// are transformed by proj·view·model, clipped against the near plane and
// rasterized into the device targets.
func (m *Mesh) Draw() {
	d := m.dev
	p := d.program
	if p == nil || d.fb.Width == 0 || d.fb.Height == 0 {
		return
	}
	d.stats.DrawCalls++

	mvp := p.proj.Mul(p.view).Mul(p.model)
	var tex *Texture
	if p.useTexture {
		tex = d.texture(p.diffuseUnit)
	}

	// Vertex stage, once per shared vertex.
	verts := make([]clipVertex, len(m.src.Vertices))
	for i, v := range m.src.Vertices {
		verts[i] = clipVertex{
			pos:    mvp.MulVec4(math3d.V4FromV3(v.Position, 1)),
			normal: p.model.MulVec3Dir(v.Normal).Normalize(),
			uv:     v.UV,
		}
	}

	var poly []clipVertex
	width, height := d.fb.Width, d.fb.Height
	for _, f := range m.src.Faces {
		if !validFace(f, len(verts)) {
			continue
		}
		tri := [3]clipVertex{verts[f.V[0]], verts[f.V[1]], verts[f.V[2]]}
		poly = clipNear(poly, tri)
		for i := 1; i+1 < len(poly); i++ {
			d.rasterize([3]screenVertex{
				toScreen(poly[0], width, height),
				toScreen(poly[i], width, height),
				toScreen(poly[i+1], width, height),
			}, p, tex)
		}
	}
}

func validFace(f models.Face, n int) bool {
	for _, i := range f.V {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
