package render

import "github.com/taigrr/meadow/pkg/math3d"

// drawWireframe outlines a screen-space triangle in the color its first
// vertex would shade to. Lines ignore the depth buffer, so hidden edges
// show through.
func (d *Device) drawWireframe(sv [3]screenVertex, p *Program, tex *Texture) {
	c, ok := p.shade(sv[0].Normal.Normalize(), sv[0].UV, tex)
	if !ok {
		c, _ = p.shade(math3d.Up(), math3d.Vec2{}, nil)
	}
	for i := range 3 {
		a, b := sv[i], sv[(i+1)%3]
		d.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}
