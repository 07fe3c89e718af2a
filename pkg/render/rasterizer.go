package render

import (
	"math"

	"github.com/taigrr/meadow/pkg/math3d"
)

// clipVertex is a vertex after the vertex stage: clip-space position plus
// the varyings the fragment stage needs.
type clipVertex struct {
	pos    math3d.Vec4
	normal math3d.Vec3 // world space
	uv     math3d.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float64) clipVertex {
	return clipVertex{
		pos:    a.pos.Lerp(b.pos, t),
		normal: a.normal.Lerp(b.normal, t),
		uv:     a.uv.Lerp(b.uv, t),
	}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y   float64 // pixels, y down
	Z      float64 // NDC depth
	InvW   float64 // 1/w for perspective-correct interpolation
	Normal math3d.Vec3
	UV     math3d.Vec2
}

// clipNear clips a triangle against the near plane z >= -w and returns the
// resulting polygon (0, 3 or 4 vertices) in dst.
func clipNear(dst []clipVertex, tri [3]clipVertex) []clipVertex {
	dst = dst[:0]
	for i := range 3 {
		a, b := tri[i], tri[(i+1)%3]
		da := a.pos.Z + a.pos.W
		db := b.pos.Z + b.pos.W

		if da >= 0 {
			dst = append(dst, a)
		}
		if (da >= 0) != (db >= 0) {
			dst = append(dst, a.lerp(b, da/(da-db)))
		}
	}
	return dst
}

// toScreen performs the perspective divide and viewport transform.
func toScreen(v clipVertex, width, height int) screenVertex {
	invW := 1 / v.pos.W
	return screenVertex{
		X:      (v.pos.X*invW + 1) * 0.5 * float64(width),
		Y:      (1 - v.pos.Y*invW) * 0.5 * float64(height),
		Z:      v.pos.Z * invW,
		InvW:   invW,
		Normal: v.normal,
		UV:     v.uv,
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C of the
// directed edge (x0,y0)->(x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// signedArea is twice the screen-space area of the triangle. Counter-
// clockwise triangles in NDC come out negative because screen y points down.
func signedArea(a, b, c screenVertex) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// rasterize fills one screen-space triangle with depth testing. The program
// in use shades each fragment; tex may be nil.
func (d *Device) rasterize(sv [3]screenVertex, p *Program, tex *Texture) {
	area := signedArea(sv[0], sv[1], sv[2])
	if area == 0 || math.IsNaN(area) {
		return
	}
	if p.cullBackFaces() && area > 0 {
		return
	}
	d.stats.Triangles++

	if d.Wireframe {
		d.drawWireframe(sv, p, tex)
		return
	}

	width, height := d.fb.Width, d.fb.Height
	minX := max(0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(width-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(height-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge i is opposite vertex i, so its value at a pixel divided by the
	// area is that vertex's barycentric weight.
	a0, b0, c0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	a1, b1, c1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	a2, b2, c2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1 / area

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		px := float64(minX) + 0.5
		w0 := a0*px + b0*py + c0
		w1 := a1*px + b1*py + c1
		w2 := a2*px + b2*py + c2

		for x := minX; x <= maxX; x++ {
			l0, l1, l2 := w0*invArea, w1*invArea, w2*invArea
			w0 += a0
			w1 += a1
			w2 += a2

			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			z := l0*sv[0].Z + l1*sv[1].Z + l2*sv[2].Z
			if z > 1 {
				continue
			}
			idx := y*width + x
			if z >= d.depth[idx] {
				continue
			}

			// Perspective-correct varyings.
			p0, p1, p2 := l0*sv[0].InvW, l1*sv[1].InvW, l2*sv[2].InvW
			sum := p0 + p1 + p2
			if sum == 0 {
				continue
			}
			p0, p1, p2 = p0/sum, p1/sum, p2/sum

			n := sv[0].Normal.Scale(p0).Add(sv[1].Normal.Scale(p1)).Add(sv[2].Normal.Scale(p2)).Normalize()
			uv := sv[0].UV.Scale(p0).Add(sv[1].UV.Scale(p1)).Add(sv[2].UV.Scale(p2))

			c, ok := p.shade(n, uv, tex)
			if !ok {
				continue
			}
			d.depth[idx] = z
			d.fb.Pixels[idx] = c
			d.stats.Fragments++
		}
	}
}
