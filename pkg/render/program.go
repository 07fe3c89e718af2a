package render

import (
	"image/color"
	"math"

	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

// Lighting constants of the fragment stage.
const (
	ambient     = 0.35
	diffuse     = 0.65
	cutoutAlpha = 0.5
	groundLight = 1.0
)

// DefaultLightDir is the fixed key light, pointing toward the light.
func DefaultLightDir() math3d.Vec3 {
	return math3d.V3(0.5, 1, 0.3).Normalize()
}

// Program holds the uniform state of the meadow shader and runs its
// fragment stage. Setting a uniform the shader does not declare is a no-op.
type Program struct {
	dev *Device

	model, view, proj math3d.Mat4
	color1, color2    math3d.Vec3
	isGround          bool
	useTexture        bool
	alphaCutout       bool
	diffuseUnit       int

	light math3d.Vec3
}

// Use makes p the program subsequent draws run.
func (p *Program) Use() { p.dev.program = p }

// SetMat4 implements scene.Program.
func (p *Program) SetMat4(name string, m math3d.Mat4) {
	switch name {
	case scene.UniformModel:
		p.model = m
	case scene.UniformView:
		p.view = m
	case scene.UniformProj:
		p.proj = m
	}
}

// SetVec3 implements scene.Program.
func (p *Program) SetVec3(name string, v math3d.Vec3) {
	switch name {
	case scene.UniformColor1:
		p.color1 = v
	case scene.UniformColor2:
		p.color2 = v
	}
}

// SetInt implements scene.Program.
func (p *Program) SetInt(name string, v int) {
	switch name {
	case scene.UniformIsGround:
		p.isGround = v != 0
	case scene.UniformUseTexture:
		p.useTexture = v != 0
	case scene.UniformAlphaCutout:
		p.alphaCutout = v != 0
	case scene.UniformDiffuse:
		p.diffuseUnit = v
	}
}

// cullBackFaces reports whether back faces are skipped for the current
// draw. Ground and cutout quads are visible from both sides.
func (p *Program) cullBackFaces() bool {
	return !p.isGround && !p.alphaCutout
}

// shade runs the fragment stage for a world-space normal n and texture
// coordinate uv. It reports false when the fragment is discarded.
func (p *Program) shade(n math3d.Vec3, uv math3d.Vec2, tex *Texture) (color.RGBA, bool) {
	g := uv.Y
	if !p.isGround {
		g = 0.5 + 0.5*n.Y
	}
	base := p.color1.Lerp(p.color2, g)

	if p.useTexture && tex != nil {
		texel, alpha := tex.Sample(uv.X, uv.Y)
		if p.alphaCutout && alpha < cutoutAlpha {
			return color.RGBA{}, false
		}
		base = base.Mul(texel)
	}

	light := groundLight
	if !p.isGround {
		light = ambient + diffuse*math.Max(n.Dot(p.light), 0)
	}
	return ToRGBA(base.Scale(light)), true
}
