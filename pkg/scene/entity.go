// Package scene holds the drawable entities, their per-frame animation and
// the one-time scene build from configuration.
package scene

import (
	"errors"
	"math"

	"github.com/taigrr/meadow/pkg/math3d"
)

// Rotation spins an entity about an axis through its own origin.
type Rotation struct {
	Axis  math3d.Vec3
	Speed float64 // radians per second
}

// ColorAnimation pulses an entity between its two colors.
type ColorAnimation struct {
	Speed float64 // radians per second of the sine driving the blend
}

// EntityConfig is everything needed to construct an Entity. Nil optional
// fields disable the feature.
type EntityConfig struct {
	Geometry Geometry
	Model    math3d.Mat4
	ColorA   math3d.Vec3
	ColorB   math3d.Vec3

	Rotation       *Rotation
	ColorAnimation *ColorAnimation

	Ground      bool
	Texture     Texture
	AlphaCutout bool
}

// Entity is one drawable instance. It is immutable after construction; all
// per-frame values are derived from the base fields and the time.
type Entity struct {
	geometry Geometry
	model    math3d.Mat4
	colorA   math3d.Vec3
	colorB   math3d.Vec3

	rotate   bool
	axis     math3d.Vec3
	rotSpeed float64

	pulse      bool
	pulseSpeed float64

	ground      bool
	texture     Texture
	alphaCutout bool
}

// Frame is the draw-time state of an entity at one instant.
type Frame struct {
	Model       math3d.Mat4
	Color1      math3d.Vec3
	Color2      math3d.Vec3
	Ground      bool
	UseTexture  bool
	AlphaCutout bool
}

// NewEntity validates cfg and builds an entity. A zero or non-finite
// rotation axis falls back to +Y.
func NewEntity(cfg EntityConfig) (*Entity, error) {
	if cfg.Geometry == nil {
		return nil, &ConfigurationError{Field: "geometry", Err: errors.New("missing")}
	}
	if !cfg.Model.IsFinite() {
		return nil, &ConfigurationError{Field: "model", Err: errors.New("matrix is not finite")}
	}
	if !cfg.ColorA.IsFinite() || !cfg.ColorB.IsFinite() {
		return nil, &ConfigurationError{Field: "color", Err: errors.New("not finite")}
	}

	e := &Entity{
		geometry:    cfg.Geometry,
		model:       cfg.Model,
		colorA:      cfg.ColorA,
		colorB:      cfg.ColorB,
		ground:      cfg.Ground,
		texture:     cfg.Texture,
		alphaCutout: cfg.AlphaCutout,
	}

	if r := cfg.Rotation; r != nil {
		if math.IsNaN(r.Speed) || math.IsInf(r.Speed, 0) {
			return nil, configErr("rotation.speed", "must be finite, got %v", r.Speed)
		}
		e.rotate = true
		e.rotSpeed = r.Speed
		e.axis = r.Axis.Normalize()
		if !e.axis.IsFinite() || e.axis.LenSq() == 0 {
			e.axis = math3d.Up()
		}
	}
	if c := cfg.ColorAnimation; c != nil {
		if math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
			return nil, configErr("color_animation.speed", "must be finite, got %v", c.Speed)
		}
		e.pulse = true
		e.pulseSpeed = c.Speed
	}

	return e, nil
}

// ComputeFrame evaluates the entity at time t (seconds). The rotation is
// appended after the base model, so a translated entity spins in place
// instead of orbiting the world origin.
func (e *Entity) ComputeFrame(t float64) Frame {
	f := Frame{
		Model:  e.model,
		Color1: e.colorA,
		Color2: e.colorB,
		Ground: e.ground,
	}

	if e.rotate {
		f.Model = e.model.Mul(math3d.Rotate(e.axis, e.rotSpeed*t))
	}

	if e.pulse {
		blend := 0.5 + 0.5*math.Sin(e.pulseSpeed*t)
		f.Color1 = e.colorA.Lerp(e.colorB, blend)
		f.Color2 = e.colorB.Lerp(e.colorA, blend)
	}

	if e.texture != nil {
		f.UseTexture = true
		f.AlphaCutout = e.alphaCutout
	}

	return f
}

// Draw sets the entity's uniforms on p, binds its texture to DiffuseUnit
// and issues a single draw call. The program must already be in use.
func (e *Entity) Draw(p Program, t float64, view, proj math3d.Mat4) {
	f := e.ComputeFrame(t)

	p.SetMat4(UniformModel, f.Model)
	p.SetMat4(UniformView, view)
	p.SetMat4(UniformProj, proj)
	p.SetVec3(UniformColor1, f.Color1)
	p.SetVec3(UniformColor2, f.Color2)
	p.SetInt(UniformIsGround, boolInt(f.Ground))
	p.SetInt(UniformUseTexture, boolInt(f.UseTexture))
	p.SetInt(UniformAlphaCutout, boolInt(f.AlphaCutout))

	if e.texture != nil {
		e.texture.Bind(DiffuseUnit)
	}

	e.geometry.Draw()
}

// DetachTexture returns a copy of the entity with no texture. The copy
// draws untextured with alpha cutout off.
func (e *Entity) DetachTexture() *Entity {
	c := *e
	c.texture = nil
	return &c
}

// Geometry returns the shared geometry.
func (e *Entity) Geometry() Geometry { return e.geometry }

// Texture returns the shared texture, or nil.
func (e *Entity) Texture() Texture { return e.texture }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
