package scene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/taigrr/meadow/pkg/camera"
	"github.com/taigrr/meadow/pkg/log"
	"github.com/taigrr/meadow/pkg/math3d"
)

var logger = log.New("scene")

// BuiltinQuad names the procedural quad mesh in MeshConfig.Builtin.
const BuiltinQuad = "quad"

// MeshConfig declares a named mesh, either a file or a builtin shape.
type MeshConfig struct {
	Name    string `toml:"name"`
	Path    string `toml:"path,omitempty"`
	Builtin string `toml:"builtin,omitempty"`
}

// TextureConfig declares a named texture.
type TextureConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	Wrap string `toml:"wrap,omitempty"`
}

// SpinConfig is the file form of Rotation.
type SpinConfig struct {
	Axis  [3]float64 `toml:"axis"`
	Speed float64    `toml:"speed"`
}

// PulseConfig is the file form of ColorAnimation.
type PulseConfig struct {
	Speed float64 `toml:"speed"`
}

// ObjectConfig declares one entity, or a group of scattered entities when
// Scatter is set. Scattered placements are offset by Position; Rotation and
// Scale apply only to single objects.
type ObjectConfig struct {
	Name        string      `toml:"name,omitempty"`
	Mesh        string      `toml:"mesh"`
	Texture     string      `toml:"texture,omitempty"`
	AlphaCutout bool        `toml:"alpha_cutout,omitempty"`
	Ground      bool        `toml:"ground,omitempty"`
	Position    [3]float64  `toml:"position"`
	Rotation    [3]float64  `toml:"rotation"` // Euler degrees, applied Y then X then Z
	Scale       float64     `toml:"scale,omitempty"`
	ColorA      *[3]float64 `toml:"color_a,omitempty"`
	ColorB      *[3]float64 `toml:"color_b,omitempty"`

	Spin    *SpinConfig    `toml:"spin,omitempty"`
	Pulse   *PulseConfig   `toml:"pulse,omitempty"`
	Scatter *ScatterConfig `toml:"scatter,omitempty"`
}

// Config is the declarative description of a scene. Objects are drawn in
// order; a scatter object expands in place.
type Config struct {
	Seed     int64           `toml:"seed,omitempty"` // 0 seeds from the clock
	Camera   camera.Config   `toml:"camera"`
	Meshes   []MeshConfig    `toml:"mesh"`
	Textures []TextureConfig `toml:"texture"`
	Objects  []ObjectConfig  `toml:"object"`
}

// Scene is the ordered list of entities plus the camera that views them.
type Scene struct {
	Camera   *camera.Orbit
	entities []*Entity
}

// New assembles a scene from already-built parts.
func New(cam *camera.Orbit, entities []*Entity) *Scene {
	return &Scene{Camera: cam, entities: entities}
}

// Entities returns the entities in draw order.
func (s *Scene) Entities() []*Entity { return s.entities }

// Len returns the number of entities.
func (s *Scene) Len() int { return len(s.entities) }

// Draw draws every entity in order with p, which must be in use.
func (s *Scene) Draw(p Program, t float64, view, proj math3d.Mat4) {
	for _, e := range s.entities {
		e.Draw(p, t, view, proj)
	}
}

// Build validates cfg, loads every declared asset through loader and creates
// the entities. Scatter randomness comes from rng; a nil rng is seeded from
// cfg.Seed. Configuration problems return *ConfigurationError before any
// asset is loaded. Asset failures return the loader's *AssetLoadError. On
// any error no scene is returned.
func Build(cfg Config, loader AssetLoader, rng *rand.Rand) (*Scene, error) {
	cam, err := camera.New(cfg.Camera)
	if err != nil {
		return nil, &ConfigurationError{Field: "camera", Err: err}
	}

	wraps, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		logger.Debugf("scatter seed %d", seed)
		rng = rand.New(rand.NewSource(seed))
	}

	meshes := make(map[string]Geometry, len(cfg.Meshes))
	for _, mc := range cfg.Meshes {
		var g Geometry
		if mc.Builtin == BuiltinQuad {
			g, err = loader.QuadGeometry()
		} else {
			g, err = loader.LoadGeometry(mc.Path)
		}
		if err != nil {
			return nil, assetErr("mesh", mc.Path, err)
		}
		logger.Debugf("loaded mesh %q", mc.Name)
		meshes[mc.Name] = g
	}

	textures := make(map[string]Texture, len(cfg.Textures))
	for i, tc := range cfg.Textures {
		t, err := loader.LoadTexture(tc.Path)
		if err != nil {
			return nil, assetErr("texture", tc.Path, err)
		}
		t.SetWrapMode(wraps[i])
		logger.Debugf("loaded texture %q (%s)", tc.Name, wraps[i])
		textures[tc.Name] = t
	}

	var entities []*Entity
	for i, oc := range cfg.Objects {
		base := EntityConfig{
			Geometry:    meshes[oc.Mesh],
			ColorA:      colorOrWhite(oc.ColorA),
			ColorB:      colorOrWhite(oc.ColorB),
			Ground:      oc.Ground,
			AlphaCutout: oc.AlphaCutout,
		}
		if oc.Texture != "" {
			base.Texture = textures[oc.Texture]
		}
		if oc.Spin != nil {
			base.Rotation = &Rotation{Axis: vec3(oc.Spin.Axis), Speed: oc.Spin.Speed}
		}
		if oc.Pulse != nil {
			base.ColorAnimation = &ColorAnimation{Speed: oc.Pulse.Speed}
		}

		var models []math3d.Mat4
		if oc.Scatter != nil {
			placements, err := Scatter(*oc.Scatter, rng)
			if err != nil {
				return nil, err
			}
			offset := math3d.Translate(vec3(oc.Position))
			for _, p := range placements {
				models = append(models, offset.Mul(p.Model()))
			}
		} else {
			models = append(models, oc.model())
		}

		for _, m := range models {
			ec := base
			ec.Model = m
			e, err := NewEntity(ec)
			if err != nil {
				var ce *ConfigurationError
				if errors.As(err, &ce) {
					ce.Field = fmt.Sprintf("object[%d].%s", i, ce.Field)
				}
				return nil, err
			}
			entities = append(entities, e)
		}
	}

	logger.Infof("built scene: %d entities from %d objects", len(entities), len(cfg.Objects))
	return New(cam, entities), nil
}

// validate checks names and references and returns the parsed texture wrap
// modes in declaration order.
func (c Config) validate() ([]WrapMode, error) {
	meshNames := make(map[string]bool, len(c.Meshes))
	for i, m := range c.Meshes {
		field := fmt.Sprintf("mesh[%d]", i)
		switch {
		case m.Name == "":
			return nil, configErr(field, "name is required")
		case meshNames[m.Name]:
			return nil, configErr(field, "duplicate name %q", m.Name)
		case m.Builtin != "" && m.Builtin != BuiltinQuad:
			return nil, configErr(field, "unknown builtin %q", m.Builtin)
		case m.Builtin == "" && m.Path == "":
			return nil, configErr(field, "path or builtin is required")
		}
		meshNames[m.Name] = true
	}

	texNames := make(map[string]bool, len(c.Textures))
	wraps := make([]WrapMode, len(c.Textures))
	for i, t := range c.Textures {
		field := fmt.Sprintf("texture[%d]", i)
		switch {
		case t.Name == "":
			return nil, configErr(field, "name is required")
		case texNames[t.Name]:
			return nil, configErr(field, "duplicate name %q", t.Name)
		case t.Path == "":
			return nil, configErr(field, "path is required")
		}
		mode, ok := ParseWrapMode(t.Wrap)
		if !ok {
			return nil, configErr(field+".wrap", "unknown mode %q", t.Wrap)
		}
		wraps[i] = mode
		texNames[t.Name] = true
	}

	for i, o := range c.Objects {
		field := fmt.Sprintf("object[%d]", i)
		if !meshNames[o.Mesh] {
			return nil, configErr(field+".mesh", "unknown mesh %q", o.Mesh)
		}
		if o.Texture != "" && !texNames[o.Texture] {
			return nil, configErr(field+".texture", "unknown texture %q", o.Texture)
		}
		if o.Scale < 0 || !finite(o.Scale) {
			return nil, configErr(field+".scale", "must be finite and not negative, got %v", o.Scale)
		}
		if err := o.validateFinite(field); err != nil {
			return nil, err
		}
		if o.Scatter != nil {
			if err := o.Scatter.Validate(); err != nil {
				var ce *ConfigurationError
				if errors.As(err, &ce) {
					ce.Field = field + "." + ce.Field
				}
				return nil, err
			}
		}
	}

	return wraps, nil
}

// validateFinite rejects NaN and infinite transforms, colors and speeds.
func (o ObjectConfig) validateFinite(field string) error {
	vectors := map[string]*[3]float64{
		"position": &o.Position,
		"rotation": &o.Rotation,
		"color_a":  o.ColorA,
		"color_b":  o.ColorB,
	}
	if o.Spin != nil {
		vectors["spin.axis"] = &o.Spin.Axis
	}
	for _, name := range []string{"position", "rotation", "color_a", "color_b", "spin.axis"} {
		if v := vectors[name]; v != nil && !finite(v[0], v[1], v[2]) {
			return configErr(field+"."+name, "must be finite, got %v", *v)
		}
	}
	if o.Spin != nil && !finite(o.Spin.Speed) {
		return configErr(field+".spin.speed", "must be finite, got %v", o.Spin.Speed)
	}
	if o.Pulse != nil && !finite(o.Pulse.Speed) {
		return configErr(field+".pulse.speed", "must be finite, got %v", o.Pulse.Speed)
	}
	return nil
}

// model returns T(position) · Ry · Rx · Rz · S(scale).
func (o ObjectConfig) model() math3d.Mat4 {
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	rx, ry, rz := deg(o.Rotation[0]), deg(o.Rotation[1]), deg(o.Rotation[2])
	return math3d.Translate(vec3(o.Position)).
		Mul(math3d.RotateY(ry)).
		Mul(math3d.RotateX(rx)).
		Mul(math3d.RotateZ(rz)).
		Mul(math3d.ScaleUniform(scale))
}

// assetErr passes loader errors through and wraps anything else.
func assetErr(kind, path string, err error) error {
	var ae *AssetLoadError
	if errors.As(err, &ae) {
		return err
	}
	return &AssetLoadError{Kind: kind, Path: path, Err: err}
}

func colorOrWhite(c *[3]float64) math3d.Vec3 {
	if c == nil {
		return math3d.V3(1, 1, 1)
	}
	return vec3(*c)
}

func vec3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func deg(d float64) float64 {
	return d * math.Pi / 180
}
