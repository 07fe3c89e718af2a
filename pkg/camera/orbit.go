// Package camera implements an orbital camera that circles the world origin.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/meadow/pkg/math3d"
)

// Projection parameters shared by every orbit camera.
const (
	FOV  = math.Pi / 4 // 45 degrees, vertical
	Near = 0.1
	Far  = 100.0
)

// ErrInvalidAspect is returned by ProjectionMatrix for a non-positive or
// non-finite aspect ratio.
var ErrInvalidAspect = errors.New("aspect ratio must be positive")

// Config describes the starting position and bounds of an Orbit.
type Config struct {
	Radius float64 `toml:"radius"`
	Theta  float64 `toml:"theta"` // polar angle from +Y, radians
	Phi    float64 `toml:"phi"`   // azimuth around +Y from +X, radians

	MinRadius float64 `toml:"min_radius"`
	MaxRadius float64 `toml:"max_radius"`
	Epsilon   float64 `toml:"epsilon"` // theta stays in [Epsilon, π-Epsilon]
}

// DefaultConfig returns the camera used by the built-in scene.
func DefaultConfig() Config {
	return Config{
		Radius:    12,
		Theta:     0.5,
		Phi:       0.8,
		MinRadius: 3,
		MaxRadius: 50,
		Epsilon:   0.1,
	}
}

// Validate checks the bounds. Starting values outside the bounds are not an
// error; New clamps them.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"radius": c.Radius, "theta": c.Theta, "phi": c.Phi,
		"min_radius": c.MinRadius, "max_radius": c.MaxRadius, "epsilon": c.Epsilon,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if c.MinRadius <= 0 {
		return fmt.Errorf("min_radius %v must be positive", c.MinRadius)
	}
	if c.MinRadius >= c.MaxRadius {
		return fmt.Errorf("min_radius %v must be below max_radius %v", c.MinRadius, c.MaxRadius)
	}
	if c.Epsilon <= 0 || c.Epsilon >= math.Pi/2 {
		return fmt.Errorf("epsilon %v must be in (0, π/2)", c.Epsilon)
	}
	return nil
}

// Delta is a per-frame change of the orbit coordinates.
type Delta struct {
	Theta  float64
	Phi    float64
	Radius float64
}

// IsZero reports whether the delta moves nothing.
func (d Delta) IsZero() bool {
	return d.Theta == 0 && d.Phi == 0 && d.Radius == 0
}

// Orbit is a camera positioned by spherical coordinates around the origin,
// always looking at the origin with +Y up.
type Orbit struct {
	radius float64
	theta  float64
	phi    float64

	minRadius float64
	maxRadius float64
	epsilon   float64

	viewMatrix math3d.Mat4
	viewDirty  bool
}

// New creates an orbit camera from cfg.
func New(cfg Config) (*Orbit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orbit{
		radius:    cfg.Radius,
		theta:     cfg.Theta,
		phi:       cfg.Phi,
		minRadius: cfg.MinRadius,
		maxRadius: cfg.MaxRadius,
		epsilon:   cfg.Epsilon,
	}
	o.clamp()
	return o, nil
}

// Radius returns the distance from the origin.
func (o *Orbit) Radius() float64 { return o.radius }

// Theta returns the polar angle.
func (o *Orbit) Theta() float64 { return o.theta }

// Phi returns the azimuth.
func (o *Orbit) Phi() float64 { return o.phi }

// ApplyInput adds d to the coordinates and clamps radius and theta back into
// range. NaN components are ignored.
func (o *Orbit) ApplyInput(d Delta) {
	if !math.IsNaN(d.Theta) {
		o.theta += d.Theta
	}
	if !math.IsNaN(d.Phi) {
		o.phi += d.Phi
	}
	if !math.IsNaN(d.Radius) {
		o.radius += d.Radius
	}
	o.clamp()
}

func (o *Orbit) clamp() {
	o.radius = min(max(o.radius, o.minRadius), o.maxRadius)
	o.theta = min(max(o.theta, o.epsilon), math.Pi-o.epsilon)
	if math.IsInf(o.phi, 0) {
		o.phi = 0
	}
	// Keep phi bounded so long sessions do not lose precision.
	o.phi = math.Mod(o.phi, 2*math.Pi)
	o.viewDirty = true
}

// Eye returns the camera position in world space.
func (o *Orbit) Eye() math3d.Vec3 {
	sinT, cosT := math.Sincos(o.theta)
	sinP, cosP := math.Sincos(o.phi)
	return math3d.V3(
		o.radius*sinT*cosP,
		o.radius*cosT,
		o.radius*sinT*sinP,
	)
}

// ViewMatrix returns the look-at matrix from Eye towards the origin.
func (o *Orbit) ViewMatrix() math3d.Mat4 {
	if o.viewDirty {
		o.viewMatrix = math3d.LookAt(o.Eye(), math3d.V3(0, 0, 0), math3d.Up())
		o.viewDirty = false
	}
	return o.viewMatrix
}

// ProjectionMatrix returns the perspective projection for the given
// width/height ratio.
func (o *Orbit) ProjectionMatrix(aspect float64) (math3d.Mat4, error) {
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		return math3d.Mat4{}, fmt.Errorf("projection: %w (got %v)", ErrInvalidAspect, aspect)
	}
	return math3d.Perspective(FOV, aspect, Near, Far), nil
}

// String formats the camera state for the HUD.
func (o *Orbit) String() string {
	return fmt.Sprintf("r=%.1f θ=%.2f φ=%.2f", o.radius, o.theta, o.phi)
}
