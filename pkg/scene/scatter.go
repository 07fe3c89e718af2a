package scene

import (
	"math"
	"math/rand"

	"github.com/taigrr/meadow/pkg/math3d"
)

// ScatterConfig controls procedural placement of ground cover.
// Min and Max bound the (x, z) rectangle; they should match the extent of
// the ground mesh the decorations sit on.
type ScatterConfig struct {
	Count int        `toml:"count"`
	Min   [2]float64 `toml:"min"`   // x, z
	Max   [2]float64 `toml:"max"`   // x, z
	Scale [2]float64 `toml:"scale"` // [min, max)
}

// MaxScatterCount caps the positions of one scatter group.
const MaxScatterCount = 1 << 20

// DefaultScatter returns 120 pairs over [-8, 8]² with scale in [0.4, 1).
func DefaultScatter() ScatterConfig {
	return ScatterConfig{
		Count: 120,
		Min:   [2]float64{-8, -8},
		Max:   [2]float64{8, 8},
		Scale: [2]float64{0.4, 1.0},
	}
}

// Validate rejects empty rectangles and scale ranges.
func (c ScatterConfig) Validate() error {
	if c.Count < 0 || c.Count > MaxScatterCount {
		return configErr("scatter.count", "must be in [0, %d], got %d", MaxScatterCount, c.Count)
	}
	for _, v := range [...]float64{c.Min[0], c.Min[1], c.Max[0], c.Max[1], c.Scale[0], c.Scale[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return configErr("scatter", "bounds must be finite")
		}
	}
	if c.Min[0] >= c.Max[0] || c.Min[1] >= c.Max[1] {
		return configErr("scatter.bounds", "rectangle %v..%v is empty", c.Min, c.Max)
	}
	if c.Scale[0] <= 0 || c.Scale[0] >= c.Scale[1] {
		return configErr("scatter.scale", "range %v must be positive and increasing", c.Scale)
	}
	return nil
}

// Placement is one scattered instance on the ground plane.
type Placement struct {
	X, Z     float64
	Scale    float64
	Rotation float64 // about +Y, in [0, 2π)
}

// Model returns T(x, 0, z) · RotY(rotation) · S(scale).
func (p Placement) Model() math3d.Mat4 {
	return math3d.Translate(math3d.V3(p.X, 0, p.Z)).
		Mul(math3d.RotateY(p.Rotation)).
		Mul(math3d.ScaleUniform(p.Scale))
}

// Scatter draws cfg.Count positions from rng. Each position yields two
// placements with rotations a quarter turn apart, so two flat quads cross
// into a cluster that reads as solid from any side.
func Scatter(cfg ScatterConfig, rng *rand.Rand) ([]Placement, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := make([]Placement, 0, cfg.Count*2)
	for range cfg.Count {
		x := uniform(rng, cfg.Min[0], cfg.Max[0])
		z := uniform(rng, cfg.Min[1], cfg.Max[1])
		scale := uniform(rng, cfg.Scale[0], cfg.Scale[1])
		rot := rng.Float64() * 2 * math.Pi

		out = append(out,
			Placement{X: x, Z: z, Scale: scale, Rotation: rot},
			Placement{X: x, Z: z, Scale: scale, Rotation: math.Mod(rot+math.Pi/2, 2*math.Pi)},
		)
	}
	return out, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
