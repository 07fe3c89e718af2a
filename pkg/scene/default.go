package scene

import "github.com/taigrr/meadow/pkg/camera"

// DefaultConfig returns the built-in meadow: scattered flowers on a large
// ground plane, a color-pulsing palm, a cactus and two spinning rocks.
// Asset paths are relative to the loader's base directory.
func DefaultConfig() Config {
	white := [3]float64{1, 1, 1}
	scatter := DefaultScatter()

	return Config{
		Camera: camera.DefaultConfig(),
		Meshes: []MeshConfig{
			{Name: "ground", Path: "models/ground-large.obj"},
			{Name: "palm", Path: "models/palm.obj"},
			{Name: "cactus", Path: "models/kaktus.obj"},
			{Name: "rock", Path: "models/rock.obj"},
			{Name: "flower", Builtin: BuiltinQuad},
		},
		Textures: []TextureConfig{
			{Name: "flower", Path: "textures/flower32bit.png"},
			{Name: "ground", Path: "textures/ground.jpg", Wrap: WrapMirroredRepeat.String()},
			{Name: "cactus", Path: "textures/cactus.jpg"},
			{Name: "rock", Path: "textures/rock.jpg"},
		},
		Objects: []ObjectConfig{
			{
				Name:        "flowers",
				Mesh:        "flower",
				Texture:     "flower",
				AlphaCutout: true,
				ColorA:      &white,
				ColorB:      &white,
				Scatter:     &scatter,
			},
			{
				Name:    "ground",
				Mesh:    "ground",
				Texture: "ground",
				Ground:  true,
				ColorA:  &[3]float64{0.6, 0.6, 0.6},
				ColorB:  &[3]float64{0.8, 0.8, 0.8},
			},
			{
				Name:     "palm",
				Mesh:     "palm",
				Position: [3]float64{-3, 0, -2},
				ColorA:   &[3]float64{0.1, 0.5, 0.1},
				ColorB:   &[3]float64{0.6, 0.8, 0.3},
				Pulse:    &PulseConfig{Speed: 1},
			},
			{
				Name:     "cactus",
				Mesh:     "cactus",
				Texture:  "cactus",
				Position: [3]float64{2, 0, -4},
			},
			{
				Name:     "rock",
				Mesh:     "rock",
				Texture:  "rock",
				Position: [3]float64{-1, 0, 2},
				Scale:    0.8,
				Spin:     &SpinConfig{Axis: [3]float64{0, 1, 0}, Speed: 1},
			},
			{
				Name:     "pebble",
				Mesh:     "rock",
				Texture:  "rock",
				Position: [3]float64{3, 0, 1},
				Scale:    0.5,
				Spin:     &SpinConfig{Axis: [3]float64{0, 1, 0}, Speed: 2},
				Pulse:    &PulseConfig{Speed: 2},
			},
		},
	}
}
