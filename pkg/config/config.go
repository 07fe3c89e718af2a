// Package config reads and writes scene files: the scene declaration plus
// the render loop settings, in TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/meadow/pkg/input"
	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

// Loop holds the render loop settings.
type Loop struct {
	ClearColor [3]float64   `toml:"clear_color"`
	FPS        int          `toml:"fps"`
	HUD        bool         `toml:"hud"`
	Input      input.Config `toml:"input"`
}

// File is the top level of a scene file. The scene tables sit at the root
// next to [loop].
type File struct {
	scene.Config
	Loop Loop `toml:"loop"`
}

// Default returns the built-in meadow scene.
func Default() File {
	return File{
		Config: scene.DefaultConfig(),
		Loop: Loop{
			ClearColor: [3]float64{0.2, 0.3, 0.4},
			FPS:        60,
			Input:      input.DefaultConfig(),
		},
	}
}

// ClearColor returns the loop clear color as a vector.
func (f File) ClearColor() math3d.Vec3 {
	c := f.Loop.ClearColor
	return math3d.V3(c[0], c[1], c[2])
}

// Validate checks the loop settings. The scene itself is checked by
// scene.Build.
func (f File) Validate() error {
	for _, c := range f.Loop.ClearColor {
		if math.IsNaN(c) || c < 0 || c > 1 {
			return &scene.ConfigurationError{Field: "loop.clear_color", Err: fmt.Errorf("channel %v outside [0, 1]", c)}
		}
	}
	if f.Loop.FPS < 0 {
		return &scene.ConfigurationError{Field: "loop.fps", Err: fmt.Errorf("must not be negative, got %d", f.Loop.FPS)}
	}
	if err := f.Loop.Input.Validate(); err != nil {
		return &scene.ConfigurationError{Field: "loop.input", Err: err}
	}
	return nil
}

// Load reads a scene file. Keys missing from the file keep their values
// from Default; unknown keys are an error.
func Load(path string) (File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open scene file: %w", err)
	}
	defer fp.Close()
	return Read(fp)
}

// Read decodes a scene file from r on top of Default. A file that declares
// any mesh, texture or object replaces the built-in scene as a whole;
// otherwise the built-in scene is kept with the file's camera and loop.
func Read(r io.Reader) (File, error) {
	f := Default()
	f.Meshes, f.Textures, f.Objects = nil, nil, nil

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return File{}, &scene.ConfigurationError{Field: "file", Err: errors.New(strict.String())}
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return File{}, &scene.ConfigurationError{Field: fmt.Sprintf("line %d column %d", row, col), Err: derr}
		}
		return File{}, fmt.Errorf("decode scene file: %w", err)
	}
	if len(f.Meshes) == 0 && len(f.Textures) == 0 && len(f.Objects) == 0 {
		def := scene.DefaultConfig()
		f.Meshes, f.Textures, f.Objects = def.Meshes, def.Textures, def.Objects
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Write encodes f as TOML.
func Write(w io.Writer, f File) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode scene file: %w", err)
	}
	return nil
}
