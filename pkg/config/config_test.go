package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

func TestDefaultIsValid(t *testing.T) {
	f := Default()
	require.NoError(t, f.Validate())
	assert.Equal(t, math3d.V3(0.2, 0.3, 0.4), f.ClearColor())
	assert.Equal(t, 60, f.Loop.FPS)
	assert.Len(t, f.Objects, 6)
}

func TestWriteThenReadKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))

	text := buf.String()
	for _, want := range []string{"[camera]", "[loop]", "[[mesh]]", "[[object]]", "mirrored_repeat"} {
		assert.Contains(t, text, want)
	}

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestReadPartialFileKeepsDefaults(t *testing.T) {
	f, err := Read(strings.NewReader(`
[camera]
radius = 20.0

[loop]
fps = 30
`))
	require.NoError(t, err)

	assert.Equal(t, 20.0, f.Camera.Radius)
	assert.Equal(t, Default().Camera.MaxRadius, f.Camera.MaxRadius)
	assert.Equal(t, 30, f.Loop.FPS)
	assert.Equal(t, Default().Loop.Input, f.Loop.Input)
	assert.Equal(t, Default().Objects, f.Objects, "no objects in the file keeps the built-in scene")
}

func TestReadReplacesScene(t *testing.T) {
	f, err := Read(strings.NewReader(`
seed = 7

[[mesh]]
name = "quad"
builtin = "quad"

[[object]]
mesh = "quad"
position = [1.0, 0.0, 2.0]

[object.spin]
axis = [0.0, 1.0, 0.0]
speed = 2.0
`))
	require.NoError(t, err)

	assert.Equal(t, int64(7), f.Seed)
	require.Len(t, f.Meshes, 1)
	assert.Empty(t, f.Textures)
	require.Len(t, f.Objects, 1)
	assert.Equal(t, [3]float64{1, 0, 2}, f.Objects[0].Position)
	require.NotNil(t, f.Objects[0].Spin)
	assert.Equal(t, 2.0, f.Objects[0].Spin.Speed)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"unknown key", "[camera]\nzoom = 3.0\n", "file"},
		{"syntax", "[camera\n", "line 1"},
		{"clear color", "[loop]\nclear_color = [2.0, 0.0, 0.0]\n", "loop.clear_color"},
		{"fps", "[loop]\nfps = -1\n", "loop.fps"},
		{"input", "[loop.input]\nzoom_speed = -1.0\n", "loop.input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			var ce *scene.ConfigurationError
			require.True(t, errors.As(err, &ce), "error %v", err)
			assert.True(t, strings.HasPrefix(ce.Field, tt.field), "field %q, want %q", ce.Field, tt.field)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[loop]\nhud = true\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.True(t, f.Loop.HUD)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
