package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meadow/pkg/config"
	"github.com/taigrr/meadow/pkg/render"
	"github.com/taigrr/meadow/pkg/scene"
)

func TestSceneCommandPrintsDefault(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"scene"})
	require.NoError(t, cmd.Execute())

	got, err := config.Read(&out)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)
}

func TestLoadFileFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 3\n[loop]\nfps = 24\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--scene", path, "--hud"}))
	o := &options{scenePath: path, hud: true, fps: 60}

	f, err := loadFile(o, cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.Seed, "unset flags keep file values")
	assert.Equal(t, 24, f.Loop.FPS)
	assert.True(t, f.Loop.HUD)
}

func TestSnapshotWithPlaceholders(t *testing.T) {
	f := config.Default()
	f.Seed = 1
	o := &options{assets: t.TempDir(), placeholders: true}

	dev, err := snapshot(f, o, &snapshotOptions{width: 64, height: 36, time: 1})
	require.NoError(t, err)

	st := dev.Stats()
	assert.Equal(t, 245, st.DrawCalls)
	assert.Positive(t, st.Fragments)

	bg := render.ToRGBA(f.ClearColor())
	var open int
	for x := range 64 {
		if dev.Framebuffer().GetPixel(x, 0) == bg {
			open++
		}
	}
	assert.Positive(t, open, "placeholder scene leaves gaps in the top row")
}

func TestSnapshotErrors(t *testing.T) {
	o := &options{assets: t.TempDir()}

	_, err := snapshot(config.Default(), o, &snapshotOptions{width: 64, height: 36})
	var ae *scene.AssetLoadError
	assert.ErrorAs(t, err, &ae, "missing assets are fatal without placeholders")

	_, err = snapshot(config.Default(), o, &snapshotOptions{width: 0, height: 36})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "must be positive"))
}
