package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meadow/pkg/camera"
	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

// callLog collects every collaborator call in order.
type callLog struct {
	ops []string
}

func (l *callLog) add(format string, args ...any) {
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}

type fakeWindow struct {
	log    *callLog
	frames int // ShouldClose turns true after this many presents
	sizes  [][2]int
	dt     float64

	now      float64
	presents int
	swapErr  error
}

func (w *fakeWindow) Time() float64 { return w.now }

func (w *fakeWindow) FramebufferSize() (int, int) {
	s := w.sizes[min(w.presents, len(w.sizes)-1)]
	return s[0], s[1]
}

func (w *fakeWindow) PollEvents()       { w.log.add("poll") }
func (w *fakeWindow) ShouldClose() bool { return w.presents >= w.frames }

func (w *fakeWindow) Clear(c math3d.Vec3) { w.log.add("clear") }

func (w *fakeWindow) SwapBuffers() error {
	w.log.add("swap")
	w.presents++
	w.now += w.dt
	return w.swapErr
}

type fakeInput struct {
	log     *callLog
	delta   camera.Delta
	closeAt int
	calls   int
	gotDt   []float64
}

func (in *fakeInput) Update(dt float64) (camera.Delta, bool) {
	in.log.add("input")
	in.calls++
	in.gotDt = append(in.gotDt, dt)
	return in.delta, in.closeAt > 0 && in.calls >= in.closeAt
}

type fakeProgram struct {
	log    *callLog
	projs  []math3d.Mat4
	models []math3d.Mat4
}

func (p *fakeProgram) Use() { p.log.add("use") }

func (p *fakeProgram) SetMat4(name string, m math3d.Mat4) {
	if name == scene.UniformProj {
		p.projs = append(p.projs, m)
	}
	if name == scene.UniformModel {
		p.models = append(p.models, m)
	}
}

func (p *fakeProgram) SetVec3(string, math3d.Vec3) {}

func (p *fakeProgram) SetInt(name string, v int) {
	if name == scene.UniformDiffuse {
		p.log.add("diffuse %d", v)
	}
}

type fakeGeometry struct{ log *callLog }

func (g fakeGeometry) Draw() { g.log.add("draw") }

type fakeOverlay struct {
	log   *callLog
	stats []Stats
}

func (o *fakeOverlay) DrawOverlay(s Stats) {
	o.log.add("overlay")
	o.stats = append(o.stats, s)
}

func newTestScene(t *testing.T, l *callLog, rotate bool) (*scene.Scene, *camera.Orbit) {
	t.Helper()
	cam, err := camera.New(camera.DefaultConfig())
	require.NoError(t, err)

	cfg := scene.EntityConfig{Geometry: fakeGeometry{log: l}, Model: math3d.Identity()}
	if rotate {
		cfg.Rotation = &scene.Rotation{Axis: math3d.Up(), Speed: 1}
	}
	e, err := scene.NewEntity(cfg)
	require.NoError(t, err)
	return scene.New(cam, []*scene.Entity{e}), cam
}

func TestFrameOrder(t *testing.T) {
	l := &callLog{}
	sc, cam := newTestScene(t, l, false)
	win := &fakeWindow{log: l, frames: 2, sizes: [][2]int{{160, 90}}, dt: 0.5}

	err := Run(context.Background(), sc, cam, Collaborators{
		Window:  win,
		Input:   &fakeInput{log: l},
		Program: &fakeProgram{log: l},
		Overlay: &fakeOverlay{log: l},
	})
	require.NoError(t, err)

	frame := []string{"poll", "input", "clear", "draw", "overlay", "swap"}
	want := append([]string{"use", "diffuse 0"}, frame...)
	want = append(want, frame...)
	assert.Equal(t, want, l.ops)
}

func TestInputMovesCamera(t *testing.T) {
	l := &callLog{}
	sc, cam := newTestScene(t, l, false)
	win := &fakeWindow{log: l, frames: 3, sizes: [][2]int{{100, 100}}, dt: 0.25}
	in := &fakeInput{log: l, delta: camera.Delta{Radius: 1}}

	require.NoError(t, Run(context.Background(), sc, cam, Collaborators{
		Window: win, Input: in, Program: &fakeProgram{log: l},
	}))

	assert.Equal(t, 15.0, cam.Radius())
	assert.Equal(t, []float64{0, 0.25, 0.25}, in.gotDt)
}

func TestAspectIsRecomputedEachFrame(t *testing.T) {
	l := &callLog{}
	sc, cam := newTestScene(t, l, false)
	win := &fakeWindow{log: l, frames: 2, sizes: [][2]int{{200, 100}, {100, 100}}, dt: 0.1}
	prog := &fakeProgram{log: l}

	require.NoError(t, Run(context.Background(), sc, cam, Collaborators{Window: win, Program: prog}))

	require.Len(t, prog.projs, 2)
	wide, err := cam.ProjectionMatrix(2)
	require.NoError(t, err)
	square, err := cam.ProjectionMatrix(1)
	require.NoError(t, err)
	assert.Equal(t, wide, prog.projs[0])
	assert.Equal(t, square, prog.projs[1])
}

func TestZeroSizedFramebufferStillPresents(t *testing.T) {
	l := &callLog{}
	sc, cam := newTestScene(t, l, false)
	win := &fakeWindow{log: l, frames: 3, sizes: [][2]int{{0, 0}, {64, 0}, {64, 48}}, dt: 0.1}

	require.NoError(t, Run(context.Background(), sc, cam, Collaborators{
		Window: win, Program: &fakeProgram{log: l},
	}))

	assert.Equal(t, []string{
		"use", "diffuse 0",
		"poll", "swap",
		"poll", "swap",
		"poll", "clear", "draw", "swap",
	}, l.ops)
}

func TestEntitiesSeeElapsedTime(t *testing.T) {
	l := &callLog{}
	sc, cam := newTestScene(t, l, true)
	win := &fakeWindow{log: l, now: 7, frames: 2, sizes: [][2]int{{10, 10}}, dt: 0.5}
	prog := &fakeProgram{log: l}

	require.NoError(t, Run(context.Background(), sc, cam, Collaborators{Window: win, Program: prog}))

	require.Len(t, prog.models, 2)
	assert.True(t, prog.models[0].ApproxEqual(math3d.Identity(), 1e-12))
	assert.True(t, prog.models[1].ApproxEqual(math3d.RotateY(0.5), 1e-12))
}

func TestStopConditions(t *testing.T) {
	t.Run("input close", func(t *testing.T) {
		l := &callLog{}
		sc, cam := newTestScene(t, l, false)
		win := &fakeWindow{log: l, frames: 100, sizes: [][2]int{{10, 10}}, dt: 0.1}
		in := &fakeInput{log: l, closeAt: 2}

		require.NoError(t, Run(context.Background(), sc, cam, Collaborators{
			Window: win, Input: in, Program: &fakeProgram{log: l},
		}))
		assert.Equal(t, 1, win.presents)
	})

	t.Run("cancelled context", func(t *testing.T) {
		l := &callLog{}
		sc, cam := newTestScene(t, l, false)
		win := &fakeWindow{log: l, frames: 100, sizes: [][2]int{{10, 10}}, dt: 0.1}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, Run(ctx, sc, cam, Collaborators{Window: win, Program: &fakeProgram{log: l}}))
		assert.Equal(t, 0, win.presents)
	})

	t.Run("present error", func(t *testing.T) {
		l := &callLog{}
		sc, cam := newTestScene(t, l, false)
		boom := errors.New("tty gone")
		win := &fakeWindow{log: l, frames: 100, sizes: [][2]int{{10, 10}}, dt: 0.1, swapErr: boom}

		err := Run(context.Background(), sc, cam, Collaborators{Window: win, Program: &fakeProgram{log: l}})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing collaborators", func(t *testing.T) {
		sc, cam := newTestScene(t, &callLog{}, false)
		assert.Error(t, Run(context.Background(), sc, cam, Collaborators{}))
	})
}

func TestOverlayStats(t *testing.T) {
	l := &callLog{}
	sc, cam := newTestScene(t, l, false)
	win := &fakeWindow{log: l, frames: 4, sizes: [][2]int{{80, 40}}, dt: 0.5}
	ov := &fakeOverlay{log: l}

	require.NoError(t, Run(context.Background(), sc, cam, Collaborators{
		Window: win, Program: &fakeProgram{log: l}, Overlay: ov,
	}))

	require.Len(t, ov.stats, 4)
	assert.Zero(t, ov.stats[0].FPS)

	last := ov.stats[3]
	assert.Equal(t, uint64(3), last.Frame)
	assert.Equal(t, 1.5, last.Elapsed)
	assert.Equal(t, 1, last.Entities)
	assert.Equal(t, 12.0, last.Radius)
	assert.Equal(t, 80, last.Width)
	// Three frames presented over the first full second.
	assert.InDelta(t, 3, last.FPS, 1e-9)
}

func TestProfiler(t *testing.T) {
	p := NewProfiler(10)
	assert.False(t, p.Tick(10.2))
	assert.False(t, p.Tick(10.6))
	assert.True(t, p.Tick(11))
	assert.InDelta(t, 3, p.FPS(), 1e-9)

	assert.False(t, p.Tick(11.5))
	assert.True(t, p.Tick(12.5))
	assert.InDelta(t, 1.33333, p.FPS(), 1e-4)
}
