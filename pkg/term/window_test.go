package term

import (
	"errors"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/input"
	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/render"
)

type fakeScreen struct {
	events     chan uv.Event
	buf        uv.ScreenBuffer
	cols, rows int
	erased     int
	displayErr error
}

func newFakeScreen(cols, rows int) *fakeScreen {
	return &fakeScreen{
		events: make(chan uv.Event, 16),
		buf:    uv.NewScreenBuffer(cols, rows),
		cols:   cols,
		rows:   rows,
	}
}

func (f *fakeScreen) Draw(d uv.Drawable) {
	f.buf = uv.NewScreenBuffer(f.cols, f.rows)
	d.Draw(f.buf, f.buf.Bounds())
}

func (f *fakeScreen) Display() error { return f.displayErr }
func (f *fakeScreen) Erase() { f.erased++ }
func (f *fakeScreen) Events() <-chan uv.Event { return f.events }

func (f *fakeScreen) Resize(w, h int) error {
	f.cols, f.rows = w, h
	return nil
}

// fakeClock is a manually advanced clock that records sleeps.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

func newTestWindow(cfg Config) (*Window, *fakeScreen, *fakeClock) {
	scr := newFakeScreen(8, 4)
	w := newWindow(scr, 8, 4, cfg)
	clk := &fakeClock{t: time.Unix(1000, 0)}
	w.now = clk.now
	w.sleep = clk.sleep
	w.start = clk.t
	return w, scr, clk
}

func press(k uv.Key) uv.Event { return uv.KeyPressEvent(k) }
func release(k uv.Key) uv.Event { return uv.KeyReleaseEvent(k) }

func TestNewWindowFramebufferIsDoubleHeight(t *testing.T) {
	w, _, _ := newTestWindow(Config{})
	width, height := w.FramebufferSize()
	assert.Equal(t, 8, width)
	assert.Equal(t, 8, height)
}

func TestPollEventsTracksHeldKeys(t *testing.T) {
	w, scr, _ := newTestWindow(Config{Hold: time.Hour})
	keyW := uv.Key{Code: 'w', Text: "w"}

	scr.events <- press(keyW)
	w.PollEvents()
	assert.True(t, w.Keys().Down(input.OrbitUp))
	assert.False(t, w.Keys().Down(input.OrbitDown))

	scr.events <- release(keyW)
	w.PollEvents()
	assert.False(t, w.Keys().Down(input.OrbitUp))
}

func TestPollEventsToggles(t *testing.T) {
	w, scr, _ := newTestWindow(Config{})

	// ? matches both the "?" and "shift+/" bindings and must toggle once.
	scr.events <- press(uv.Key{Code: '/', Mod: uv.ModShift, Text: "?"})
	scr.events <- press(uv.Key{Code: 'x', Text: "x"})
	w.PollEvents()

	assert.True(t, w.HUD())
	assert.True(t, w.Device().Wireframe)
	assert.False(t, w.ShouldClose())

	scr.events <- press(uv.Key{Code: 'x', Text: "x"})
	w.PollEvents()
	assert.False(t, w.Device().Wireframe)
}

func TestPollEventsClose(t *testing.T) {
	tests := []struct {
		name string
		send func(*fakeScreen)
	}{
		{"escape", func(s *fakeScreen) { s.events <- press(uv.Key{Code: uv.KeyEscape}) }},
		{"ctrl+c", func(s *fakeScreen) { s.events <- press(uv.Key{Code: 'c', Mod: uv.ModCtrl}) }},
		{"event stream ended", func(s *fakeScreen) { close(s.events) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, scr, _ := newTestWindow(Config{})
			tt.send(scr)
			w.PollEvents()
			assert.True(t, w.ShouldClose())
		})
	}
}

func TestPollEventsResize(t *testing.T) {
	w, scr, _ := newTestWindow(Config{})

	scr.events <- uv.WindowSizeEvent{Width: 20, Height: 5}
	w.PollEvents()

	width, height := w.FramebufferSize()
	assert.Equal(t, 20, width)
	assert.Equal(t, 10, height)
	assert.Equal(t, 20, scr.cols)
	assert.Equal(t, 1, scr.erased)

	// Same size again is a no-op.
	scr.events <- uv.WindowSizeEvent{Width: 20, Height: 5}
	w.PollEvents()
	assert.Equal(t, 1, scr.erased)
}

func TestPollEventsEmptyDoesNotBlock(t *testing.T) {
	w, _, _ := newTestWindow(Config{})
	w.PollEvents()
	assert.False(t, w.ShouldClose())
}

func TestSwapBuffersDrawsFramebufferAndHUD(t *testing.T) {
	w, scr, _ := newTestWindow(Config{})
	w.Clear(math3d.V3(1, 0, 0))
	w.DrawOverlay(engine.Stats{FPS: 30, Entities: 3})

	require.NoError(t, w.SwapBuffers())
	cell := scr.buf.CellAt(0, 0)
	require.NotNil(t, cell)
	assert.Equal(t, "▀", cell.Content)
	assert.Equal(t, render.RGB(255, 0, 0), cell.Style.Fg)

	scr.events <- press(uv.Key{Code: '?', Text: "?"})
	w.PollEvents()
	require.NoError(t, w.SwapBuffers())
	assert.NotEqual(t, "▀", scr.buf.CellAt(0, 0).Content, "top row should hold the HUD")
	assert.Equal(t, "▀", scr.buf.CellAt(0, 1).Content)
}

func TestSwapBuffersError(t *testing.T) {
	w, scr, _ := newTestWindow(Config{})
	scr.displayErr = errors.New("broken pipe")
	assert.ErrorIs(t, w.SwapBuffers(), scr.displayErr)
}

func TestSwapBuffersPacesFrames(t *testing.T) {
	w, _, clk := newTestWindow(Config{FPS: 10})

	require.NoError(t, w.SwapBuffers())
	assert.Empty(t, clk.sleeps, "first frame has nothing to wait for")

	clk.t = clk.t.Add(30 * time.Millisecond)
	require.NoError(t, w.SwapBuffers())
	assert.Equal(t, []time.Duration{70 * time.Millisecond}, clk.sleeps)

	clk.t = clk.t.Add(200 * time.Millisecond)
	require.NoError(t, w.SwapBuffers())
	assert.Len(t, clk.sleeps, 1, "slow frames do not sleep")
}

func TestTime(t *testing.T) {
	w, _, clk := newTestWindow(Config{})
	assert.Zero(t, w.Time())
	clk.t = clk.t.Add(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, w.Time(), 1e-9)
}

func TestFormatHUD(t *testing.T) {
	line := formatHUD(engine.Stats{
		FPS:      59.6,
		Elapsed:  65.2,
		Entities: 245,
		Radius:   12,
		Theta:    0.5,
		Phi:      0.8,
	}, render.DrawStats{Triangles: 900}, true)

	for _, want := range []string{"60 FPS", "01:05", "245 objects", "900 tris", "r 12.0", "[✓] x-ray"} {
		assert.True(t, strings.Contains(line, want), "HUD %q missing %q", line, want)
	}
}
