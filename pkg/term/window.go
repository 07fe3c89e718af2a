// Package term shows the software renderer in a terminal through
// ultraviolet. Each cell draws two framebuffer rows as a half block.
package term

import (
	"context"
	"fmt"
	"slices"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/input"
	"github.com/taigrr/meadow/pkg/log"
	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/render"
)

var logger = log.New("term")

// Config controls the terminal window.
type Config struct {
	FPS      int // frame cap; 0 disables pacing
	HUD      bool
	Hold     time.Duration
	Bindings []input.Binding
}

// screen is the part of *uv.Terminal the window drives.
type screen interface {
	Draw(d uv.Drawable)
	Display() error
	Erase()
	Resize(width, height int) error
	Events() <-chan uv.Event
}

// Window implements engine.Window and engine.Overlay on a terminal.
type Window struct {
	term *uv.Terminal // nil when driving a fake screen
	out  screen
	dev  *render.Device
	keys *input.Tracker

	bindings []input.Binding
	frame    time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
	start    time.Time
	lastSwap time.Time

	cols, rows int
	closed     bool
	hud        bool
	hudLine    string
}

var (
	_ engine.Window  = (*Window)(nil)
	_ engine.Overlay = (*Window)(nil)
)

// Open takes over the terminal: alt screen, hidden cursor and raw input.
// Call Close to restore it.
func Open(cfg Config) (*Window, error) {
	t := uv.DefaultTerminal()

	cols, rows, err := t.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}
	t.EnterAltScreen()
	t.HideCursor()

	w := newWindow(t, cols, rows, cfg)
	w.term = t
	if err := t.Resize(cols, rows); err != nil {
		w.Close()
		return nil, fmt.Errorf("resize terminal: %w", err)
	}
	logger.Infof("terminal %dx%d, framebuffer %dx%d", cols, rows, cols, rows*2)
	return w, nil
}

func newWindow(out screen, cols, rows int, cfg Config) *Window {
	bindings := cfg.Bindings
	if bindings == nil {
		bindings = input.DefaultBindings()
	}
	hold := cfg.Hold
	if hold <= 0 {
		hold = input.DefaultConfig().Hold()
	}

	w := &Window{
		out:      out,
		dev:      render.NewDevice(cols, rows*2),
		keys:     input.NewTracker(hold),
		bindings: bindings,
		now:      time.Now,
		sleep:    time.Sleep,
		cols:     cols,
		rows:     rows,
		hud:      cfg.HUD,
	}
	if cfg.FPS > 0 {
		w.frame = time.Second / time.Duration(cfg.FPS)
	}
	w.start = w.now()
	return w
}

// Device returns the software device the scene draws into.
func (w *Window) Device() *render.Device { return w.dev }

// Keys returns the held-key state fed by terminal key events.
func (w *Window) Keys() input.KeyState { return w.keys }

// Time implements engine.Window.
func (w *Window) Time() float64 {
	return w.now().Sub(w.start).Seconds()
}

// FramebufferSize implements engine.Window.
func (w *Window) FramebufferSize() (int, int) { return w.dev.Size() }

// ShouldClose implements engine.Window.
func (w *Window) ShouldClose() bool { return w.closed }

// PollEvents handles every pending terminal event without blocking.
func (w *Window) PollEvents() {
	events := w.out.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				w.closed = true
				return
			}
			w.handle(ev)
		default:
			return
		}
	}
}

func (w *Window) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		w.resize(ev.Width, ev.Height)
	case uv.KeyPressEvent:
		for _, a := range w.actions(ev.MatchString) {
			w.press(a)
		}
	case uv.KeyReleaseEvent:
		for _, a := range w.actions(ev.MatchString) {
			w.keys.Release(a)
		}
	}
}

// actions returns each bound action whose key matches, once. A shifted key
// such as ? can match both its text and its keystroke binding.
func (w *Window) actions(match func(...string) bool) []input.Action {
	var out []input.Action
	for _, b := range w.bindings {
		if match(b.Key) && !slices.Contains(out, b.Action) {
			out = append(out, b.Action)
		}
	}
	return out
}

func (w *Window) press(a input.Action) {
	switch a {
	case input.ToggleHUD:
		w.hud = !w.hud
	case input.ToggleWireframe:
		w.dev.Wireframe = !w.dev.Wireframe
	case input.Close:
		w.closed = true
		w.keys.Press(a)
	default:
		w.keys.Press(a)
	}
}

func (w *Window) resize(cols, rows int) {
	if cols == w.cols && rows == w.rows {
		return
	}
	w.cols, w.rows = cols, rows
	w.out.Erase()
	if err := w.out.Resize(cols, rows); err != nil {
		logger.Warningf("resize terminal: %v", err)
	}
	w.dev.Resize(cols, rows*2)
	logger.Debugf("resized to %dx%d", cols, rows)
}

// Clear implements engine.Window.
func (w *Window) Clear(c math3d.Vec3) {
	w.dev.Clear(render.ToRGBA(c))
}

// DrawOverlay implements engine.Overlay. The line is drawn on the next
// SwapBuffers while the HUD is enabled.
func (w *Window) DrawOverlay(s engine.Stats) {
	w.hudLine = formatHUD(s, w.dev.Stats(), w.dev.Wireframe)
}

// HUD reports whether the overlay is shown.
func (w *Window) HUD() bool { return w.hud }

// SwapBuffers implements engine.Window: it writes the framebuffer and HUD
// to the terminal, then sleeps off the rest of the frame budget.
func (w *Window) SwapBuffers() error {
	fb := w.dev.Framebuffer()
	w.out.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
		fb.Draw(scr, area)
		if w.hud && w.hudLine != "" {
			uv.NewStyledString(w.hudLine).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1))
		}
	}))
	if err := w.out.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if w.frame > 0 && !w.lastSwap.IsZero() {
		if elapsed := w.now().Sub(w.lastSwap); elapsed < w.frame {
			w.sleep(w.frame - elapsed)
		}
	}
	w.lastSwap = w.now()
	return nil
}

// Close restores the terminal.
func (w *Window) Close() error {
	w.closed = true
	if w.term == nil {
		return nil
	}
	w.term.ExitAltScreen()
	w.term.ShowCursor()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.term.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown terminal: %w", err)
	}
	return nil
}
