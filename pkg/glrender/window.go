// Package glrender is the OpenGL 4.1 backend: a glfw window with a GL
// context, the meadow GLSL program, vertex-array meshes and mipmapped
// textures.
package glrender

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/input"
	"github.com/taigrr/meadow/pkg/log"
	"github.com/taigrr/meadow/pkg/math3d"
)

var logger = log.New("gl")

func init() {
	// GLFW event handling and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Config describes the window to open.
type Config struct {
	Width, Height int
	Title         string
	HUD           bool
	VSync         bool
}

// Context tracks GL state shared by the resources created from it.
type Context struct {
	program *Program
	owned   []resource
}

type resource interface {
	Delete()
}

func (c *Context) own(r resource) { c.owned = append(c.owned, r) }

// release deletes every resource created from c, newest first.
func (c *Context) release() {
	for i := len(c.owned) - 1; i >= 0; i-- {
		c.owned[i].Delete()
	}
	c.owned = nil
	c.program = nil
}

// Window is a glfw window with a current GL context. It implements
// engine.Window, engine.Overlay and input.KeyState.
type Window struct {
	win   *glfw.Window
	ctx   *Context
	title string
	shown string
	start float64

	hud       bool
	wireframe bool
}

var (
	_ engine.Window  = (*Window)(nil)
	_ engine.Overlay = (*Window)(nil)
	_ input.KeyState = (*Window)(nil)
)

// Open creates the window and initializes GL. It must be called from the
// main goroutine.
func Open(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("init gl: %w", err)
	}
	logger.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	w := &Window{
		win:   win,
		ctx:   &Context{},
		title: cfg.Title,
		shown: cfg.Title,
		start: glfw.GetTime(),
		hud:   cfg.HUD,
	}
	win.SetKeyCallback(w.onKey)
	return w, nil
}

// Context returns the GL resource context of the window.
func (w *Window) Context() *Context { return w.ctx }

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch toggleFor(key, mods) {
	case input.ToggleHUD:
		w.hud = !w.hud
		if !w.hud {
			w.setTitle(w.title)
		}
	case input.ToggleWireframe:
		w.wireframe = !w.wireframe
		if w.wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	case input.Close:
		w.win.SetShouldClose(true)
	}
}

// Time implements engine.Window.
func (w *Window) Time() float64 { return glfw.GetTime() - w.start }

// FramebufferSize implements engine.Window.
func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

// PollEvents implements engine.Window.
func (w *Window) PollEvents() { glfw.PollEvents() }

// ShouldClose implements engine.Window.
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// Clear implements engine.Window. The viewport follows the framebuffer.
func (w *Window) Clear(c math3d.Vec3) {
	width, height := w.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(float32(c.X), float32(c.Y), float32(c.Z), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SwapBuffers implements engine.Window.
func (w *Window) SwapBuffers() error {
	w.win.SwapBuffers()
	return nil
}

// DrawOverlay implements engine.Overlay by putting the stats in the title.
func (w *Window) DrawOverlay(s engine.Stats) {
	if w.hud {
		w.setTitle(hudTitle(w.title, s))
	}
}

func (w *Window) setTitle(t string) {
	if t != w.shown {
		w.win.SetTitle(t)
		w.shown = t
	}
}

// Down implements input.KeyState from the live key state.
func (w *Window) Down(a input.Action) bool {
	for _, k := range heldKeys[a] {
		if w.win.GetKey(k) == glfw.Press {
			return true
		}
	}
	return false
}

// Close frees the resources of the context, destroys the window and
// terminates glfw.
func (w *Window) Close() error {
	w.ctx.release()
	w.win.Destroy()
	glfw.Terminate()
	return nil
}
