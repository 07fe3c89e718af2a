// Package engine runs the per-frame render loop against abstract window,
// input and shader collaborators.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/taigrr/meadow/pkg/camera"
	"github.com/taigrr/meadow/pkg/log"
	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

var logger = log.New("engine")

// Window is the presentation surface and event source.
type Window interface {
	// Time returns seconds since the window was created.
	Time() float64
	// FramebufferSize returns the drawable size in pixels. Either dimension
	// may be zero, for example while minimized.
	FramebufferSize() (width, height int)
	PollEvents()
	ShouldClose() bool
	// Clear resets the color target to c and the depth target to far.
	Clear(c math3d.Vec3)
	SwapBuffers() error
}

// Input produces the camera delta for a frame of dt seconds.
type Input interface {
	Update(dt float64) (delta camera.Delta, closeRequested bool)
}

// Overlay draws debug information on top of a finished frame.
type Overlay interface {
	DrawOverlay(s Stats)
}

// Stats describes the frame about to be presented.
type Stats struct {
	Frame    uint64
	Elapsed  float64 // seconds
	FPS      float64 // averaged over the last second
	Entities int
	Radius   float64
	Theta    float64
	Phi      float64
	Width    int
	Height   int
}

// Collaborators are the backend services the loop drives. Input and Overlay
// are optional.
type Collaborators struct {
	Window     Window
	Input      Input
	Program    scene.Program
	Overlay    Overlay
	ClearColor math3d.Vec3
}

// Run draws sc from cam until the window asks to close, input requests a
// close or ctx is cancelled. A close is a normal stop and returns nil.
func Run(ctx context.Context, sc *scene.Scene, cam *camera.Orbit, c Collaborators) error {
	switch {
	case c.Window == nil:
		return errors.New("run loop: no window")
	case c.Program == nil:
		return errors.New("run loop: no program")
	case sc == nil || cam == nil:
		return errors.New("run loop: no scene")
	}

	c.Program.Use()
	c.Program.SetInt(scene.UniformDiffuse, scene.DiffuseUnit)

	start := c.Window.Time()
	last := start
	prof := NewProfiler(start)
	var frame uint64

	logger.Infof("render loop started with %d entities", sc.Len())
	for {
		if err := ctx.Err(); err != nil {
			logger.Infof("render loop stopped: %v", err)
			return nil
		}
		if c.Window.ShouldClose() {
			logger.Infof("render loop stopped: window closed")
			return nil
		}

		now := c.Window.Time()
		dt := now - last
		last = now
		elapsed := now - start

		c.Window.PollEvents()

		if c.Input != nil {
			delta, closeRequested := c.Input.Update(dt)
			if closeRequested {
				logger.Infof("render loop stopped: close requested")
				return nil
			}
			cam.ApplyInput(delta)
		}

		w, h := c.Window.FramebufferSize()
		if w > 0 && h > 0 {
			view := cam.ViewMatrix()
			proj, err := cam.ProjectionMatrix(float64(w) / float64(h))
			if err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			c.Window.Clear(c.ClearColor)
			sc.Draw(c.Program, elapsed, view, proj)
		}

		if c.Overlay != nil {
			c.Overlay.DrawOverlay(Stats{
				Frame:    frame,
				Elapsed:  elapsed,
				FPS:      prof.FPS(),
				Entities: sc.Len(),
				Radius:   cam.Radius(),
				Theta:    cam.Theta(),
				Phi:      cam.Phi(),
				Width:    w,
				Height:   h,
			})
		}

		if err := c.Window.SwapBuffers(); err != nil {
			return fmt.Errorf("present frame %d: %w", frame, err)
		}

		prof.Tick(now)
		frame++
	}
}
