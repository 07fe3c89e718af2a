package input

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/meadow/pkg/camera"
)

// Spring parameters for rate smoothing. A damping ratio of 1 is critically
// damped, so rates never overshoot their target.
const (
	springFrequency = 8.0
	springDamping   = 1.0
)

// Config holds the camera control speeds.
type Config struct {
	RotateSpeed float64 `toml:"rotate_speed"` // radians per second
	ZoomSpeed   float64 `toml:"zoom_speed"`   // units per second
	Smoothing   bool    `toml:"smoothing"`
	HoldMillis  int     `toml:"hold_ms"` // key hold window for press-only sources
}

// DefaultConfig returns 1.5 rad/s rotation, 10 units/s zoom, smoothing on
// and a 150ms hold window.
func DefaultConfig() Config {
	return Config{
		RotateSpeed: 1.5,
		ZoomSpeed:   10,
		Smoothing:   true,
		HoldMillis:  150,
	}
}

// Validate rejects negative or non-finite speeds.
func (c Config) Validate() error {
	if math.IsNaN(c.RotateSpeed) || math.IsInf(c.RotateSpeed, 0) || c.RotateSpeed < 0 {
		return fmt.Errorf("rotate_speed %v must be a non-negative number", c.RotateSpeed)
	}
	if math.IsNaN(c.ZoomSpeed) || math.IsInf(c.ZoomSpeed, 0) || c.ZoomSpeed < 0 {
		return fmt.Errorf("zoom_speed %v must be a non-negative number", c.ZoomSpeed)
	}
	if c.HoldMillis <= 0 {
		return fmt.Errorf("hold_ms %d must be positive", c.HoldMillis)
	}
	return nil
}

// Hold returns the hold window as a duration.
func (c Config) Hold() time.Duration {
	return time.Duration(c.HoldMillis) * time.Millisecond
}

// axis is one smoothed rate.
type axis struct {
	rate float64
	vel  float64
}

func (a *axis) step(s *harmonica.Spring, target float64) {
	if s == nil {
		a.rate, a.vel = target, 0
		return
	}
	a.rate, a.vel = s.Update(a.rate, a.vel, target)
}

// Controller converts held keys into per-frame camera deltas.
type Controller struct {
	cfg  Config
	keys KeyState

	theta, phi, radius axis
}

// NewController returns a controller reading keys.
func NewController(cfg Config, keys KeyState) *Controller {
	return &Controller{cfg: cfg, keys: keys}
}

// Update returns the camera delta for a frame of dt seconds and whether a
// close was requested.
func (c *Controller) Update(dt float64) (camera.Delta, bool) {
	if c.keys.Down(Close) {
		return camera.Delta{}, true
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return camera.Delta{}, false
	}

	targetTheta := c.cfg.RotateSpeed * c.axisInput(OrbitUp, OrbitDown)
	targetPhi := c.cfg.RotateSpeed * c.axisInput(OrbitLeft, OrbitRight)
	targetRadius := c.cfg.ZoomSpeed * c.axisInput(ZoomIn, ZoomOut)

	var spring *harmonica.Spring
	if c.cfg.Smoothing {
		s := harmonica.NewSpring(dt, springFrequency, springDamping)
		spring = &s
	}
	c.theta.step(spring, targetTheta)
	c.phi.step(spring, targetPhi)
	c.radius.step(spring, targetRadius)

	return camera.Delta{
		Theta:  c.theta.rate * dt,
		Phi:    c.phi.rate * dt,
		Radius: c.radius.rate * dt,
	}, false
}

// Rates returns the current angular and zoom rates.
func (c *Controller) Rates() (theta, phi, radius float64) {
	return c.theta.rate, c.phi.rate, c.radius.rate
}

// axisInput returns -1, 0 or 1 for a pair of opposing actions.
func (c *Controller) axisInput(neg, pos Action) float64 {
	var v float64
	if c.keys.Down(neg) {
		v--
	}
	if c.keys.Down(pos) {
		v++
	}
	return v
}
