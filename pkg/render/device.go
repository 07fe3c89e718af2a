package render

import (
	"image/color"
	"math"

	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/models"
)

// MaxTextureUnits is the number of texture binding points on a Device.
const MaxTextureUnits = 4

// DrawStats counts work done since the last Clear.
type DrawStats struct {
	DrawCalls int
	Triangles int // triangles that reached the rasterizer after culling and clipping
	Fragments int // fragments written
}

// Device is the software counterpart of a GL context: it holds the render
// targets, the program in use and the texture units.
type Device struct {
	fb      *Framebuffer
	depth   []float64
	program *Program
	units   [MaxTextureUnits]*Texture

	// Wireframe draws triangle edges instead of filling them.
	Wireframe bool

	stats DrawStats
}

// NewDevice creates a device with width x height targets.
func NewDevice(width, height int) *Device {
	d := &Device{}
	d.Resize(width, height)
	return d
}

// Resize reallocates the targets. Contents are lost.
func (d *Device) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	d.fb = NewFramebuffer(width, height)
	d.depth = make([]float64, width*height)
	d.clearDepth()
}

// Size returns the target dimensions in pixels.
func (d *Device) Size() (width, height int) {
	return d.fb.Width, d.fb.Height
}

// Framebuffer returns the color target.
func (d *Device) Framebuffer() *Framebuffer { return d.fb }

// Clear fills the color target with c, resets depth to far and zeroes the
// stats.
func (d *Device) Clear(c color.RGBA) {
	d.fb.Clear(c)
	d.clearDepth()
	d.stats = DrawStats{}
}

// Stats returns the counters since the last Clear.
func (d *Device) Stats() DrawStats { return d.stats }

func (d *Device) clearDepth() {
	n := len(d.depth)
	if n == 0 {
		return
	}
	d.depth[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(d.depth[i:], d.depth[:i])
	}
}

// BindTexture binds t to unit. A nil t unbinds. Invalid units are ignored.
func (d *Device) BindTexture(unit int, t *Texture) {
	if unit < 0 || unit >= MaxTextureUnits {
		return
	}
	d.units[unit] = t
}

// texture returns the texture bound to unit, or nil.
func (d *Device) texture(unit int) *Texture {
	if unit < 0 || unit >= MaxTextureUnits {
		return nil
	}
	return d.units[unit]
}

// NewProgram creates a program with the default key light.
func (d *Device) NewProgram() *Program {
	return &Program{
		dev:   d,
		model: math3d.Identity(),
		view:  math3d.Identity(),
		proj:  math3d.Identity(),
		light: DefaultLightDir(),
	}
}

// NewMesh wraps m for drawing on d. The mesh must not be modified afterwards.
func (d *Device) NewMesh(m *models.Mesh) *Mesh {
	return &Mesh{dev: d, src: m}
}

// ToRGBA converts a linear 0..1 color to 8-bit, clamping each channel.
func ToRGBA(c math3d.Vec3) color.RGBA {
	return color.RGBA{channel(c.X), channel(c.Y), channel(c.Z), 255}
}

func channel(v float64) uint8 {
	switch {
	case v >= 1:
		return 255
	case v > 0:
		return uint8(v*255 + 0.5)
	default:
		return 0
	}
}
