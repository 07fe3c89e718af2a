// Package render is a small software implementation of the scene graphics
// interfaces. A Device owns color and depth targets; programs, meshes and
// textures created from it draw into those targets the way a GL context
// would.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// The terminal backend uses double vertical resolution through half-block
// characters, so Height is twice the row count.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // row-major, y=0 at the top
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// Copy-doubling fill.
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y). Out of bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
