package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/taigrr/meadow/pkg/math3d"
	"github.com/taigrr/meadow/pkg/scene"
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping. Row 0 is v=0, the bottom of
// the source image.
type Texture struct {
	Width  int
	Height int
	Pixels []color.RGBA
	Wrap   scene.WrapMode
	Filter FilterMode

	dev *Device
}

// NewTexture creates an empty bilinear texture owned by d.
func (d *Device) NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Wrap:   scene.WrapRepeat,
		Filter: FilterBilinear,
		dev:    d,
	}
}

// TextureFromImage copies img into a texture, flipping it vertically so
// that v grows upward.
func (d *Device) TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	tex := d.NewTexture(width, height)

	for y := range height {
		row := height - 1 - y
		for x := range width {
			// Texels keep straight alpha so cutout edges are not darkened.
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			tex.Pixels[row*width+x] = color.RGBA{c.R, c.G, c.B, c.A}
		}
	}
	return tex
}

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP data.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode image: empty %dx%d image", b.Dx(), b.Dy())
	}
	return img, nil
}

// LoadImage opens and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImage(f)
}

// CheckerTexture creates a procedural checkerboard.
func (d *Device) CheckerTexture(size, check int, c1, c2 color.RGBA) *Texture {
	tex := d.NewTexture(size, size)
	check = max(check, 1)
	for y := range size {
		for x := range size {
			if (x/check+y/check)%2 == 0 {
				tex.Pixels[y*size+x] = c1
			} else {
				tex.Pixels[y*size+x] = c2
			}
		}
	}
	return tex
}

// Bind binds the texture to a unit of its device.
func (t *Texture) Bind(unit int) {
	if t.dev != nil {
		t.dev.BindTexture(unit, t)
	}
}

// SetWrapMode implements scene.Texture.
func (t *Texture) SetWrapMode(mode scene.WrapMode) { t.Wrap = mode }

// GetPixel returns the texel at (x, y), or transparent black out of bounds.
func (t *Texture) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return color.RGBA{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color (0..1 per channel) and alpha at uv.
func (t *Texture) Sample(u, v float64) (math3d.Vec3, float64) {
	if t.Width == 0 || t.Height == 0 {
		return math3d.V3(1, 1, 1), 1
	}

	var c [4]float64
	switch t.Filter {
	case FilterBilinear:
		c = t.sampleBilinear(u, v)
	default:
		c = t.sampleNearest(u, v)
	}
	return math3d.V3(c[0], c[1], c[2]), c[3]
}

// wrapCoord maps a texture coordinate into [0, 1].
func wrapCoord(coord float64, mode scene.WrapMode) float64 {
	switch mode {
	case scene.WrapMirroredRepeat:
		m := coord - 2*math.Floor(coord/2) // [0, 2)
		if m > 1 {
			m = 2 - m
		}
		return m
	case scene.WrapClampToEdge:
		return math.Max(0, math.Min(1, coord))
	default:
		return coord - math.Floor(coord)
	}
}

// wrapPixel maps a texel index into [0, size).
func wrapPixel(x, size int, mode scene.WrapMode) int {
	switch mode {
	case scene.WrapMirroredRepeat:
		period := 2 * size
		x %= period
		if x < 0 {
			x += period
		}
		if x >= size {
			x = period - 1 - x
		}
	case scene.WrapClampToEdge:
		x = min(max(x, 0), size-1)
	default:
		x %= size
		if x < 0 {
			x += size
		}
	}
	return x
}

func (t *Texture) sampleNearest(u, v float64) [4]float64 {
	u, v = wrapCoord(u, t.Wrap), wrapCoord(v, t.Wrap)
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return texel(t.GetPixel(x, y))
}

func (t *Texture) sampleBilinear(u, v float64) [4]float64 {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapPixel(x0+1, t.Width, t.Wrap)
	y1 := wrapPixel(y0+1, t.Height, t.Wrap)
	x0 = wrapPixel(x0, t.Width, t.Wrap)
	y0 = wrapPixel(y0, t.Height, t.Wrap)

	c00 := texel(t.GetPixel(x0, y0))
	c10 := texel(t.GetPixel(x1, y0))
	c01 := texel(t.GetPixel(x0, y1))
	c11 := texel(t.GetPixel(x1, y1))

	var out [4]float64
	for i := range out {
		top := c00[i] + (c10[i]-c00[i])*tx
		bot := c01[i] + (c11[i]-c01[i])*tx
		out[i] = top + (bot-top)*ty
	}
	return out
}

func texel(c color.RGBA) [4]float64 {
	return [4]float64{
		float64(c.R) / 255,
		float64(c.G) / 255,
		float64(c.B) / 255,
		float64(c.A) / 255,
	}
}
