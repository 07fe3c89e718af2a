package glrender

import (
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/meadow/pkg/scene"
)

// Texture is a mipmapped RGBA texture.
type Texture struct {
	id            uint32
	width, height int
}

// NewTexture uploads img, flipped so that v=0 is the bottom row.
func (c *Context) NewTexture(img image.Image) *Texture {
	pix := flipNRGBA(img)
	b := pix.Bounds()
	t := &Texture{width: b.Dx(), height: b.Dy()}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.width), int32(t.height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	t.setWrap(scene.WrapRepeat)
	c.own(t)
	return t
}

// flipNRGBA converts img to tightly packed, non-premultiplied RGBA with its
// rows reversed.
func flipNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		row := b.Dy() - 1 - y
		for x := range b.Dx() {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetNRGBA(x, row, c)
		}
	}
	return out
}

// Bind implements scene.Texture.
func (t *Texture) Bind(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// SetWrapMode implements scene.Texture.
func (t *Texture) SetWrapMode(mode scene.WrapMode) {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	t.setWrap(mode)
}

func (t *Texture) setWrap(mode scene.WrapMode) {
	w := glWrap(mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, w)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, w)
}

func glWrap(mode scene.WrapMode) int32 {
	switch mode {
	case scene.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	case scene.WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	default:
		return gl.REPEAT
	}
}

// Delete frees the texture.
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.id)
}
