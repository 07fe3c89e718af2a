package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw implements uv.Drawable. Each terminal row shows two framebuffer rows
// as an upper half block with fg=top and bg=bottom.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, topY)),
					Bg: cellColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor maps transparent pixels to the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
