package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/lucasb-eyer/go-colorful"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// DrawText writes s on terminal row y starting at column x. Cells that fall
// outside the screen are skipped. A zero bg keeps the framebuffer colour
// that is already under the text.
func DrawText(scr uv.Screen, x, y int, s string, fg, bg Color) {
	bounds := scr.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for _, ch := range s {
		if x >= bounds.Max.X {
			return
		}
		if x >= bounds.Min.X {
			back := rgbaToColor(bg)
			if back == nil {
				if under := scr.CellAt(x, y); under != nil {
					back = under.Style.Bg
				}
			}
			scr.SetCell(x, y, &uv.Cell{
				Content: string(ch),
				Width:   1,
				Style:   uv.Style{Fg: rgbaToColor(fg), Bg: back},
			})
		}
		x++
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
	ColorFelt  = color.RGBA{18, 52, 36, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// ColorFromFloat converts an RGBA material colour in the 0-1 range.
func ColorFromFloat(c [4]float64) Color {
	return color.RGBA{unit8(c[0]), unit8(c[1]), unit8(c[2]), unit8(c[3])}
}

// ColorFromColorful converts a go-colorful colour, clamping it into gamut.
func ColorFromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// ColorToColorful converts c for blending in perceptual colour spaces.
// Alpha is dropped.
func ColorToColorful(c Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// ParseHex parses a "#rrggbb" colour.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return ColorFromColorful(c), nil
}

// Shade scales the RGB channels of c by intensity, keeping alpha.
func Shade(c Color, intensity float64) Color {
	return color.RGBA{
		unit8(float64(c.R) / 255 * intensity),
		unit8(float64(c.G) / 255 * intensity),
		unit8(float64(c.B) / 255 * intensity),
		c.A,
	}
}

// Contrast returns black or white, whichever reads better on c.
func Contrast(c Color) Color {
	if _, _, l := ColorToColorful(c).Hcl(); l > 0.6 {
		return ColorBlack
	}
	return ColorWhite
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
