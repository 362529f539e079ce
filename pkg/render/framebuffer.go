// Package render draws the die with a z-buffered software rasterizer into a
// framebuffer that can be shown on a terminal or saved as a PNG.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Framebuffer is a row-major pixel grid. On a terminal every cell shows two
// pixels stacked with a half block, so Height is twice the row count.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
}

// NewFramebuffer creates a width x height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Resize changes the dimensions, reusing the pixel slice when it is large
// enough. Contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width, fb.Height = width, height
	if n := width * height; cap(fb.Pixels) >= n {
		fb.Pixels = fb.Pixels[:n]
	} else {
		fb.Pixels = make([]Color, n)
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Clear fills the framebuffer with c.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for filled := 1; filled < len(fb.Pixels); filled *= 2 {
		copy(fb.Pixels[filled:], fb.Pixels[:filled])
	}
}

// ClearGradient fills the framebuffer with a vertical blend from top to
// bottom, mixed in Lab space so the table shading stays even.
func (fb *Framebuffer) ClearGradient(top, bottom Color) {
	if fb.Height < 2 {
		fb.Clear(top)
		return
	}
	a, b := ColorToColorful(top), ColorToColorful(bottom)
	for y := range fb.Height {
		row := ColorFromColorful(a.BlendLab(b, float64(y)/float64(fb.Height-1)))
		line := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x := range line {
			line[x] = row
		}
	}
}

// SetPixel sets (x, y) to c. Out of bounds writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if fb.inBounds(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel returns the colour at (x, y), or transparent black out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.inBounds(x, y) {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a Bresenham line between two pixel positions, both ends
// included.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y1-y0, 1
	if dy < 0 {
		dy, sy = -dy, -1
	}

	err := dx - dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// ToImage copies the framebuffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		o := i * 4
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = p.R, p.G, p.B, p.A
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
