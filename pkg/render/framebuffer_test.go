package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferSetGetPixel(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(1, 2, ColorWhite)
	if got := fb.GetPixel(1, 2); got != ColorWhite {
		t.Errorf("GetPixel = %v, want white", got)
	}

	// Out of bounds is ignored.
	fb.SetPixel(-1, 0, ColorWhite)
	fb.SetPixel(4, 0, ColorWhite)
	if got := fb.GetPixel(9, 9); got != (Color{}) {
		t.Errorf("out of bounds GetPixel = %v, want zero", got)
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.Resize(4, 6)
	if fb.Width != 4 || fb.Height != 6 || len(fb.Pixels) != 24 {
		t.Errorf("after shrink: %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	fb.Resize(20, 20)
	if len(fb.Pixels) != 400 {
		t.Errorf("after grow: %d pixels, want 400", len(fb.Pixels))
	}
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(0, 0, 9, 9, ColorWhite)
	for i := range 10 {
		if fb.GetPixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(8, 6)
	fb.Clear(ColorFelt)
	fb.SetPixel(3, 2, ColorWhite)

	path := filepath.Join(t.TempDir(), "die.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel (3,2) = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
}

func TestFramebufferSavePNG_BadPath(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "die.png")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFramebufferClearGradient(t *testing.T) {
	top, bottom := RGB(200, 40, 40), RGB(20, 20, 120)
	fb := NewFramebuffer(3, 5)
	fb.ClearGradient(top, bottom)

	if got := fb.GetPixel(1, 0); got != top {
		t.Errorf("top row = %v, want %v", got, top)
	}
	if got := fb.GetPixel(1, 4); got != bottom {
		t.Errorf("bottom row = %v, want %v", got, bottom)
	}
	if fb.GetPixel(0, 2) != fb.GetPixel(2, 2) {
		t.Error("rows should be uniform")
	}
	if mid := fb.GetPixel(0, 2); mid == top || mid == bottom {
		t.Errorf("middle row = %v, want a blend", mid)
	}
}

func TestFramebufferClear(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {1, 1}, {7, 3}, {16, 16}} {
		fb := NewFramebuffer(size[0], size[1])
		fb.Clear(ColorFelt)
		for i, p := range fb.Pixels {
			if p != ColorFelt {
				t.Fatalf("%dx%d: pixel %d = %v", size[0], size[1], i, p)
			}
		}
	}
}
