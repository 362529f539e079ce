package render

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestColorFromFloat(t *testing.T) {
	tests := []struct {
		in   [4]float64
		want Color
	}{
		{[4]float64{1, 1, 1, 1}, ColorWhite},
		{[4]float64{0, 0, 0, 1}, ColorBlack},
		{[4]float64{0.5, 2, -1, 1}, RGB(128, 255, 0)},
	}
	for _, tc := range tests {
		if got := ColorFromFloat(tc.in); got != tc.want {
			t.Errorf("ColorFromFloat(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestColorFromColorful(t *testing.T) {
	c := colorful.Hsv(0, 1, 1)
	if got := ColorFromColorful(c); got != RGB(255, 0, 0) {
		t.Errorf("red = %v", got)
	}
}

func TestParseHex(t *testing.T) {
	got, err := ParseHex("#123424")
	if err != nil {
		t.Fatal(err)
	}
	if got != RGB(0x12, 0x34, 0x24) {
		t.Errorf("ParseHex = %v", got)
	}
	if _, err := ParseHex("felt"); err == nil {
		t.Error("expected error for malformed colour")
	}
}

func TestShade(t *testing.T) {
	if got := Shade(ColorWhite, 1); got != ColorWhite {
		t.Errorf("Shade(white, 1) = %v", got)
	}
	if got := Shade(ColorWhite, 0); got != ColorBlack {
		t.Errorf("Shade(white, 0) = %v", got)
	}
	if got := Shade(RGB(200, 100, 0), 0.5); got != RGB(100, 50, 0) {
		t.Errorf("Shade half = %v", got)
	}
}

func TestContrast(t *testing.T) {
	if Contrast(ColorWhite) != ColorBlack {
		t.Error("white background should get black text")
	}
	if Contrast(RGB(20, 20, 60)) != ColorWhite {
		t.Error("dark background should get white text")
	}
}
