package render

import (
	"math"
	"testing"

	"github.com/taigrr/d20/pkg/math3d"
)

func TestCameraOrbit(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		elevation float64
	}{
		{"level", 4, 0},
		{"raised", 5, DefaultElevation},
		{"overhead", 3, math.Pi / 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera()
			cam.Orbit(math3d.Zero3(), tc.distance, tc.elevation)

			if d := cam.Position.Len(); math.Abs(d-tc.distance) > 1e-9 {
				t.Errorf("distance = %v, want %v", d, tc.distance)
			}
			want := cam.Position.Negate().Normalize()
			if got := cam.Forward(); got.Distance(want) > 1e-9 {
				t.Errorf("forward = %v, want %v", got, want)
			}

			x, y, _, ok := cam.WorldToScreen(math3d.Zero3(), 100, 100)
			if !ok || math.Abs(x-50) > 1e-6 || math.Abs(y-50) > 1e-6 {
				t.Errorf("target projects to (%v, %v, %v), want centre", x, y, ok)
			}
		})
	}
}

func TestCameraWorldToScreen_BehindCamera(t *testing.T) {
	cam := NewCamera()
	if _, _, _, ok := cam.WorldToScreen(math3d.V3(0, 0, 10), 100, 100); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestCameraFitDistance(t *testing.T) {
	cam := NewCamera()
	mesh := testDieMesh()
	d := cam.FitDistance(mesh, 0)

	// The die's bounding box half-diagonal must fill half the field of view.
	lo, hi := mesh.GetBounds()
	radius := hi.Sub(lo).Len() / 2
	if got := math.Asin(radius / d); math.Abs(got-cam.FOV/2) > 1e-9 {
		t.Errorf("half angle = %v, want %v", got, cam.FOV/2)
	}
	if cam.FitDistance(mesh, 0.2) <= d {
		t.Error("margin should move the camera back")
	}
}

func TestDolly(t *testing.T) {
	d := NewDolly(60, 4)

	d.Zoom(0.1)
	if d.Target != d.Min {
		t.Errorf("zoom in target = %v, want clamp %v", d.Target, d.Min)
	}
	d.Zoom(100)
	if d.Target != d.Max {
		t.Errorf("zoom out target = %v, want clamp %v", d.Target, d.Max)
	}

	d.Zoom(0.5)
	for range 120 {
		d.Update()
	}
	if math.Abs(d.Distance-d.Target) > 1e-3 {
		t.Errorf("distance = %v after 2s, want target %v", d.Distance, d.Target)
	}

	cam := NewCamera()
	d.Apply(cam, 0)
	if math.Abs(cam.Position.Len()-d.Distance) > 1e-9 {
		t.Errorf("camera distance = %v, want %v", cam.Position.Len(), d.Distance)
	}
}

func TestCameraStraightDown(t *testing.T) {
	cam := NewCamera()
	cam.Orbit(math3d.Zero3(), 4, math.Pi/2)

	m := cam.ViewMatrix()
	for i, v := range m {
		if math.IsNaN(v) {
			t.Fatalf("view matrix element %d is NaN", i)
		}
	}
	if _, _, _, ok := cam.WorldToScreen(math3d.Zero3(), 100, 100); !ok {
		t.Error("target should stay visible from overhead")
	}
}
