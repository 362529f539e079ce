package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/d20/pkg/math3d"
	"github.com/taigrr/d20/pkg/models"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	positions []math3d.Vec3
	faces     [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.positions) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	return m.positions[i], math3d.Vec3{}, math3d.Vec2{}
}

// createTestRasterizer creates a rasterizer with the camera on +Z looking at
// the origin.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	camera := NewCamera()
	camera.SetPosition(math3d.V3(0, 0, 10))
	camera.LookAt(math3d.Zero3())
	camera.SetAspectRatio(float64(width) / float64(height))
	camera.SetFOV(math.Pi / 3)
	rasterizer := NewRasterizer(camera, fb)
	rasterizer.ClearDepth()
	return rasterizer, fb
}

func testDieMesh() *models.Mesh {
	geom := models.BuildGeometry()
	return geom.Mesh(models.AssignHues(rand.New(rand.NewPCG(1, 2))))
}

func countDrawn(fb *Framebuffer) int {
	n := 0
	for _, p := range fb.Pixels {
		if p.A != 0 {
			n++
		}
	}
	return n
}

func TestBarycentric(t *testing.T) {
	tests := []struct {
		name     string
		px, py   float64
		expected math3d.Vec3
	}{
		{"vertex 0", 0, 0, math3d.V3(1, 0, 0)},
		{"vertex 1", 1, 0, math3d.V3(0, 1, 0)},
		{"vertex 2", 0, 1, math3d.V3(0, 0, 1)},
		{"centroid", 1.0 / 3, 1.0 / 3, math3d.V3(1.0/3, 1.0/3, 1.0/3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Triangle: (0,0), (1,0), (0,1)
			bc := barycentric(0, 0, 1, 0, 0, 1, tc.px, tc.py)

			if math.Abs(bc.X-tc.expected.X) > 0.001 ||
				math.Abs(bc.Y-tc.expected.Y) > 0.001 ||
				math.Abs(bc.Z-tc.expected.Z) > 0.001 {
				t.Errorf("barycentric(%v, %v) = %v, want %v", tc.px, tc.py, bc, tc.expected)
			}
		})
	}

	t.Run("outside triangle", func(t *testing.T) {
		bc := barycentric(0, 0, 1, 0, 0, 1, -1, -1)
		if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
			t.Error("point outside triangle should have negative barycentric coordinate")
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		bc := barycentric(0, 0, 1, 1, 2, 2, 1, 1)
		if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
			t.Error("degenerate triangle should cover no points")
		}
	})
}

func TestMin3Max3(t *testing.T) {
	if min3(1, 2, 3) != 1 || min3(3, 1, 2) != 1 || min3(2, 3, 1) != 1 {
		t.Error("min3 failed")
	}
	if max3(1, 2, 3) != 3 || max3(3, 1, 2) != 3 || max3(2, 3, 1) != 3 {
		t.Error("max3 failed")
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	r.setDepth(5, 5, 1.0)
	if r.getDepth(5, 5) != 1.0 {
		t.Error("setDepth/getDepth failed")
	}

	r.ClearDepth()
	if r.getDepth(5, 5) != math.MaxFloat64 {
		t.Error("ClearDepth should reset to MaxFloat64")
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	if r.getDepth(-1, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}
	if r.getDepth(100, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}

	// setDepth out of bounds should not panic
	r.setDepth(-1, 0, 1.0)
	r.setDepth(100, 0, 1.0)
}

func TestDrawTriangleFlat_Culling(t *testing.T) {
	// Counter-clockwise seen from +Z, so the front faces the camera.
	a, b, c := math3d.V3(-2, -2, 0), math3d.V3(2, -2, 0), math3d.V3(0, 2, 0)

	tests := []struct {
		name      string
		reversed  bool
		noCulling bool
		wantDrawn bool
	}{
		{"front facing", false, false, true},
		{"back facing culled", true, false, false},
		{"back facing without culling", true, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(60, 60)
			r.DisableBackfaceCulling = tc.noCulling
			if tc.reversed {
				r.DrawTriangleFlat(a, c, b, ColorWhite)
			} else {
				r.DrawTriangleFlat(a, b, c, ColorWhite)
			}
			if got := countDrawn(fb) > 0; got != tc.wantDrawn {
				t.Errorf("drawn = %v, want %v", got, tc.wantDrawn)
			}
		})
	}
}

func TestDrawTriangleFlat_DepthTest(t *testing.T) {
	red, blue := RGB(255, 0, 0), RGB(0, 0, 255)
	near := [3]math3d.Vec3{math3d.V3(-2, -2, 1), math3d.V3(2, -2, 1), math3d.V3(0, 2, 1)}
	far := [3]math3d.Vec3{math3d.V3(-3, -3, 0), math3d.V3(3, -3, 0), math3d.V3(0, 3, 0)}

	for _, nearFirst := range []bool{true, false} {
		r, fb := createTestRasterizer(60, 60)
		if nearFirst {
			r.DrawTriangleFlat(near[0], near[1], near[2], red)
			r.DrawTriangleFlat(far[0], far[1], far[2], blue)
		} else {
			r.DrawTriangleFlat(far[0], far[1], far[2], blue)
			r.DrawTriangleFlat(near[0], near[1], near[2], red)
		}
		if got := fb.GetPixel(30, 30); got != red {
			t.Errorf("nearFirst=%v: centre pixel = %v, want nearer red", nearFirst, got)
		}
	}
}

func TestDrawTriangleLit(t *testing.T) {
	a, b, c := math3d.V3(-2, -2, 0), math3d.V3(2, -2, 0), math3d.V3(0, 2, 0)

	r, fb := createTestRasterizer(60, 60)
	r.DrawTriangleLit(a, b, c, ColorWhite, math3d.V3(0, 0, 1))
	if got := fb.GetPixel(30, 30); got != ColorWhite {
		t.Errorf("fully lit pixel = %v, want white", got)
	}

	r, fb = createTestRasterizer(60, 60)
	r.DrawTriangleLit(a, b, c, ColorWhite, math3d.V3(0, 0, -1))
	want := Shade(ColorWhite, DefaultAmbient)
	if got := fb.GetPixel(30, 30); got != want {
		t.Errorf("unlit pixel = %v, want ambient %v", got, want)
	}
}

func TestDrawMesh_PerFaceColors(t *testing.T) {
	r, fb := createTestRasterizer(120, 120)
	mesh := testDieMesh()
	r.DrawMesh(mesh, math3d.ScaleUniform(3), ColorGray, math3d.V3(0, 0, 1))

	colors := make(map[Color]bool)
	for _, p := range fb.Pixels {
		if p.A != 0 {
			colors[p] = true
		}
	}
	if len(colors) < 5 {
		t.Errorf("expected several face colours, got %d", len(colors))
	}
}

func TestDrawMesh_FallbackColor(t *testing.T) {
	r, fb := createTestRasterizer(60, 60)
	mesh := &mockMesh{
		positions: []math3d.Vec3{math3d.V3(-2, -2, 0), math3d.V3(2, -2, 0), math3d.V3(0, 2, 0)},
		faces:     [][3]int{{0, 1, 2}},
	}
	r.DrawMesh(mesh, math3d.Identity(), ColorWhite, math3d.V3(0, 0, 1))
	if got := fb.GetPixel(30, 30); got != ColorWhite {
		t.Errorf("pixel = %v, want fallback white", got)
	}
}

func TestDrawMeshWireframe(t *testing.T) {
	r, fb := createTestRasterizer(60, 60)
	r.DrawMeshWireframe(testDieMesh(), math3d.ScaleUniform(3), ColorWhite)
	if countDrawn(fb) == 0 {
		t.Error("wireframe should draw edges")
	}
	// Edges only, the centre of a face stays empty.
	if countDrawn(fb) > len(fb.Pixels)/2 {
		t.Error("wireframe filled too much of the frame")
	}
}

func TestFaceAnchors(t *testing.T) {
	r, _ := createTestRasterizer(120, 120)
	mesh := testDieMesh()
	anchors := r.FaceAnchors(mesh, math3d.ScaleUniform(3))

	if len(anchors) == 0 || len(anchors) >= models.FaceCount {
		t.Fatalf("got %d visible faces, want some but not all", len(anchors))
	}
	for i, a := range anchors {
		if a.Facing <= 0 {
			t.Errorf("anchor %d faces away: %v", i, a.Facing)
		}
		if a.Label != models.FaceLabels[a.Face] {
			t.Errorf("anchor %d label = %d, want %d", i, a.Label, models.FaceLabels[a.Face])
		}
		if a.X < 0 || a.X >= 120 || a.Y < 0 || a.Y >= 120 {
			t.Errorf("anchor %d off screen at (%d, %d)", i, a.X, a.Y)
		}
		if i > 0 && anchors[i-1].Depth > a.Depth {
			t.Errorf("anchors not sorted nearest first at %d", i)
		}
	}
}

func BenchmarkDrawDie(b *testing.B) {
	r, fb := createTestRasterizer(200, 200)
	mesh := testDieMesh()
	transform := math3d.Model(math3d.QuatFromEuler(0.3, 0.7, 0.1), 3, math3d.Zero3())
	light := math3d.V3(0.5, 1, 0.3)

	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.DrawMesh(mesh, transform, ColorGray, light)
	}
}

func BenchmarkFaceAnchors(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	mesh := testDieMesh()
	transform := math3d.ScaleUniform(3)

	for b.Loop() {
		_ = r.FaceAnchors(mesh, transform)
	}
}
