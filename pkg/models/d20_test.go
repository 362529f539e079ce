package models

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestBuildGeometryVerticesOnUnitSphere(t *testing.T) {
	g := BuildGeometry()
	for i, v := range g.Vertices {
		if math.Abs(v.Len()-1) > 1e-12 {
			t.Errorf("vertex %d has radius %v, want 1", i, v.Len())
		}
	}
}

func TestBuildGeometryNormalsOutward(t *testing.T) {
	g := BuildGeometry()
	for i, n := range g.Normals {
		if math.Abs(n.Len()-1) > 1e-12 {
			t.Errorf("normal %d has length %v", i, n.Len())
		}
		if d := n.Dot(g.FaceCentroid(i)); d <= 0 {
			t.Errorf("normal %d points inward: dot with centroid = %v", i, d)
		}
	}
}

func TestBuildGeometryFacesAreEquilateral(t *testing.T) {
	g := BuildGeometry()
	edge := g.Vertices[0].Distance(g.Vertices[1])
	for i, f := range g.Faces {
		for k := range 3 {
			a, b := g.Vertices[f[k]], g.Vertices[f[(k+1)%3]]
			if d := a.Distance(b); math.Abs(d-edge) > 1e-12 {
				t.Errorf("face %d edge %d has length %v, want %v", i, k, d, edge)
			}
		}
	}
}

func TestBuildGeometryEveryEdgeSharedTwice(t *testing.T) {
	g := BuildGeometry()
	directed := make(map[[2]int]int)
	for _, f := range g.Faces {
		for k := range 3 {
			directed[[2]int{f[k], f[(k+1)%3]}]++
		}
	}

	if len(directed) != 60 {
		t.Fatalf("got %d directed edges, want 60", len(directed))
	}
	for e, n := range directed {
		if n != 1 {
			t.Errorf("directed edge %v used %d times", e, n)
		}
		if directed[[2]int{e[1], e[0]}] != 1 {
			t.Errorf("edge %v has no opposite twin", e)
		}
	}
}

func TestFaceLabelsArePermutation(t *testing.T) {
	seen := make(map[int]bool)
	for _, l := range FaceLabels {
		if l < 1 || l > 20 {
			t.Errorf("label %d out of range", l)
		}
		if seen[l] {
			t.Errorf("label %d repeated", l)
		}
		seen[l] = true
	}
	if len(seen) != FaceCount {
		t.Errorf("got %d distinct labels, want %d", len(seen), FaceCount)
	}
}

func TestFaceForLabel(t *testing.T) {
	g := BuildGeometry()
	if got := g.FaceForLabel(20); got != 0 {
		t.Errorf("FaceForLabel(20) = %d, want 0", got)
	}
	if got := g.FaceForLabel(9); got != 19 {
		t.Errorf("FaceForLabel(9) = %d, want 19", got)
	}
	if got := g.FaceForLabel(21); got != -1 {
		t.Errorf("FaceForLabel(21) = %d, want -1", got)
	}
}

func TestGeometryExportArrays(t *testing.T) {
	g := BuildGeometry()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"vertices", len(g.VertexArray()), 12 * 3},
		{"indices", len(g.IndexArray()), 20 * 3},
		{"face normals", len(g.FaceNormalArray()), 20 * 3},
		{"flat normals", len(g.FlatNormalArray()), 60 * 3},
		{"uvs", len(g.UVArray()), 12 * 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	flat := g.FlatNormalArray()
	for face := range FaceCount {
		n := g.Normals[face].Float32()
		for corner := range 3 {
			off := (face*3 + corner) * 3
			if flat[off] != n[0] || flat[off+1] != n[1] || flat[off+2] != n[2] {
				t.Fatalf("flat normal for face %d corner %d does not match face normal", face, corner)
			}
		}
	}

	idx := g.IndexArray()
	if idx[0] != 0 || idx[1] != 1 || idx[2] != 4 {
		t.Errorf("first face = %v, want [0 1 4]", idx[:3])
	}
}

func TestVertexUVsOnCircle(t *testing.T) {
	g := BuildGeometry()
	for i, uv := range g.VertexUVs {
		r := math.Hypot(uv.X-0.5, uv.Y-0.5)
		if math.Abs(r-0.5) > 1e-12 {
			t.Errorf("uv %d at radius %v, want 0.5", i, r)
		}
	}
	if g.VertexUVs[0].X != 1 || g.VertexUVs[0].Y != 0.5 {
		t.Errorf("uv 0 = %v, want (1, 0.5)", g.VertexUVs[0])
	}
}

func TestGeometryMesh(t *testing.T) {
	g := BuildGeometry()
	hues := AssignHues(rand.New(rand.NewPCG(1, 2)))
	mesh := g.Mesh(hues)

	if mesh.VertexCount() != 60 {
		t.Errorf("VertexCount = %d, want 60", mesh.VertexCount())
	}
	if mesh.TriangleCount() != FaceCount {
		t.Errorf("TriangleCount = %d, want %d", mesh.TriangleCount(), FaceCount)
	}
	if len(mesh.Materials) != FaceCount {
		t.Errorf("Materials = %d, want %d", len(mesh.Materials), FaceCount)
	}

	for i, f := range mesh.Faces {
		if f.Label != g.Labels[i] {
			t.Errorf("face %d label = %d, want %d", i, f.Label, g.Labels[i])
		}
		n := mesh.FaceNormal(i)
		if n.Sub(g.Normals[i]).Len() > 1e-12 {
			t.Errorf("face %d winding normal %v differs from geometry normal %v", i, n, g.Normals[i])
		}
		for corner, vi := range f.V {
			v := mesh.Vertices[vi]
			if v.Normal != g.Normals[i] {
				t.Errorf("face %d corner %d normal not replicated", i, corner)
			}
			if v.UV != FaceTexCoords[corner] {
				t.Errorf("face %d corner %d uv = %v, want %v", i, corner, v.UV, FaceTexCoords[corner])
			}
		}
		want := hues.Color(i)
		got := mesh.FaceColor(i, [4]float64{})
		if got != [4]float64{want.R, want.G, want.B, 1} {
			t.Errorf("face %d colour = %v, want %v", i, got, want)
		}
	}

	if c := mesh.Center(); c.Len() > 1e-12 {
		t.Errorf("Center = %v, want origin", c)
	}
}

func BenchmarkBuildGeometry(b *testing.B) {
	for b.Loop() {
		_ = BuildGeometry()
	}
}
