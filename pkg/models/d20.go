package models

import (
	"fmt"
	"math"

	"github.com/taigrr/d20/pkg/math3d"
)

// Icosahedron vertex coordinates for a unit circumradius.
const (
	icoX = 0.525731112119133606
	icoZ = 0.850650808352039932
)

// Counts of the D20 geometry.
const (
	VertexCount = 12
	FaceCount   = 20
)

// FaceLabels maps face index to the number printed on that face.
var FaceLabels = [FaceCount]int{20, 1, 18, 4, 13, 6, 11, 8, 15, 10, 17, 2, 19, 3, 16, 5, 14, 7, 12, 9}

// FaceTexCoords are the texture coordinates of the three corners of every face.
var FaceTexCoords = [3]math3d.Vec2{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0.5, Y: 1}}

var icoVertices = [VertexCount]math3d.Vec3{
	{X: -icoX, Y: 0, Z: icoZ}, {X: icoX, Y: 0, Z: icoZ}, {X: -icoX, Y: 0, Z: -icoZ}, {X: icoX, Y: 0, Z: -icoZ},
	{X: 0, Y: icoZ, Z: icoX}, {X: 0, Y: icoZ, Z: -icoX}, {X: 0, Y: -icoZ, Z: icoX}, {X: 0, Y: -icoZ, Z: -icoX},
	{X: icoZ, Y: icoX, Z: 0}, {X: -icoZ, Y: icoX, Z: 0}, {X: icoZ, Y: -icoX, Z: 0}, {X: -icoZ, Y: -icoX, Z: 0},
}

// Counter-clockwise seen from outside.
var icoFaces = [FaceCount][3]int{
	{0, 1, 4}, {0, 4, 9}, {9, 4, 5}, {4, 8, 5}, {4, 1, 8},
	{8, 1, 10}, {8, 10, 3}, {5, 8, 3}, {5, 3, 2}, {2, 3, 7},
	{7, 3, 10}, {7, 10, 6}, {7, 6, 11}, {11, 6, 0}, {0, 6, 1},
	{6, 10, 1}, {9, 11, 0}, {9, 2, 11}, {9, 5, 2}, {7, 11, 2},
}

// Geometry is the immutable D20 description shared by the physics core and
// renderers. Normals[i] belongs to Faces[i] and Labels[i] is printed on it.
type Geometry struct {
	Vertices  [VertexCount]math3d.Vec3
	Faces     [FaceCount][3]int
	Normals   [FaceCount]math3d.Vec3
	Labels    [FaceCount]int
	VertexUVs [VertexCount]math3d.Vec2
}

// BuildGeometry returns the regular icosahedron with flat outward normals.
func BuildGeometry() Geometry {
	g := Geometry{
		Vertices: icoVertices,
		Faces:    icoFaces,
		Labels:   FaceLabels,
	}

	for i, f := range g.Faces {
		v1, v2, v3 := g.Vertices[f[0]], g.Vertices[f[1]], g.Vertices[f[2]]
		g.Normals[i] = math3d.TriangleNormal(v1, v2, v3)
	}

	for i := range g.VertexUVs {
		a := 2 * math.Pi * float64(i) / VertexCount
		g.VertexUVs[i] = math3d.V2(math.Cos(a)*0.5+0.5, math.Sin(a)*0.5+0.5)
	}

	return g
}

// FaceNormals returns the face normals as a slice, in face order.
func (g *Geometry) FaceNormals() []math3d.Vec3 {
	return g.Normals[:]
}

// LabelSlice returns the face labels as a slice, in face order.
func (g *Geometry) LabelSlice() []int {
	return g.Labels[:]
}

// FaceCentroid returns the centre of face i.
func (g *Geometry) FaceCentroid(i int) math3d.Vec3 {
	f := g.Faces[i]
	return math3d.Centroid(g.Vertices[f[0]], g.Vertices[f[1]], g.Vertices[f[2]])
}

// FaceForLabel returns the face index carrying label, or -1.
func (g *Geometry) FaceForLabel(label int) int {
	for i, l := range g.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// VertexArray returns the 12 vertex positions flattened to x,y,z triples.
func (g *Geometry) VertexArray() []float32 {
	out := make([]float32, 0, VertexCount*3)
	for _, v := range g.Vertices {
		p := v.Float32()
		out = append(out, p[:]...)
	}
	return out
}

// IndexArray returns the 20 faces flattened to vertex index triples.
func (g *Geometry) IndexArray() []uint32 {
	out := make([]uint32, 0, FaceCount*3)
	for _, f := range g.Faces {
		out = append(out, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return out
}

// FaceNormalArray returns one normal per face, flattened.
func (g *Geometry) FaceNormalArray() []float32 {
	out := make([]float32, 0, FaceCount*3)
	for _, n := range g.Normals {
		p := n.Float32()
		out = append(out, p[:]...)
	}
	return out
}

// FlatNormalArray returns the face normal replicated for each of the face's
// three corners, in face order (60 normals). Paired with an unwelded vertex
// buffer this gives flat lighting.
func (g *Geometry) FlatNormalArray() []float32 {
	out := make([]float32, 0, FaceCount*3*3)
	for _, n := range g.Normals {
		p := n.Float32()
		for range 3 {
			out = append(out, p[:]...)
		}
	}
	return out
}

// UVArray returns the per-vertex circle UVs flattened to u,v pairs.
func (g *Geometry) UVArray() []float32 {
	out := make([]float32, 0, VertexCount*2)
	for _, uv := range g.VertexUVs {
		p := uv.Float32()
		out = append(out, p[:]...)
	}
	return out
}

// Mesh builds the unwelded render mesh: three vertices per face carrying the
// face normal and per-face texture coordinates, and one material per face
// coloured from hues.
func (g *Geometry) Mesh(hues HueAssignment) *Mesh {
	mesh := NewMesh("d20")
	mesh.Vertices = make([]MeshVertex, 0, FaceCount*3)
	mesh.Faces = make([]Face, 0, FaceCount)
	mesh.Materials = make([]Material, 0, FaceCount)

	for i, f := range g.Faces {
		base := len(mesh.Vertices)
		for corner, vi := range f {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: g.Vertices[vi],
				Normal:   g.Normals[i],
				UV:       FaceTexCoords[corner],
			})
		}

		c := hues.Color(i)
		mesh.Materials = append(mesh.Materials, Material{
			Name:      fmt.Sprintf("face-%d", g.Labels[i]),
			BaseColor: [4]float64{c.R, c.G, c.B, 1},
		})
		mesh.Faces = append(mesh.Faces, Face{
			V:        [3]int{base, base + 1, base + 2},
			Material: i,
			Label:    g.Labels[i],
		})
	}

	mesh.CalculateBounds()
	return mesh
}
