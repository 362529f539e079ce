package render

import (
	"math"
	"sort"

	"github.com/taigrr/d20/pkg/math3d"
)

// DefaultAmbient is the light every face receives regardless of direction.
const DefaultAmbient = 0.3

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64 // Depth buffer (1D array, row-major)
	Ambient                float64   // Ambient term of the lighting model
	DisableBackfaceCulling bool      // If true, render both sides of triangles
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:  camera,
		fb:      fb,
		Ambient: DefaultAmbient,
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Camera returns the camera used for projection.
func (r *Rasterizer) Camera() *Camera {
	return r.camera
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // Depth (for Z-buffer)
	W    float64 // Clip W, <= 0 means behind the camera
}

// project transforms a world point to screen space.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) screenVertex {
	clip := viewProj.MulVec4(math3d.Point(p))
	sv := screenVertex{W: clip.W}
	if clip.W != 0 {
		sv.X = clip.X / clip.W
		sv.Y = clip.Y / clip.W
		sv.Z = clip.Z / clip.W
	}
	sv.X = (sv.X + 1) * 0.5 * float64(r.Width())
	sv.Y = (1 - sv.Y) * 0.5 * float64(r.Height()) // Y flipped
	return sv
}

// facesCamera reports whether the triangle's front side, by its winding,
// points toward the camera.
func (r *Rasterizer) facesCamera(v0, v1, v2 math3d.Vec3) bool {
	normal := v1.Sub(v0).Cross(v2.Sub(v0))
	return normal.Dot(r.camera.Position.Sub(v0)) > 0
}

// DrawTriangleFlat draws a triangle with flat shading (single color).
func (r *Rasterizer) DrawTriangleFlat(v0, v1, v2 math3d.Vec3, color Color) {
	if !r.DisableBackfaceCulling && !r.facesCamera(v0, v1, v2) {
		return
	}

	viewProj := r.camera.ViewProjectionMatrix()
	sv := [3]screenVertex{
		r.project(viewProj, v0),
		r.project(viewProj, v1),
		r.project(viewProj, v2),
	}

	// Skip if any corner is behind the camera; the die never straddles it.
	if sv[0].W <= 0 || sv[1].W <= 0 || sv[2].W <= 0 {
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, color)
		}
	}
}

// DrawTriangleLit draws a triangle with simple directional lighting.
// lightDir points from the surface toward the light.
func (r *Rasterizer) DrawTriangleLit(v0, v1, v2 math3d.Vec3, baseColor Color, lightDir math3d.Vec3) {
	normal := math3d.TriangleNormal(v0, v1, v2)
	r.DrawTriangleFlat(v0, v1, v2, Shade(baseColor, r.intensity(normal, lightDir)))
}

// intensity is the ambient plus Lambert diffuse term for a unit normal.
func (r *Rasterizer) intensity(normal, lightDir math3d.Vec3) float64 {
	diffuse := math.Max(0, normal.Dot(lightDir.Normalize()))
	return r.Ambient + (1-r.Ambient)*diffuse
}

// MeshRenderer is the view of a mesh the rasterizer needs. It keeps this
// package independent of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// FaceColorer is a mesh with a colour per face.
type FaceColorer interface {
	FaceColor(i int, fallback [4]float64) [4]float64
}

// LabeledMeshRenderer is a mesh with a number printed on each face.
type LabeledMeshRenderer interface {
	MeshRenderer
	FaceLabel(i int) int
}

// faceWorld returns the corners of face i after transform.
func faceWorld(mesh MeshRenderer, transform math3d.Mat4, i int) (v0, v1, v2 math3d.Vec3) {
	face := mesh.GetFace(i)
	p0, _, _ := mesh.GetVertex(face[0])
	p1, _, _ := mesh.GetVertex(face[1])
	p2, _, _ := mesh.GetVertex(face[2])
	return transform.MulVec3(p0), transform.MulVec3(p1), transform.MulVec3(p2)
}

// DrawMesh renders a mesh with the given transform. Faces take their colour
// from the mesh when it implements FaceColorer and fall back to color.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	colorer, perFace := mesh.(FaceColorer)
	fallback := [4]float64{
		float64(color.R) / 255,
		float64(color.G) / 255,
		float64(color.B) / 255,
		float64(color.A) / 255,
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		v0, v1, v2 := faceWorld(mesh, transform, i)
		base := color
		if perFace {
			base = ColorFromFloat(colorer.FaceColor(i, fallback))
		}
		r.DrawTriangleLit(v0, v1, v2, base, lightDir)
	}
}

// DrawMeshWireframe renders a mesh as wireframe.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	for i := 0; i < mesh.TriangleCount(); i++ {
		v0, v1, v2 := faceWorld(mesh, transform, i)
		r.drawLine3D(v0, v1, color)
		r.drawLine3D(v1, v2, color)
		r.drawLine3D(v2, v0, color)
	}
}

// drawLine3D draws a 3D line (projected to screen).
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()
	sa := r.project(viewProj, a)
	sb := r.project(viewProj, b)

	// Skip if both behind camera
	if sa.W <= 0 && sb.W <= 0 {
		return
	}

	r.fb.DrawLine(int(sa.X), int(sa.Y), int(sb.X), int(sb.Y), color)
}

// FaceAnchor is the screen position of a face centre, used to print the
// face number over the rendered die.
type FaceAnchor struct {
	Face   int
	Label  int
	X, Y   int     // Framebuffer pixel
	Depth  float64 // NDC depth, smaller is nearer
	Facing float64 // Cosine between face normal and view direction
}

// FaceAnchors projects the centre of every face that points toward the
// camera, nearest first.
func (r *Rasterizer) FaceAnchors(mesh LabeledMeshRenderer, transform math3d.Mat4) []FaceAnchor {
	var anchors []FaceAnchor
	for i := 0; i < mesh.TriangleCount(); i++ {
		v0, v1, v2 := faceWorld(mesh, transform, i)
		centroid := math3d.Centroid(v0, v1, v2)
		normal := math3d.TriangleNormal(v0, v1, v2)
		facing := normal.Dot(r.camera.Position.Sub(centroid).Normalize())
		if facing <= 0 {
			continue
		}

		x, y, depth, ok := r.camera.WorldToScreen(centroid, r.Width(), r.Height())
		if !ok {
			continue
		}
		anchors = append(anchors, FaceAnchor{
			Face:   i,
			Label:  mesh.FaceLabel(i),
			X:      int(x),
			Y:      int(y),
			Depth:  depth,
			Facing: facing,
		})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Depth < anchors[j].Depth })
	return anchors
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		// Degenerate triangle covers no pixels.
		return math3d.V3(-1, -1, -1)
	}
	invDenom := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
