package render

import (
	"math"

	"github.com/taigrr/d20/pkg/math3d"
)

// DefaultElevation tilts the camera above the table so the top face is
// in view.
const DefaultElevation = math.Pi / 9

// Camera is a perspective camera aimed at a target point, usually the die's
// centre.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near, Far   float64

	view, proj, viewProj math3d.Mat4
	dirty                bool
}

// NewCamera creates a camera at (0, 0, 4) looking down -Z at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 4),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		dirty:       true,
	}
}

// SetPosition moves the camera without changing its target.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.dirty = true
}

// LookAt aims the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.dirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.dirty = true
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.dirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
	c.dirty = true
}

// Orbit places the camera distance units from target, raised by elevation
// radians above the horizontal, and aims it at target.
func (c *Camera) Orbit(target math3d.Vec3, distance, elevation float64) {
	offset := math3d.V3(0, math.Sin(elevation), math.Cos(elevation)).Scale(distance)
	c.Position = target.Add(offset)
	c.Target = target
	c.dirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// up picks a view up vector that is never parallel to the view direction.
func (c *Camera) up() math3d.Vec3 {
	if math.Abs(c.Forward().Y) > 0.999 {
		return math3d.V3(0, 0, -1)
	}
	return math3d.Up()
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	c.view = math3d.LookAt(c.Position, c.Target, c.up())
	c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.viewProj = c.proj.Mul(c.view)
	c.dirty = false
}

// ViewMatrix returns the world to camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.update()
	return c.view
}

// ProjectionMatrix returns the camera to clip space transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.proj
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.viewProj
}

// WorldToScreen projects a world point to pixel coordinates on a
// width x height target. depth is NDC z, smaller is nearer. visible is false
// behind the camera or outside the view volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, ndc.Z, true
}

// BoundedMeshRenderer is a mesh that reports its bounding box.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// FitDistance returns the camera distance at which the mesh's bounding
// sphere fills the vertical field of view, plus margin as a fraction.
func (c *Camera) FitDistance(mesh BoundedMeshRenderer, margin float64) float64 {
	lo, hi := mesh.GetBounds()
	radius := hi.Sub(lo).Len() / 2
	if radius == 0 {
		return c.Near
	}
	return radius / math.Sin(c.FOV/2) * (1 + margin)
}
