package main

import (
	"fmt"

	"github.com/taigrr/d20/internal/config"
	"github.com/taigrr/d20/pkg/math3d"
	"github.com/taigrr/d20/pkg/models"
	"github.com/taigrr/d20/pkg/render"
)

// wireColor is the edge colour of the x-ray view.
var wireColor = render.RGB(0, 255, 128)

// scene renders the die mesh at a given rotation.
type scene struct {
	mesh       *models.Mesh
	fb         *render.Framebuffer
	camera     *render.Camera
	raster     *render.Rasterizer
	dolly      *render.Dolly
	home       float64 // Initial camera distance
	elevation  float64
	background render.Color
	light      math3d.Vec3
	wireframe  bool
}

// newScene sets up a camera and rasterizer for a width x height pixel
// framebuffer.
func newScene(cfg config.ViewerConfig, mesh *models.Mesh, width, height int) (*scene, error) {
	bg, err := render.ParseHex(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	fb := render.NewFramebuffer(width, height)
	camera := render.NewCamera()
	camera.SetAspectRatio(float64(width) / float64(height))

	distance := cfg.Distance
	if distance == 0 {
		distance = camera.FitDistance(mesh, 0.15)
	}

	return &scene{
		mesh:       mesh,
		fb:         fb,
		camera:     camera,
		raster:     render.NewRasterizer(camera, fb),
		dolly:      render.NewDolly(cfg.FPS, distance),
		home:       distance,
		elevation:  math3d.Radians(cfg.Elevation),
		background: bg,
		light:      math3d.V3(0.5, 1, 0.3).Normalize(),
		wireframe:  cfg.Wireframe,
	}, nil
}

// resize matches the framebuffer to a new terminal size.
func (s *scene) resize(width, height int) {
	s.fb.Resize(width, height)
	s.raster.Resize()
	s.camera.SetAspectRatio(float64(width) / float64(height))
}

// draw renders the die rotated by rot into the framebuffer.
func (s *scene) draw(rot math3d.Quat) {
	s.dolly.Update()
	s.dolly.Apply(s.camera, s.elevation)

	s.fb.ClearGradient(s.background, render.Shade(s.background, 0.45))
	s.raster.ClearDepth()

	transform := math3d.Model(rot, 1, math3d.Zero3())
	if s.wireframe {
		s.raster.DrawMeshWireframe(s.mesh, transform, wireColor)
		return
	}
	s.raster.DrawMesh(s.mesh, transform, render.ColorGray, s.light)
}

// anchors returns where to print face numbers for rotation rot.
func (s *scene) anchors(rot math3d.Quat) []render.FaceAnchor {
	return s.raster.FaceAnchors(s.mesh, rot.Mat4())
}
