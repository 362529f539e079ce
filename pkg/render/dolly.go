package render

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/d20/pkg/math3d"
)

// Dolly moves the camera toward a target distance with a critically damped
// spring so zooming eases in instead of jumping.
type Dolly struct {
	Distance float64 // Current distance from the target
	Target   float64 // Distance the spring is pulling toward
	Min, Max float64 // Zoom limits

	velocity float64
	spring   harmonica.Spring
}

// NewDolly creates a dolly resting at distance, updated fps times a second.
func NewDolly(fps int, distance float64) *Dolly {
	return &Dolly{
		Distance: distance,
		Target:   distance,
		Min:      distance * 0.5,
		Max:      distance * 3,
		// Frequency 6.0 settles in about a quarter second, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Zoom scales the target distance by factor, clamped to the limits.
// Factors below 1 move closer.
func (d *Dolly) Zoom(factor float64) {
	d.Target = min(max(d.Target*factor, d.Min), d.Max)
}

// Update advances the spring by one frame.
func (d *Dolly) Update() {
	d.Distance, d.velocity = d.spring.Update(d.Distance, d.velocity, d.Target)
}

// Apply orbits cam around the origin at the current distance.
func (d *Dolly) Apply(cam *Camera, elevation float64) {
	cam.Orbit(math3d.Zero3(), d.Distance, elevation)
}
