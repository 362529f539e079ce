package dice

import (
	"math"

	"github.com/taigrr/d20/pkg/math3d"
)

// TopFace identifies the face pointing most nearly up. Alignment is the dot
// product of its world normal with world up.
type TopFace struct {
	Index     int
	Label     int
	Alignment float64
}

// NoFace is returned when there are no faces to resolve. It must not be
// rendered.
var NoFace = TopFace{Index: -1}

// Valid reports whether f names a real face.
func (f TopFace) Valid() bool {
	return f.Index >= 0
}

// ResolveTopFace rotates every local face normal into world space and
// returns the face whose normal has the largest dot product with world up.
// Ties go to the lowest index. labels must have an entry per normal.
func ResolveTopFace(rot math3d.Quat, normals []math3d.Vec3, labels []int) TopFace {
	if len(normals) == 0 || len(labels) < len(normals) {
		return NoFace
	}

	up := math3d.Up()
	best := NoFace
	bestDot := math.Inf(-1)
	for i, n := range normals {
		d := rot.Rotate(n).Normalize().Dot(up)
		if d > bestDot {
			bestDot = d
			best = TopFace{Index: i, Label: labels[i], Alignment: d}
		}
	}
	return best
}
