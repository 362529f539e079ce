//go:build !d20debug

package dice

import (
	"math"
	"testing"

	"github.com/taigrr/d20/pkg/math3d"
)

func TestOrientationComposeRenormalizes(t *testing.T) {
	o := NewOrientation()
	o.Compose(math3d.Quat{W: 2, X: 0.5})
	if d := math.Abs(o.Rotation.Len() - 1); d > 1e-12 {
		t.Errorf("|R| = %v after composing a non-unit delta", o.Rotation.Len())
	}
}
