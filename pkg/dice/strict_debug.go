//go:build d20debug

package dice

// Builds tagged d20debug panic on a rotation that drifts off the unit sphere.
const strictNorm = true
