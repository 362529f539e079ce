//go:build !d20debug

package dice

const strictNorm = false
