package models

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Face colour constants.
const (
	// MinHueDifference is the smallest circular hue distance, in degrees,
	// between consecutive faces.
	MinHueDifference = 60.0

	// MaxHueAttempts bounds the rejection sampling for one face.
	MaxHueAttempts = 64

	FaceSaturation = 0.7
	FaceValue      = 0.5
)

// HueAssignment holds one hue per face. Relaxed[i] is set when face i ran out
// of attempts and kept its last candidate regardless of the separation rule.
type HueAssignment struct {
	Hues    [FaceCount]float64
	Relaxed [FaceCount]bool
}

// HueDifference returns the circular distance between two hues in degrees.
func HueDifference(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// AssignHues draws a hue per face so that every face differs from the
// previous face by at least MinHueDifference. Face 0 takes any hue.
func AssignHues(rng *rand.Rand) HueAssignment {
	var h HueAssignment
	for i := range h.Hues {
		candidate := rng.Float64() * 360
		if i == 0 {
			h.Hues[0] = candidate
			continue
		}

		prev := h.Hues[i-1]
		accepted := HueDifference(candidate, prev) >= MinHueDifference
		for attempt := 1; !accepted && attempt < MaxHueAttempts; attempt++ {
			candidate = rng.Float64() * 360
			accepted = HueDifference(candidate, prev) >= MinHueDifference
		}

		h.Hues[i] = candidate
		h.Relaxed[i] = !accepted
	}
	return h
}

// Color returns the display colour of face i.
func (h HueAssignment) Color(i int) colorful.Color {
	return colorful.Hsv(h.Hues[i], FaceSaturation, FaceValue)
}

// Hex returns the colour of every face as #rrggbb strings.
func (h HueAssignment) Hex() []string {
	out := make([]string, len(h.Hues))
	for i := range h.Hues {
		out[i] = h.Color(i).Hex()
	}
	return out
}
