package math3d

// Vec2 is a texture coordinate.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Float32 returns the components as a float32 pair.
func (a Vec2) Float32() [2]float32 {
	return [2]float32{float32(a.X), float32(a.Y)}
}
