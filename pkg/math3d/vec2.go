package math3d

// Vec2 represents a 2D vector, used for texture coordinates and screen-space edges.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Cross returns the z component of the 3D cross product of a and b.
// Its sign gives the winding of the pair.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
