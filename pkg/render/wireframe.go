package render

import (
	"github.com/taigrr/vitrine/pkg/math3d"
)

// boxEdges indexes the corners returned by math3d.AABB.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // back face
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // front face
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting edges
}

// DrawBox draws the edges of a world-space box. Empty boxes draw nothing.
func (r *Rasterizer) DrawBox(box math3d.AABB, color Color) {
	if box.IsEmpty() {
		return
	}
	corners := box.Corners()
	for _, e := range boxEdges {
		r.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (r *Rasterizer) DrawAxes(length float64) {
	origin := math3d.Zero3()
	r.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	r.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	r.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}
