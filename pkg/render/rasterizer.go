// Package render provides software rasterization for vitrine.
package render

import (
	"math"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // World normal (for lighting)
	UV       math3d.Vec2 // Texture coordinates
	Color    Color       // Base color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Lighting is an ambient term plus one directional light. Intensities add,
// so a surface facing the light may saturate.
type Lighting struct {
	Ambient     float64
	Directional float64
	// Direction points from the scene toward the light.
	Direction math3d.Vec3
}

// DefaultLighting returns ambient 0.8 plus a 0.5 directional light shining
// from (10, 10, 10) toward the origin.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:     0.8,
		Directional: 0.5,
		Direction:   math3d.V3(10, 10, 10).Normalize(),
	}
}

// Intensity returns the light reaching a surface with the given normal.
func (l Lighting) Intensity(normal math3d.Vec3) float64 {
	return l.Ambient + l.Directional*math.Max(0, normal.Dot(l.Direction))
}

// MeshRenderer is the geometry the rasterizer can draw.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	Bounds() math3d.AABB
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64    // Depth buffer (1D array, row-major)
	frustum                Frustum      // Frustum planes for the current frame
	Lighting               Lighting     // Scene lights
	CullingStats           CullingStats // Statistics for the HUD and tests
	DisableBackfaceCulling bool         // If true, render both sides of triangles
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:   camera,
		fb:       fb,
		Lighting: DefaultLighting(),
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// BeginFrame clears color and depth, refreshes the frustum from the camera
// and resets culling statistics.
func (r *Rasterizer) BeginFrame(background Color) {
	if r.fb != nil {
		r.fb.Clear(background)
	}
	r.ClearDepth()
	r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
	r.CullingStats = CullingStats{}
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// IsVisible tests if a world-space AABB is inside the frustum captured by
// the last BeginFrame.
func (r *Rasterizer) IsVisible(worldBounds math3d.AABB) bool {
	return r.frustum.IntersectAABB(worldBounds)
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y      float64 // Screen coordinates
	Z         float64 // Depth (for Z-buffer)
	W         float64 // W coordinate (for perspective-correct interpolation)
	Color     Color
	UV        math3d.Vec2
	Intensity float64
}

// project transforms a clip-space position to screen space. It reports
// false for points at or behind the camera plane.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) (screenVertex, bool) {
	clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 1e-9 {
		return screenVertex{}, false
	}
	ndc := clip.PerspectiveDivide()
	return screenVertex{
		X: (ndc.X + 1) * 0.5 * float64(r.Width()),
		Y: (1 - ndc.Y) * 0.5 * float64(r.Height()), // Y flipped
		Z: ndc.Z,
		W: clip.W,
	}, true
}

// DrawTriangle rasterizes a triangle with Gouraud shading. When tex is not
// nil the vertex colors are modulated with perspective-correct texture
// samples.
func (r *Rasterizer) DrawTriangle(tri Triangle, tex *Texture) {
	if r.fb == nil {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i := range 3 {
		v, ok := r.project(viewProj, tri.V[i].Position)
		if !ok {
			// Triangles crossing the camera plane are dropped, not clipped.
			return
		}
		v.Color = tri.V[i].Color
		v.UV = tri.V[i].UV
		v.Intensity = r.Lighting.Intensity(tri.V[i].Normal)
		sv[i] = v
	}

	// Backface culling (using screen-space winding)
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	cross := edge1.Cross(edge2)
	if cross == 0 || (cross < 0 && !r.DisableBackfaceCulling) {
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	invW := [3]float64{1 / sv[0].W, 1 / sv[1].W, 1 / sv[2].W}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			// Perspective-correct interpolation
			w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
			oneOverW := w0 + w1 + w2
			intensity := (w0*sv[0].Intensity + w1*sv[1].Intensity + w2*sv[2].Intensity) / oneOverW

			c := interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc)
			if tex != nil {
				u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
				v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
				c = ModulateColor(tex.Sample(u, v), c)
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, MultiplyColor(c, intensity))
		}
	}
}

// cull tests mesh bounds against the frustum and records the outcome.
// Meshes without bounds are never culled.
func (r *Rasterizer) cull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++
	if !r.IsVisible(bounded.Bounds().Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders a lit mesh with the given world transform and base
// color. A nil texture draws the base color only. It returns false when
// the mesh was culled.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color, tex *Texture) bool {
	if r.cull(mesh, transform) {
		return false
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		var tri Triangle
		for k := range 3 {
			p, n, uv := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   transform.MulVec3Dir(n).Normalize(),
				UV:       uv,
				Color:    color,
			}
		}
		r.DrawTriangle(tri, tex)
	}
	return true
}

// DrawMeshWireframe renders a mesh as wireframe.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) bool {
	if r.cull(mesh, transform) {
		return false
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.DrawLine3D(v0, v1, color)
		r.DrawLine3D(v1, v2, color)
		r.DrawLine3D(v2, v0, color)
	}
	return true
}

// DrawLine3D draws a world-space line with no depth test. Lines with an
// endpoint behind the camera are skipped.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	if r.fb == nil {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()
	sa, okA := r.project(viewProj, a)
	sb, okB := r.project(viewProj, b)
	if !okA || !okB {
		return
	}
	r.fb.DrawLine(int(sa.X), int(sa.Y), int(sb.X), int(sb.Y), color)
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
