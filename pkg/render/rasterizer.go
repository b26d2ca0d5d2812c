package render

import (
	"math"

	"github.com/taigrr/deskscene/pkg/math3d"
)

// MeshRenderer is the geometry a Rasterizer can draw.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// Rasterizer draws meshes into a framebuffer. Transforms and shading
// inputs are read from the program's uniforms at draw time.
type Rasterizer struct {
	fb   *Framebuffer
	prog *Program

	// CullBackfaces skips triangles that wind clockwise on screen.
	CullBackfaces bool
	// Triangles counts triangles rasterized since the last Clear.
	Triangles int

	verts []clipVertex
	poly  []clipVertex
}

type clipVertex struct {
	clip   math3d.Vec4
	world  math3d.Vec3
	normal math3d.Vec3
	uv     math3d.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float64) clipVertex {
	return clipVertex{
		clip:   a.clip.Lerp(b.clip, t),
		world:  a.world.Lerp(b.world, t),
		normal: a.normal.Lerp(b.normal, t),
		uv:     a.uv.Lerp(b.uv, t),
	}
}

type screenVertex struct {
	x, y, z float64
	invW    float64
}

// NewRasterizer returns a rasterizer drawing into fb with prog.
func NewRasterizer(fb *Framebuffer, prog *Program) *Rasterizer {
	return &Rasterizer{fb: fb, prog: prog}
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Program returns the program used for drawing.
func (r *Rasterizer) Program() *Program { return r.prog }

// Clear clears color and depth and resets the triangle count.
func (r *Rasterizer) Clear(c Color) {
	r.fb.Clear(c)
	r.Triangles = 0
}

// ClearDepth resets only the depth buffer.
func (r *Rasterizer) ClearDepth() {
	r.fb.ClearDepth()
}

// transform runs the vertex stage for every vertex of mesh.
func (r *Rasterizer) transform(mesh MeshRenderer) []clipVertex {
	names := r.prog.Names
	model := r.prog.Mat4(names.Model)
	viewProj := r.prog.Mat4(names.Projection).Mul(r.prog.Mat4(names.View))
	normalMat := model.NormalMatrix()

	r.verts = r.verts[:0]
	for i := range mesh.VertexCount() {
		p, n, uv := mesh.GetVertex(i)
		world := model.MulVec3(p)
		r.verts = append(r.verts, clipVertex{
			clip:   viewProj.MulVec4(math3d.V4FromV3(world, 1)),
			world:  world,
			normal: normalMat.MulVec3Dir(n),
			uv:     uv,
		})
	}
	return r.verts
}

// Draw rasterizes mesh with depth testing and per-pixel shading.
func (r *Rasterizer) Draw(mesh MeshRenderer) {
	verts := r.transform(mesh)
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		r.poly = clipNear([3]clipVertex{verts[f[0]], verts[f[1]], verts[f[2]]}, r.poly[:0])
		for k := 1; k+1 < len(r.poly); k++ {
			r.rasterize(r.poly[0], r.poly[k], r.poly[k+1])
		}
	}
}

// clipNear clips a triangle against the near plane (z >= -w) and returns
// the resulting convex polygon, which has 0, 3 or 4 vertices.
func clipNear(tri [3]clipVertex, out []clipVertex) []clipVertex {
	for i := range 3 {
		a, b := tri[i], tri[(i+1)%3]
		da, db := a.clip.Z+a.clip.W, b.clip.Z+b.clip.W
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, a.lerp(b, da/(da-db)))
		}
	}
	return out
}

func (r *Rasterizer) project(v clipVertex) screenVertex {
	invW := 1 / v.clip.W
	if v.clip.W <= 0 {
		invW = 1e6
	}
	return screenVertex{
		x:    (v.clip.X*invW + 1) * 0.5 * float64(r.fb.Width),
		y:    (1 - v.clip.Y*invW) * 0.5 * float64(r.fb.Height),
		z:    v.clip.Z * invW,
		invW: invW,
	}
}

func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (r *Rasterizer) rasterize(a, b, c clipVertex) {
	s0, s1, s2 := r.project(a), r.project(b), r.project(c)
	area := edge(s0, s1, s2.x, s2.y)
	if math.Abs(area) < 1e-12 {
		return
	}
	// Counter-clockwise in NDC becomes negative area once Y points down.
	if r.CullBackfaces && area > 0 {
		return
	}

	minX := max(int(math.Floor(min(s0.x, s1.x, s2.x))), 0)
	maxX := min(int(math.Ceil(max(s0.x, s1.x, s2.x))), r.fb.Width-1)
	minY := max(int(math.Floor(min(s0.y, s1.y, s2.y))), 0)
	maxY := min(int(math.Ceil(max(s0.y, s1.y, s2.y))), r.fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}
	r.Triangles++

	// Texture footprint per pixel, used for mip selection.
	uvArea := math.Abs(b.uv.Sub(a.uv).X*c.uv.Sub(a.uv).Y - b.uv.Sub(a.uv).Y*c.uv.Sub(a.uv).X)
	footprint := uvArea / math.Abs(area)

	for py := minY; py <= maxY; py++ {
		cy := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			w0 := edge(s1, s2, cx, cy) / area
			w1 := edge(s2, s0, cx, cy) / area
			w2 := edge(s0, s1, cx, cy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*s0.z + w1*s1.z + w2*s2.z
			if z < -1 || z > 1 || !r.fb.DepthTest(px, py, z) {
				continue
			}

			// Perspective-correct weights.
			invW := w0*s0.invW + w1*s1.invW + w2*s2.invW
			p0, p1, p2 := w0*s0.invW/invW, w1*s1.invW/invW, w2*s2.invW/invW

			frag := Fragment{
				Position:  a.world.Scale(p0).Add(b.world.Scale(p1)).Add(c.world.Scale(p2)),
				Normal:    a.normal.Scale(p0).Add(b.normal.Scale(p1)).Add(c.normal.Scale(p2)).Normalize(),
				UV:        a.uv.Scale(p0).Add(b.uv.Scale(p1)).Add(c.uv.Scale(p2)),
				Footprint: footprint,
			}
			i := py*r.fb.Width + px
			r.fb.Pixels[i] = blendOver(r.prog.Shade(frag), r.fb.Pixels[i])
		}
	}
}

// DrawWireframe draws the edges of every triangle in mesh without depth
// testing.
func (r *Rasterizer) DrawWireframe(mesh MeshRenderer, color Color) {
	verts := r.transform(mesh)
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		for k := range 3 {
			r.drawEdge(verts[f[k]], verts[f[(k+1)%3]], color)
		}
	}
}

// DrawBounds draws the box spanned by lo and hi in model space.
func (r *Rasterizer) DrawBounds(lo, hi math3d.Vec3, color Color) {
	corners := boxCorners(lo, hi)
	m := boundsMesh{corners: corners}
	verts := r.transform(m)
	for _, e := range boxEdges {
		r.drawEdge(verts[e[0]], verts[e[1]], color)
	}
}

func (r *Rasterizer) drawEdge(a, b clipVertex, color Color) {
	da, db := a.clip.Z+a.clip.W, b.clip.Z+b.clip.W
	switch {
	case da < 0 && db < 0:
		return
	case da < 0:
		a = a.lerp(b, da/(da-db))
	case db < 0:
		b = a.lerp(b, da/(da-db))
	}
	s0, s1 := r.project(a), r.project(b)
	r.line(int(s0.x), int(s0.y), int(s1.x), int(s1.y), color)
}

// line draws a Bresenham line, skipping pixels outside the framebuffer.
func (r *Rasterizer) line(x0, y0, x1, y1 int, color Color) {
	const limit = 1 << 15
	if abs(x0) > limit || abs(y0) > limit || abs(x1) > limit || abs(y1) > limit {
		return
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		r.fb.SetPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func boxCorners(lo, hi math3d.Vec3) [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// boundsMesh exposes box corners as a vertex-only mesh.
type boundsMesh struct {
	corners [8]math3d.Vec3
}

func (b boundsMesh) VertexCount() int   { return len(b.corners) }
func (b boundsMesh) TriangleCount() int { return 0 }
func (b boundsMesh) GetFace(int) [3]int { return [3]int{} }
func (b boundsMesh) GetVertex(i int) (math3d.Vec3, math3d.Vec3, math3d.Vec2) {
	return b.corners[i], math3d.Vec3{}, math3d.Vec2{}
}
