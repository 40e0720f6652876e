package scene

import "github.com/chewxy/math32"

// Group is a run of indices (or vertices when non-indexed) drawn with one material slot.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

// Geometry is triangle-list vertex data. Indices is nil for non-indexed geometry.
type Geometry struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Groups    []Group

	// SkinData is set when the source carried per-vertex joints and weights.
	SkinData bool
}

// VertexCount is the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount is the number of triangles.
func (g *Geometry) TriangleCount() int {
	if g.Indices != nil {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Bounds returns the axis-aligned bounds of the positions. ok is false for empty geometry.
func (g *Geometry) Bounds() (lo, hi Vec3, ok bool) {
	if len(g.Positions) == 0 {
		return Vec3{}, Vec3{}, false
	}
	p := g.Positions[0]
	lo = Vec3{p[0], p[1], p[2]}
	hi = lo
	for _, p := range g.Positions[1:] {
		v := Vec3{p[0], p[1], p[2]}
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi, true
}

// CircleGeometry is a flat disc in the XY plane facing +Z: a center vertex plus segments+1 rim
// vertices (the first and last coincide) fanned into segments triangles.
func CircleGeometry(radius float32, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	g := &Geometry{
		Positions: make([][3]float32, 0, segments+2),
		Normals:   make([][3]float32, 0, segments+2),
		Indices:   make([]uint32, 0, segments*3),
	}
	g.Positions = append(g.Positions, [3]float32{0, 0, 0})
	g.Normals = append(g.Normals, [3]float32{0, 0, 1})
	for s := 0; s <= segments; s++ {
		a := float32(s) / float32(segments) * 2 * math32.Pi
		sin, cos := math32.Sincos(a)
		g.Positions = append(g.Positions, [3]float32{radius * cos, radius * sin, 0})
		g.Normals = append(g.Normals, [3]float32{0, 0, 1})
	}
	for i := 1; i <= segments; i++ {
		g.Indices = append(g.Indices, uint32(i), uint32(i+1), 0)
	}
	g.Groups = []Group{{Start: 0, Count: len(g.Indices), MaterialIndex: 0}}
	return g
}

// ComputeNormals replaces Normals with area-weighted vertex normals of the triangles.
// Vertices not used by any triangle get a zero normal.
func (g *Geometry) ComputeNormals() {
	acc := make([]Vec3, len(g.Positions))
	at := func(i int) int {
		if g.Indices != nil {
			return int(g.Indices[i])
		}
		return i
	}
	n := len(g.Positions)
	if g.Indices != nil {
		n = len(g.Indices)
	}
	for t := 0; t+2 < n; t += 3 {
		a, b, c := at(t), at(t+1), at(t+2)
		if a >= len(acc) || b >= len(acc) || c >= len(acc) {
			continue
		}
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
		va := Vec3{pa[0], pa[1], pa[2]}
		face := Vec3{pb[0], pb[1], pb[2]}.Sub(va).Cross(Vec3{pc[0], pc[1], pc[2]}.Sub(va))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}
	g.Normals = make([][3]float32, len(acc))
	for i, v := range acc {
		v = v.Normalize()
		g.Normals[i] = [3]float32{v.X, v.Y, v.Z}
	}
}
