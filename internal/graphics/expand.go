package graphics

import "figure-viewer/internal/scene"

// groups returns g's groups, or one group covering everything when it has none.
func groups(g *scene.Geometry) []scene.Group {
	if len(g.Groups) > 0 {
		return g.Groups
	}
	n := len(g.Indices)
	if g.Indices == nil {
		n = len(g.Positions)
	}
	return []scene.Group{{Start: 0, Count: n}}
}

// expand flattens one group into non-indexed position and normal arrays. raylib meshes index with
// 16 bits, which figure models exceed, so every triangle gets its own three vertices.
// Out of range indices and trailing partial triangles are dropped.
func expand(g *scene.Geometry, grp scene.Group) (positions, normals []float32) {
	end := grp.Start + grp.Count
	limit := len(g.Indices)
	if g.Indices == nil {
		limit = len(g.Positions)
	}
	if end > limit {
		end = limit
	}
	if grp.Start < 0 || grp.Start >= end {
		return nil, nil
	}
	end -= (end - grp.Start) % 3

	positions = make([]float32, 0, (end-grp.Start)*3)
	normals = make([]float32, 0, (end-grp.Start)*3)
	for tri := grp.Start; tri < end; tri += 3 {
		var idx [3]int
		ok := true
		for k := 0; k < 3; k++ {
			i := tri + k
			if g.Indices != nil {
				i = int(g.Indices[i])
			}
			if i >= len(g.Positions) {
				ok = false
				break
			}
			idx[k] = i
		}
		if !ok {
			continue
		}
		for _, i := range idx {
			p := g.Positions[i]
			positions = append(positions, p[0], p[1], p[2])
			var n [3]float32
			if i < len(g.Normals) {
				n = g.Normals[i]
			}
			normals = append(normals, n[0], n[1], n[2])
		}
	}
	return positions, normals
}
