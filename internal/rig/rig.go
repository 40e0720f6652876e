// Package rig reports whether a glTF asset carries a skeleton and what it looks like.
package rig

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/qmuntal/gltf"

	"figure-viewer/internal/scene"
)

// boneKeywords mark node names that look like skeleton joints.
var boneKeywords = []string{
	"bone", "joint", "spine", "neck", "head", "arm", "leg", "hand", "foot", "finger", "thumb",
	"shoulder", "hip", "knee", "elbow", "root", "pelvis", "chest", "back",
}

// Skin is one glTF skin.
type Skin struct {
	Name                string `json:"name"`
	Joints              int    `json:"joints"`
	InverseBindMatrices bool   `json:"inverse_bind_matrices"`
}

// Animation is one glTF animation.
type Animation struct {
	Name     string `json:"name"`
	Channels int    `json:"channels"`
	Samplers int    `json:"samplers"`
}

// Primitive records the skinning attributes of one mesh primitive.
type Primitive struct {
	Joints  bool `json:"joints"`
	Weights bool `json:"weights"`
}

// Mesh is one glTF mesh.
type Mesh struct {
	Name       string      `json:"name"`
	Primitives []Primitive `json:"primitives"`
}

// Skinned reports whether any primitive carries both joints and weights.
func (m Mesh) Skinned() bool {
	for _, p := range m.Primitives {
		if p.Joints && p.Weights {
			return true
		}
	}
	return false
}

// Stats are geometry totals of a converted subtree.
type Stats struct {
	Meshes    int        `json:"meshes"`
	Vertices  int        `json:"vertices"`
	Triangles int        `json:"triangles"`
	Min       scene.Vec3 `json:"min"`
	Max       scene.Vec3 `json:"max"`
}

// Size is the extent of the bounds.
func (s Stats) Size() scene.Vec3 {
	return s.Max.Sub(s.Min)
}

// Report summarizes the rig of one asset.
type Report struct {
	Source     string      `json:"source,omitempty"`
	FileSize   uint64      `json:"file_size,omitempty"`
	Nodes      int         `json:"nodes"`
	Bones      []string    `json:"bones"`
	Skins      []Skin      `json:"skins"`
	Animations []Animation `json:"animations"`
	Meshes     []Mesh      `json:"meshes"`
	Rigged     bool        `json:"rigged"`
	Stats      *Stats      `json:"stats,omitempty"`
}

// IsBoneName reports whether name contains a bone keyword, ignoring case.
func IsBoneName(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range boneKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Inspect builds the report for doc. The asset counts as rigged when it has a skin or a bone-like node.
func Inspect(doc *gltf.Document) Report {
	r := Report{Nodes: len(doc.Nodes)}
	for _, n := range doc.Nodes {
		if n != nil && IsBoneName(n.Name) {
			r.Bones = append(r.Bones, n.Name)
		}
	}
	for _, s := range doc.Skins {
		r.Skins = append(r.Skins, Skin{
			Name:                s.Name,
			Joints:              len(s.Joints),
			InverseBindMatrices: s.InverseBindMatrices != nil,
		})
	}
	for _, a := range doc.Animations {
		r.Animations = append(r.Animations, Animation{
			Name:     a.Name,
			Channels: len(a.Channels),
			Samplers: len(a.Samplers),
		})
	}
	for _, m := range doc.Meshes {
		rm := Mesh{Name: m.Name}
		for _, p := range m.Primitives {
			_, joints := p.Attributes["JOINTS_0"]
			_, weights := p.Attributes["WEIGHTS_0"]
			rm.Primitives = append(rm.Primitives, Primitive{Joints: joints, Weights: weights})
		}
		r.Meshes = append(r.Meshes, rm)
	}
	r.Rigged = len(r.Skins) > 0 || len(r.Bones) > 0
	return r
}

// Measure totals the geometry under root, with bounds in world space.
func Measure(root *scene.Node) Stats {
	var st Stats
	first := true
	var visit func(n *scene.Node, xf func(scene.Vec3) scene.Vec3)
	visit = func(n *scene.Node, parent func(scene.Vec3) scene.Vec3) {
		xf := func(v scene.Vec3) scene.Vec3 {
			v = n.Rotation.Rotate(scene.V3(v.X*n.Scale.X, v.Y*n.Scale.Y, v.Z*n.Scale.Z)).Add(n.Position)
			return parent(v)
		}
		if n.IsMesh() && n.Mesh.Geometry != nil {
			g := n.Mesh.Geometry
			st.Meshes++
			st.Vertices += g.VertexCount()
			st.Triangles += g.TriangleCount()
			for _, p := range g.Positions {
				w := xf(scene.V3(p[0], p[1], p[2]))
				if first {
					st.Min, st.Max = w, w
					first = false
					continue
				}
				st.Min = st.Min.Min(w)
				st.Max = st.Max.Max(w)
			}
		}
		for _, c := range n.Children() {
			visit(c, xf)
		}
	}
	if root != nil {
		visit(root, func(v scene.Vec3) scene.Vec3 { return v })
	}
	return st
}

// WriteText prints r in a human readable layout.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	if r.Source != "" {
		fmt.Fprintf(&b, "File: %s", r.Source)
		if r.FileSize > 0 {
			fmt.Fprintf(&b, " (%s)", humanize.Bytes(r.FileSize))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Nodes: %d\n", r.Nodes)
	fmt.Fprintf(&b, "Skins: %d\n", len(r.Skins))
	for _, s := range r.Skins {
		fmt.Fprintf(&b, "  - %s: %d joints, inverse bind matrices: %t\n", orUnnamed(s.Name), s.Joints, s.InverseBindMatrices)
	}
	fmt.Fprintf(&b, "Bone-like nodes: %d\n", len(r.Bones))
	for _, name := range r.Bones {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	fmt.Fprintf(&b, "Animations: %d\n", len(r.Animations))
	for _, a := range r.Animations {
		fmt.Fprintf(&b, "  - %s: %d channels, %d samplers\n", orUnnamed(a.Name), a.Channels, a.Samplers)
	}
	fmt.Fprintf(&b, "Meshes: %d\n", len(r.Meshes))
	for _, m := range r.Meshes {
		fmt.Fprintf(&b, "  - %s: %d primitives, skinned: %t\n", orUnnamed(m.Name), len(m.Primitives), m.Skinned())
	}
	if st := r.Stats; st != nil {
		fmt.Fprintf(&b, "Vertices: %s\n", humanize.Comma(int64(st.Vertices)))
		fmt.Fprintf(&b, "Triangles: %s\n", humanize.Comma(int64(st.Triangles)))
		size := st.Size()
		fmt.Fprintf(&b, "Bounds: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	}
	if r.Rigged {
		b.WriteString("Rigged: yes\n")
	} else {
		b.WriteString("Rigged: no\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func orUnnamed(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
