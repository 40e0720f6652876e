package modelload

import (
	"image/color"

	"github.com/jinzhu/copier"

	"figure-viewer/internal/scene"
)

// NeutralSpec is the uniform look every loaded mesh is given.
type NeutralSpec struct {
	Color     color.RGBA
	Roughness float32
	Metalness float32
}

// DefaultNeutral is mid grey, fairly rough, barely metallic.
var DefaultNeutral = NeutralSpec{
	Color:     color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	Roughness: 0.65,
	Metalness: 0.05,
}

// Build returns a fresh neutral material. Only the skinning flag of src carries over; a nil src means no skinning.
func (s NeutralSpec) Build(src *scene.Material) *scene.Material {
	m := scene.NewMaterial("neutral", s.Color, s.Roughness, s.Metalness)
	if src != nil {
		m.Skinning = src.Skinning
	}
	return m
}

// Normalize resets root to unit scale and gives every mesh in the subtree shadows on both sides and
// freshly built neutral materials, keeping each mesh's slot count. The original materials are left
// untouched; deep copies are retained on each mesh for RestoreOriginalMaterials. It returns the number
// of meshes changed.
func Normalize(root *scene.Node, spec NeutralSpec) int {
	if root == nil {
		return 0
	}
	root.SetUniformScale(1)
	count := 0
	root.Traverse(func(n *scene.Node) {
		if !n.IsMesh() {
			return
		}
		n.CastShadow = true
		n.ReceiveShadow = true
		m := n.Mesh
		m.Retain(retainCopies(m.Materials))
		slots := make([]*scene.Material, len(m.Materials))
		for i, orig := range m.Materials {
			slots[i] = spec.Build(orig)
		}
		if len(slots) == 0 {
			slots = []*scene.Material{spec.Build(nil)}
		}
		m.Materials = slots
		count++
	})
	return count
}

// RestoreOriginalMaterials puts back the materials retained by Normalize and returns the number of meshes restored.
func RestoreOriginalMaterials(root *scene.Node) int {
	if root == nil {
		return 0
	}
	count := 0
	root.Traverse(func(n *scene.Node) {
		if n.IsMesh() && n.Mesh.Restore() {
			count++
		}
	})
	return count
}

func retainCopies(mats []*scene.Material) []*scene.Material {
	out := make([]*scene.Material, len(mats))
	for i, m := range mats {
		if m == nil {
			continue
		}
		c := new(scene.Material)
		if err := copier.CopyWithOption(c, m, copier.Option{DeepCopy: true}); err != nil {
			// built materials are never mutated in place, so sharing is still correct
			c = m
		}
		out[i] = c
	}
	return out
}
