package scene

import (
	"image/color"
	"sync/atomic"
)

var materialIDs atomic.Uint64

// Material is a metallic-roughness surface description.
// Materials are treated as values once built: code that wants a different look builds a new one.
type Material struct {
	// ID is unique per constructed material and is what renderers key GPU state on.
	ID uint64

	Name      string
	Color     color.RGBA
	Roughness float32
	Metalness float32

	// Skinning marks a material used on geometry deformed by a skeleton.
	Skinning bool

	DoubleSided bool

	// BaseColorTexture is nil for an untextured material.
	BaseColorTexture *TextureRef

	// Extras is the application data the source document attached to the material.
	Extras map[string]any
}

// TextureRef points at a texture of the source document.
type TextureRef struct {
	Index    int
	TexCoord int
}

// NewMaterial returns a material with a fresh ID and no texture.
func NewMaterial(name string, c color.RGBA, roughness, metalness float32) *Material {
	return &Material{
		ID:        materialIDs.Add(1),
		Name:      name,
		Color:     c,
		Roughness: roughness,
		Metalness: metalness,
	}
}

// Mesh binds geometry to one or more material slots. A single-slot mesh has exactly one entry in
// Materials (possibly nil); a multi-slot mesh has one entry per geometry group.
type Mesh struct {
	Geometry      *Geometry
	Materials     []*Material
	MultiMaterial bool

	originals []*Material
	retained  bool
}

// NewMesh returns a single-slot mesh when given zero or one material and a multi-slot one otherwise.
func NewMesh(g *Geometry, materials ...*Material) *Mesh {
	m := &Mesh{Geometry: g}
	switch len(materials) {
	case 0:
		m.Materials = []*Material{nil}
	case 1:
		m.Materials = []*Material{materials[0]}
	default:
		m.Materials = append([]*Material(nil), materials...)
		m.MultiMaterial = true
	}
	return m
}

// Material returns the first slot.
func (m *Mesh) Material() *Material {
	if len(m.Materials) == 0 {
		return nil
	}
	return m.Materials[0]
}

// Retain stores originals as hidden state. Only the first call has an effect, so a mesh
// normalized twice still remembers what it was loaded with.
func (m *Mesh) Retain(originals []*Material) {
	if m.retained {
		return
	}
	m.originals = originals
	m.retained = true
}

// Originals returns the retained materials, or nil if none were retained.
func (m *Mesh) Originals() []*Material {
	if !m.retained {
		return nil
	}
	return append([]*Material(nil), m.originals...)
}

// Restore swaps the retained materials back in. It reports whether anything was retained.
func (m *Mesh) Restore() bool {
	if !m.retained {
		return false
	}
	m.Materials = append([]*Material(nil), m.originals...)
	m.MultiMaterial = len(m.Materials) > 1
	return true
}
