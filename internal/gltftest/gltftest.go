// Package gltftest builds small binary glTF assets in memory for tests.
package gltftest

import (
	"bytes"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Encode packs doc into a GLB container.
func Encode(doc *gltf.Document) []byte {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// FigureDoc is a rigged document: an "Armature" group holding a skinned "Body" mesh with two primitives
// ("skin" and "cloth" materials), a "Hips" joint and an unskinned single-primitive "Prop" mesh with no
// material. Body has scale 2. One "Wave" animation targets Hips. The skin material carries a base color
// texture and extras.
func FigureDoc() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Scenes = []*gltf.Scene{{Name: "Scene", Nodes: []int{0}}}

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	joints := modeler.WriteJoints(doc, [][4]uint8{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	weights := modeler.WriteWeights(doc, [][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}})
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	rotations := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, 0.7071, 0, 0.7071}})

	doc.Nodes = []*gltf.Node{
		{Name: "Armature", Children: []int{1, 2, 3}},
		{Name: "Body", Mesh: gltf.Index(0), Skin: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
		{Name: "Hips", Translation: [3]float64{0, 1, 0}},
		{Name: "Prop", Mesh: gltf.Index(1), Translation: [3]float64{1, 0, 0}},
	}
	doc.Skins = []*gltf.Skin{{Name: "Rig", Joints: []int{2}}}

	skinned := gltf.PrimitiveAttributes{gltf.POSITION: pos, gltf.JOINTS_0: joints, gltf.WEIGHTS_0: weights}
	doc.Meshes = []*gltf.Mesh{
		{Name: "Body", Primitives: []*gltf.Primitive{
			{Attributes: skinned, Indices: gltf.Index(idx), Material: gltf.Index(0)},
			{Attributes: skinned, Indices: gltf.Index(idx), Material: gltf.Index(1)},
		}},
		{Name: "Prop", Primitives: []*gltf.Primitive{
			{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos}},
		}},
	}

	metal, rough := 0.2, 0.3
	doc.Textures = []*gltf.Texture{{Name: "skin"}}
	doc.Materials = []*gltf.Material{
		{
			Name:                 "skin",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor:  &[4]float64{1, 0, 0, 1},
				BaseColorTexture: &gltf.TextureInfo{Index: 0},
				MetallicFactor:   &metal,
				RoughnessFactor:  &rough,
			},
			Extras: map[string]any{"source": "scan"},
		},
		{Name: "cloth", DoubleSided: true},
	}

	doc.Animations = []*gltf.Animation{{
		Name:     "Wave",
		Channels: []*gltf.AnimationChannel{{
			Sampler: 0,
			Target:  gltf.AnimationChannelTarget{Node: gltf.Index(2), Path: gltf.TRSRotation},
		}},
		Samplers: []*gltf.AnimationSampler{{Input: times, Output: rotations}},
	}}
	return doc
}

// Figure is FigureDoc encoded as GLB.
func Figure() []byte {
	return Encode(FigureDoc())
}

// Empty is a valid asset with no scenes.
func Empty() []byte {
	return Encode(&gltf.Document{Asset: gltf.Asset{Version: "2.0"}})
}
