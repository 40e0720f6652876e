package modelload

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"figure-viewer/internal/scene"
)

var (
	// ErrNoScene means the document has neither a default scene nor any scene in its scene list.
	ErrNoScene = errors.New("modelload: document contains no scene")
	// ErrNotModel means the bytes are neither binary glTF nor glTF JSON.
	ErrNotModel = errors.New("modelload: not a glTF asset")
)

// Decode parses binary or JSON glTF.
func Decode(data []byte) (*gltf.Document, error) {
	if Kind(data) == "" {
		return nil, ErrNotModel
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("modelload: decode: %w", err)
	}
	return doc, nil
}

// RootScene returns the document's default scene, falling back to the first entry of its scene list.
func RootScene(doc *gltf.Document) (*gltf.Scene, error) {
	if doc.Scene != nil {
		if i := int(*doc.Scene); i >= 0 && i < len(doc.Scenes) && doc.Scenes[i] != nil {
			return doc.Scenes[i], nil
		}
	}
	if len(doc.Scenes) > 0 && doc.Scenes[0] != nil {
		return doc.Scenes[0], nil
	}
	return nil, ErrNoScene
}

// FromDocument builds the scene subtree for the document's root scene.
func FromDocument(doc *gltf.Document) (*scene.Node, error) {
	sc, err := RootScene(doc)
	if err != nil {
		return nil, err
	}
	b := &builder{doc: doc, materials: make(map[materialKey]*scene.Material), visiting: make(map[int]bool)}
	name := sc.Name
	if name == "" {
		name = "model"
	}
	root := scene.NewGroup(name)
	for _, ni := range sc.Nodes {
		n, err := b.node(int(ni))
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

type materialKey struct {
	index   int
	skinned bool
}

type builder struct {
	doc       *gltf.Document
	materials map[materialKey]*scene.Material
	visiting  map[int]bool
}

func (b *builder) node(i int) (*scene.Node, error) {
	if i < 0 || i >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("modelload: node index %d out of range", i)
	}
	if b.visiting[i] {
		return nil, fmt.Errorf("modelload: node %d is its own ancestor", i)
	}
	b.visiting[i] = true
	defer delete(b.visiting, i)

	src := b.doc.Nodes[i]
	n := scene.NewGroup(src.Name)
	if n.Name == "" {
		n.Name = fmt.Sprintf("node%d", i)
	}
	b.transform(n, src)

	if src.Mesh != nil {
		m, err := b.mesh(int(*src.Mesh), src.Skin != nil)
		if err != nil {
			return nil, fmt.Errorf("modelload: node %q: %w", n.Name, err)
		}
		n.Mesh = m
	}
	for _, ci := range src.Children {
		c, err := b.node(int(ci))
		if err != nil {
			return nil, err
		}
		n.Add(c)
	}
	return n, nil
}

func (b *builder) transform(n *scene.Node, src *gltf.Node) {
	m := src.Matrix
	identity := true
	zero := true
	for k := 0; k < 16; k++ {
		want := 0.0
		if k%5 == 0 {
			want = 1
		}
		if float64(m[k]) != want {
			identity = false
		}
		if m[k] != 0 {
			zero = false
		}
	}
	if !identity && !zero {
		var f [16]float32
		for k := range f {
			f[k] = float32(m[k])
		}
		n.Position, n.Rotation, n.Scale = decompose(f)
		return
	}
	n.Position = scene.V3(float32(src.Translation[0]), float32(src.Translation[1]), float32(src.Translation[2]))
	n.Rotation = scene.Quat{
		X: float32(src.Rotation[0]), Y: float32(src.Rotation[1]),
		Z: float32(src.Rotation[2]), W: float32(src.Rotation[3]),
	}
	if n.Rotation.IsZero() {
		n.Rotation = scene.IdentityQuat()
	}
	n.Scale = scene.V3(float32(src.Scale[0]), float32(src.Scale[1]), float32(src.Scale[2]))
	if n.Scale == (scene.Vec3{}) {
		n.Scale = scene.V3(1, 1, 1)
	}
}

// decompose splits a column-major affine matrix into translation, rotation and scale.
func decompose(m [16]float32) (scene.Vec3, scene.Quat, scene.Vec3) {
	mat := mgl32.Mat4(m)
	pos := scene.Vec3From(mat.Col(3).Vec3())
	scale := scene.V3(mat.Col(0).Vec3().Len(), mat.Col(1).Vec3().Len(), mat.Col(2).Vec3().Len())
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return pos, scene.IdentityQuat(), scale
	}
	rot := mgl32.Mat4FromCols(
		mat.Col(0).Mul(1/scale.X),
		mat.Col(1).Mul(1/scale.Y),
		mat.Col(2).Mul(1/scale.Z),
		mgl32.Vec4{0, 0, 0, 1},
	)
	return pos, scene.QuatFrom(mgl32.Mat4ToQuat(rot).Normalize()), scale
}

// mesh merges the triangle primitives of a glTF mesh into one geometry with one group and
// one material slot per primitive.
func (b *builder) mesh(i int, nodeSkinned bool) (*scene.Mesh, error) {
	if i < 0 || i >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", i)
	}
	src := b.doc.Meshes[i]
	g := &scene.Geometry{}
	var slots []*scene.Material
	for pi, p := range src.Primitives {
		if p == nil || p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		acc, err := b.accessor(posIdx)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}
		positions, err := modeler.ReadPosition(b.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}
		var normals [][3]float32
		if ni, ok := p.Attributes["NORMAL"]; ok {
			if acc, err = b.accessor(ni); err == nil {
				normals, err = modeler.ReadNormal(b.doc, acc, nil)
			}
			if err != nil {
				return nil, fmt.Errorf("primitive %d normals: %w", pi, err)
			}
		}
		var indices []uint32
		if p.Indices != nil {
			if acc, err = b.accessor(*p.Indices); err == nil {
				indices, err = modeler.ReadIndices(b.doc, acc, nil)
			}
			if err != nil {
				return nil, fmt.Errorf("primitive %d indices: %w", pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for k := range indices {
				indices[k] = uint32(k)
			}
		}

		if len(normals) != len(positions) {
			flat := &scene.Geometry{Positions: positions, Indices: indices}
			flat.ComputeNormals()
			normals = flat.Normals
		}

		_, hasJoints := p.Attributes["JOINTS_0"]
		_, hasWeights := p.Attributes["WEIGHTS_0"]
		skinned := nodeSkinned && hasJoints && hasWeights
		if skinned {
			g.SkinData = true
		}

		base := uint32(len(g.Positions))
		start := len(g.Indices)
		g.Positions = append(g.Positions, positions...)
		g.Normals = append(g.Normals, normals...)
		for _, idx := range indices {
			g.Indices = append(g.Indices, base+idx)
		}
		g.Groups = append(g.Groups, scene.Group{Start: start, Count: len(indices), MaterialIndex: len(slots)})

		var mat *scene.Material
		if p.Material != nil {
			if mat, err = b.material(int(*p.Material), skinned); err != nil {
				return nil, fmt.Errorf("primitive %d: %w", pi, err)
			}
		}
		slots = append(slots, mat)
	}
	return scene.NewMesh(g, slots...), nil
}

func (b *builder) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(b.doc.Accessors) || b.doc.Accessors[i] == nil {
		return nil, fmt.Errorf("accessor index %d out of range", i)
	}
	return b.doc.Accessors[i], nil
}

// material returns the converted material, one instance per (material, skinned) pair.
func (b *builder) material(i int, skinned bool) (*scene.Material, error) {
	if i < 0 || i >= len(b.doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", i)
	}
	key := materialKey{index: i, skinned: skinned}
	if m, ok := b.materials[key]; ok {
		return m, nil
	}
	src := b.doc.Materials[i]
	rgba := [4]float32{1, 1, 1, 1}
	metal, rough := float32(1), float32(1)
	var tex *scene.TextureRef
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			rgba = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		}
		if pbr.MetallicFactor != nil {
			metal = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			rough = float32(*pbr.RoughnessFactor)
		}
		if pbr.BaseColorTexture != nil {
			tex = &scene.TextureRef{Index: pbr.BaseColorTexture.Index, TexCoord: pbr.BaseColorTexture.TexCoord}
		}
	}
	m := scene.NewMaterial(src.Name, toRGBA(rgba), rough, metal)
	m.Skinning = skinned
	m.DoubleSided = src.DoubleSided
	m.BaseColorTexture = tex
	if extras, ok := src.Extras.(map[string]any); ok {
		m.Extras = extras
	}
	b.materials[key] = m
	return m, nil
}

func toRGBA(f [4]float32) color.RGBA {
	c := func(v float32) uint8 {
		return uint8(math32.Round(math32.Max(0, math32.Min(1, v)) * 255))
	}
	return color.RGBA{R: c(f[0]), G: c(f[1]), B: c(f[2]), A: c(f[3])}
}
