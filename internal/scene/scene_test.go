package scene

import (
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, v := range []Vec3{{0, 0.4, 3}, {1, 2, 3}, {-4, 4, -3}, {0, -1, 0.5}} {
		s := SphericalFromVector(v)
		assert.InDelta(t, v.Length(), s.Radius, eps)
		assertVec(t, v, s.Vector())
	}
}

func TestSphericalAxes(t *testing.T) {
	s := SphericalFromVector(V3(0, 0, 2))
	assert.InDelta(t, 0, s.Theta, eps)
	assert.InDelta(t, math32.Pi/2, s.Phi, eps)

	s = SphericalFromVector(V3(3, 0, 0))
	assert.InDelta(t, math32.Pi/2, s.Theta, eps)

	assert.Equal(t, Spherical{}, SphericalFromVector(Vec3{}))
}

func TestMakeSafeClampsPoles(t *testing.T) {
	s := Spherical{Radius: 1, Phi: 0}.MakeSafe()
	assert.Greater(t, s.Phi, float32(0))
	s = Spherical{Radius: 1, Phi: math32.Pi}.MakeSafe()
	assert.Less(t, s.Phi, math32.Pi)
}

func TestPlaceAroundOverridesRadiusAndAzimuth(t *testing.T) {
	target := V3(0, 1.1, 0)
	for _, start := range []Vec3{{0, 1.5, 3}, {2, 4, -1}, {-3, 0.2, 0.5}, {0.1, 1.1, 9}} {
		cam := NewPerspectiveCamera(75, 1, 0.1, 1000)
		cam.Position = start
		before := SphericalFromVector(start.Sub(target))

		cam.PlaceAround(target, 5.35, 25)

		after := SphericalFromVector(cam.Offset())
		assert.InDelta(t, 5.35, cam.Position.Sub(target).Length(), eps)
		assert.InDelta(t, 25, RadToDeg(after.Theta), 1e-3)
		assert.InDelta(t, before.Phi, after.Phi, eps, "polar angle is kept")
		assert.Equal(t, target, cam.Target)
	}
}

func TestSetAspect(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 1000)
	assert.True(t, cam.SetAspect(1920, 1080))
	assert.InDelta(t, 1920.0/1080.0, cam.Aspect, eps)
	assert.False(t, cam.SetAspect(0, 1080))
	assert.InDelta(t, 1920.0/1080.0, cam.Aspect, eps)
}

func TestQuatRotatesDiscNormalUp(t *testing.T) {
	q := QuatFromAxisAngle(V3(1, 0, 0), -math32.Pi/2)
	assertVec(t, V3(0, 1, 0), q.Rotate(V3(0, 0, 1)))
	assertVec(t, V3(1, 0, 0), IdentityQuat().Mul(q).Rotate(V3(1, 0, 0)))
}

func TestVectorMath(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assertVec(t, V3(0, 0, 1), V3(0, 0, 5).Normalize())
	assertVec(t, V3(0, 0, 1), V3(1, 0, 0).Cross(V3(0, 1, 0)))
	assert.InDelta(t, 5, V3(3, 4, 0).Length(), eps)
	assertVec(t, V3(3, 3, 3), V3(1, 2, 3).Add(V3(2, 1, 0)))

	// two quarter turns about Y compose to a half turn
	q := QuatFromAxisAngle(V3(0, 2, 0), math32.Pi/2)
	assertVec(t, V3(-1, 0, 0), q.Mul(q).Rotate(V3(1, 0, 0)))
	assert.InDelta(t, 90, RadToDeg(DegToRad(90)), eps)
}

func TestCircleGeometry(t *testing.T) {
	g := CircleGeometry(5, 48)
	assert.Equal(t, 50, g.VertexCount())
	assert.Equal(t, 48, g.TriangleCount())
	lo, hi, ok := g.Bounds()
	require.True(t, ok)
	assert.InDelta(t, -5, lo.X, eps)
	assert.InDelta(t, 5, hi.Y, eps)
	assert.Equal(t, float32(0), hi.Z)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, 48*3, g.Groups[0].Count)
}

func TestNodeTreeOperations(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewMeshNode("b", NewMesh(&Geometry{}))
	c := NewMeshNode("c", NewMesh(&Geometry{}))
	root.Add(a, root, nil)
	a.Add(b)
	root.Add(c)

	var order []string
	root.Traverse(func(n *Node) { order = append(order, n.Name) })
	assert.Equal(t, []string{"root", "a", "b", "c"}, order)
	assert.Equal(t, 4, root.Count())
	assert.Len(t, root.Meshes(), 2)
	assert.Same(t, b, root.Find("b"))
	assert.Nil(t, root.Find("missing"))

	root.Add(b)
	assert.Same(t, root, b.Parent())
	assert.Empty(t, a.Children())
	assert.True(t, root.Remove(b))
	assert.False(t, root.Remove(b))
	assert.Nil(t, b.Parent())
}

func TestMeshSlotsAndRetention(t *testing.T) {
	single := NewMesh(&Geometry{})
	assert.False(t, single.MultiMaterial)
	require.Len(t, single.Materials, 1)
	assert.Nil(t, single.Material())

	red := NewMaterial("red", color.RGBA{255, 0, 0, 255}, 0.5, 0)
	blue := NewMaterial("blue", color.RGBA{0, 0, 255, 255}, 0.5, 0)
	multi := NewMesh(&Geometry{}, red, blue)
	assert.True(t, multi.MultiMaterial)
	assert.NotEqual(t, red.ID, blue.ID)

	assert.False(t, multi.Restore())
	multi.Retain([]*Material{red, blue})
	multi.Retain(nil)
	multi.Materials = []*Material{nil, nil}
	require.True(t, multi.Restore())
	assert.Equal(t, []*Material{red, blue}, multi.Materials)
	assert.Len(t, multi.Originals(), 2)
}

func TestSceneLights(t *testing.T) {
	s := New()
	s.Add(NewLightNode("ambient", &Light{Kind: AmbientLight}, Vec3{}))
	s.Add(NewLightNode("sun", &Light{Kind: DirectionalLight}, V3(-6, 9, 6)))
	s.Add(NewMeshNode("ground", NewMesh(CircleGeometry(5, 48))))

	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, "directional", lights[1].Light.Kind.String())
	assertVec(t, V3(6, -9, -6).Normalize(), lights[1].Light.Direction(lights[1].Position))
	assert.Len(t, s.Meshes(), 1)
}

func TestComputeNormals(t *testing.T) {
	g := &Geometry{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}, {9, 9, 9}},
		Indices:   []uint32{0, 1, 2},
	}
	g.ComputeNormals()
	require.Len(t, g.Normals, 4)
	assert.Equal(t, [3]float32{0, 0, 1}, g.Normals[0])
	assert.Equal(t, [3]float32{0, 0, 1}, g.Normals[2])
	assert.Equal(t, [3]float32{}, g.Normals[3])
}
