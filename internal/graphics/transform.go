package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"figure-viewer/internal/scene"
)

// localMatrix is scale, then rotation, then translation.
func localMatrix(n *scene.Node) rl.Matrix {
	s := rl.MatrixScale(n.Scale.X, n.Scale.Y, n.Scale.Z)
	r := rl.QuaternionToMatrix(rl.NewQuaternion(n.Rotation.X, n.Rotation.Y, n.Rotation.Z, n.Rotation.W))
	t := rl.MatrixTranslate(n.Position.X, n.Position.Y, n.Position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(s, r), t)
}

// walk calls fn for every node under n with its world matrix.
func walk(n *scene.Node, parent rl.Matrix, fn func(*scene.Node, rl.Matrix)) {
	world := rl.MatrixMultiply(localMatrix(n), parent)
	fn(n, world)
	for _, c := range n.Children() {
		walk(c, world, fn)
	}
}

// worldPosition is the node origin in world space.
func worldPosition(n *scene.Node) scene.Vec3 {
	p := n.Position
	for a := n.Parent(); a != nil; a = a.Parent() {
		p = a.Rotation.Rotate(scene.V3(p.X*a.Scale.X, p.Y*a.Scale.Y, p.Z*a.Scale.Z)).Add(a.Position)
	}
	return p
}
