package scene

import "image/color"

// Scene is the root of a scene graph plus the clear color it is drawn over.
type Scene struct {
	Root       *Node
	Background color.RGBA
}

// New returns an empty scene with a white background.
func New() *Scene {
	return &Scene{
		Root:       NewGroup("scene"),
		Background: color.RGBA{255, 255, 255, 255},
	}
}

// Add attaches nodes to the root.
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// Lights returns every light node, in traversal order.
func (s *Scene) Lights() []*Node {
	var out []*Node
	s.Root.Traverse(func(n *Node) {
		if n.IsLight() {
			out = append(out, n)
		}
	})
	return out
}

// Meshes returns every mesh node, in traversal order.
func (s *Scene) Meshes() []*Node {
	return s.Root.Meshes()
}
