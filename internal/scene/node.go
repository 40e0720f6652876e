package scene

// Node is an element of the scene graph: a group, a mesh (Mesh set) or a light (Light set).
// Transforms are local to the parent and applied scale, then rotation, then translation.
type Node struct {
	Name     string
	Position Vec3
	Rotation Quat
	Scale    Vec3

	CastShadow    bool
	ReceiveShadow bool

	Mesh  *Mesh
	Light *Light

	parent   *Node
	children []*Node
}

// NewGroup returns an empty node with identity transform.
func NewGroup(name string) *Node {
	return &Node{Name: name, Rotation: IdentityQuat(), Scale: Vec3{1, 1, 1}}
}

// NewMeshNode returns a node carrying m.
func NewMeshNode(name string, m *Mesh) *Node {
	n := NewGroup(name)
	n.Mesh = m
	return n
}

// NewLightNode returns a node carrying l at pos.
func NewLightNode(name string, l *Light, pos Vec3) *Node {
	n := NewGroup(name)
	n.Light = l
	n.Position = pos
	return n
}

// IsMesh reports whether n draws geometry.
func (n *Node) IsMesh() bool { return n.Mesh != nil }

// IsLight reports whether n carries a light.
func (n *Node) IsLight() bool { return n.Light != nil }

// Parent returns the node n is attached to, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns n's direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Add attaches children to n, detaching each from its previous parent first.
// Adding a node to itself is ignored.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child from n. It reports whether child was attached to n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse calls fn on n and every descendant, depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Meshes returns every mesh node in the subtree in traversal order.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Traverse(func(c *Node) {
		if c.IsMesh() {
			out = append(out, c)
		}
	})
	return out
}

// Find returns the first node in the subtree named name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// SetUniformScale sets all three scale components to s.
func (n *Node) SetUniformScale(s float32) {
	n.Scale = Vec3{s, s, s}
}

// Count returns the number of nodes in the subtree including n.
func (n *Node) Count() int {
	total := 0
	n.Traverse(func(*Node) { total++ })
	return total
}
