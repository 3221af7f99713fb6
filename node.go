package orrery

// nodeIDCounter is a plain counter, not atomic: the scene graph is only
// touched from the update thread.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Scale is uniform.
	Position Vec3
	Rotation Rotation
	Scale    float64

	// Visibility & interaction
	Visible  bool
	Pickable bool

	// Entity tagging. Set on the group node of every member or panel.
	EntityID string
	Category Category

	// Visual payload. Which fields are set depends on Type.
	Geometry *Geometry
	Material *Material
	Light    *PointLight

	// PickGeometry is the bounding volume used by ray picking. When nil the
	// picker falls back to Geometry.
	PickGeometry *Geometry

	disposed bool
}

func newNode(name string, typ NodeType) *Node {
	return &Node{
		ID:      nextNodeID(),
		Name:    name,
		Type:    typ,
		Scale:   1,
		Visible: true,
	}
}

// NewGroup creates a grouping node with no visual output.
func NewGroup(name string) *Node {
	return newNode(name, NodeTypeGroup)
}

// NewMesh creates a node that renders geo with mat.
func NewMesh(name string, geo *Geometry, mat *Material) *Node {
	n := newNode(name, NodeTypeMesh)
	n.Geometry = geo
	n.Material = mat
	return n
}

// NewPoints creates a point-cloud node. geo must be a points geometry.
func NewPoints(name string, geo *Geometry, mat *Material) *Node {
	n := newNode(name, NodeTypePoints)
	n.Geometry = geo
	n.Material = mat
	return n
}

// NewLightNode creates a node carrying a point light.
func NewLightNode(name string, light *PointLight) *Node {
	n := newNode(name, NodeTypeLight)
	n.Light = light
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("orrery: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("orrery: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("orrery: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// --- World transform ---

// World returns the node's world-space position, rotation and uniform scale.
// Rotation angles compose additively down the tree.
func (n *Node) World() (Vec3, Rotation, float64) {
	if n.Parent == nil {
		return n.Position, n.Rotation, n.Scale
	}
	pp, pr, ps := n.Parent.World()
	pos := pp.Add(pr.apply(n.Position.Mul(ps)))
	rot := Rotation{Pitch: pr.Pitch + n.Rotation.Pitch, Yaw: pr.Yaw + n.Rotation.Yaw}
	return pos, rot, ps * n.Scale
}

// WorldPosition returns the node's position in world space.
func (n *Node) WorldPosition() Vec3 {
	p, _, _ := n.World()
	return p
}

// EffectivelyVisible reports whether the node and all of its ancestors are
// visible and none of them is disposed.
func (n *Node) EffectivelyVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible || p.disposed {
			return false
		}
	}
	return true
}

// --- Dispose ---

// Dispose removes this node from its parent and marks it and all of its
// descendants as disposed. Resources referenced by the nodes are not released
// here; the Lifecycle Manager owns them. Calling Dispose twice is a no-op.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Geometry = nil
	n.PickGeometry = nil
	n.Material = nil
	n.Light = nil
}

// IsDisposed reports whether this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}
