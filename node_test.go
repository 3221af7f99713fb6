package orrery

import (
	"math"
	"testing"
)

func TestNewNodeDefaults(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		typ  NodeType
	}{
		{"group", NewGroup("g"), NodeTypeGroup},
		{"mesh", NewMesh("m", NewSphereGeometry(1, 16), NewMaterial(ColorWhite)), NodeTypeMesh},
		{"points", NewPoints("p", NewPointsGeometry(nil, 1), NewMaterial(ColorWhite)), NodeTypePoints},
		{"light", NewLightNode("l", NewPointLight(ColorWhite, 1, 8)), NodeTypeLight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			if n.Type != tt.typ {
				t.Errorf("Type = %v, want %v", n.Type, tt.typ)
			}
			if n.Scale != 1 || !n.Visible || n.Pickable {
				t.Errorf("defaults: scale=%v visible=%v pickable=%v", n.Scale, n.Visible, n.Pickable)
			}
			if n.ID == 0 {
				t.Error("ID = 0")
			}
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := map[uint32]bool{}
	for i := 0; i < 100; i++ {
		n := NewGroup("")
		if seen[n.ID] {
			t.Fatalf("duplicate ID %d", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestAddChildReparent(t *testing.T) {
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent != b {
		t.Error("child not reparented")
	}
	if a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Errorf("children: a=%d b=%d", a.NumChildren(), b.NumChildren())
	}
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil", func() { NewGroup("a").AddChild(nil) }},
		{"self", func() {
			a := NewGroup("a")
			a.AddChild(a)
		}},
		{"cycle", func() {
			a, b := NewGroup("a"), NewGroup("b")
			a.AddChild(b)
			b.AddChild(a)
		}},
		{"wrong parent", func() {
			a, b := NewGroup("a"), NewGroup("b")
			a.RemoveChild(b)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRemoveFromParent(t *testing.T) {
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	a.AddChild(b)
	a.AddChild(c)
	b.RemoveFromParent()
	if b.Parent != nil || a.NumChildren() != 1 || a.Children()[0] != c {
		t.Error("RemoveFromParent left stale links")
	}
	b.RemoveFromParent() // no-op
}

func TestWalkSkipsSubtree(t *testing.T) {
	root, a, b, a1 := NewGroup("root"), NewGroup("a"), NewGroup("b"), NewGroup("a1")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n != a
	})
	want := []string{"root", "a", "b"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visited %v, want %v", names, want)
		}
	}
}

func TestWorldTransform(t *testing.T) {
	parent := NewGroup("parent")
	parent.Position = Vec3{10, 0, 0}
	parent.Scale = 2
	parent.Rotation = Rotation{Yaw: math.Pi / 2}

	child := NewGroup("child")
	child.Position = Vec3{0, 0, 1}
	child.Scale = 1.5
	parent.AddChild(child)

	pos, rot, scale := child.World()
	// Yaw +90 maps local +Z onto world +X.
	if !vecApprox(pos, Vec3{12, 0, 0}, 1e-9) {
		t.Errorf("world position = %v, want (12,0,0)", pos)
	}
	if !approxEqual(rot.Yaw, math.Pi/2, epsilon) {
		t.Errorf("world yaw = %v", rot.Yaw)
	}
	if scale != 3 {
		t.Errorf("world scale = %v, want 3", scale)
	}
}

func TestEffectivelyVisible(t *testing.T) {
	root, mid, leaf := NewGroup("root"), NewGroup("mid"), NewGroup("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	if !leaf.EffectivelyVisible() {
		t.Fatal("leaf should be visible")
	}
	mid.Visible = false
	if leaf.EffectivelyVisible() {
		t.Error("hidden ancestor should hide leaf")
	}
}

func TestDispose(t *testing.T) {
	root, n, child := NewGroup("root"), NewMesh("n", NewSphereGeometry(1, 16), NewMaterial(ColorWhite)), NewGroup("child")
	root.AddChild(n)
	n.AddChild(child)

	n.Dispose()
	if !n.IsDisposed() || !child.IsDisposed() {
		t.Error("subtree not disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node still attached")
	}
	if n.Geometry != nil || n.Material != nil {
		t.Error("references kept after dispose")
	}
	n.Dispose() // idempotent
}
