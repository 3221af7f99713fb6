package orrery

import "math"

// PickSet is one group of candidates for a pick. Sets are listed in
// priority order; on an exact distance tie the earlier set wins.
type PickSet struct {
	Name  string
	Nodes []*Node
}

// Hit describes the nearest entity under the pointer.
type Hit struct {
	Node     *Node
	EntityID string
	Category Category
	Distance float64
	Point    Vec3
	Set      int
}

// Pick casts a ray from cam through viewport pixel (x, y) and returns the
// nearest visible, pickable candidate across all sets. Hits closer than the
// camera's near plane or beyond its far plane are ignored. Empty sets yield
// no hit.
func Pick(x, y float64, cam *Camera, sets []PickSet) (Hit, bool) {
	if cam == nil || cam.Viewport.Width <= 0 || cam.Viewport.Height <= 0 {
		return Hit{}, false
	}
	ray := cam.ScreenRay(x, y)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for si, set := range sets {
		for _, n := range set.Nodes {
			t, ok := intersectNode(ray, n)
			if !ok || t < cam.Near || t > cam.Far {
				continue
			}
			// Strict comparison keeps the earlier set on ties.
			if t < best.Distance {
				best = Hit{
					Node:     n,
					EntityID: n.EntityID,
					Category: n.Category,
					Distance: t,
					Point:    ray.At(t),
					Set:      si,
				}
				found = true
			}
		}
	}
	return best, found
}

// intersectNode tests ray against n's bounding volume in world space.
func intersectNode(ray Ray, n *Node) (float64, bool) {
	if n == nil || !n.Pickable || !n.EffectivelyVisible() {
		return 0, false
	}
	geo := n.PickGeometry
	if geo == nil {
		geo = n.Geometry
	}
	if geo == nil || geo.IsDisposed() {
		return 0, false
	}
	pos, rot, scale := n.World()
	if scale <= 0 {
		return 0, false
	}
	switch geo.Kind {
	case GeometrySphere:
		return ray.intersectSphere(pos, geo.Radius*scale)
	case GeometryQuad:
		right, up, _ := rot.basis()
		return ray.intersectRect(pos, right, up, geo.Width/2*scale, geo.Height/2*scale)
	default:
		return 0, false
	}
}
