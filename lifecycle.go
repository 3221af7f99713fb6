package orrery

import (
	"fmt"
	"log/slog"
)

// ResourceKind classifies resources held by the Lifecycle Manager.
type ResourceKind uint8

const (
	ResourceGeometry ResourceKind = iota
	ResourceMaterial
	ResourceTexture
	ResourceLight
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceGeometry:
		return "geometry"
	case ResourceMaterial:
		return "material"
	case ResourceTexture:
		return "texture"
	case ResourceLight:
		return "light"
	default:
		return "unknown"
	}
}

// Resource is anything that must be released explicitly when the scene is
// torn down. Dispose must be safe to call more than once.
type Resource interface {
	ResourceKind() ResourceKind
	Dispose()
	IsDisposed() bool
}

// ResourceCounts reports live (registered and not yet disposed) resources.
type ResourceCounts struct {
	Geometries int
	Materials  int
	Textures   int
	Lights     int
	Listeners  int
}

// Total returns the number of live resources of every kind.
func (c ResourceCounts) Total() int {
	return c.Geometries + c.Materials + c.Textures + c.Lights + c.Listeners
}

// Resources is the registry of everything allocated for a mounted scene.
// The scene graph builder registers each allocation; teardown walks the
// graph first and then releases whatever is still registered.
type Resources struct {
	items     []Resource
	listeners []CallbackHandle
	log       *slog.Logger
}

func newResources(log *slog.Logger) *Resources {
	return &Resources{log: log}
}

// track registers res and returns it, so allocations read as one expression.
func track[T Resource](r *Resources, res T) T {
	r.items = append(r.items, res)
	return res
}

// TrackListener registers a listener handle to be removed on release.
func (r *Resources) TrackListener(h CallbackHandle) {
	r.listeners = append(r.listeners, h)
}

// Counts returns the live resource counts.
func (r *Resources) Counts() ResourceCounts {
	var c ResourceCounts
	for _, res := range r.items {
		if res.IsDisposed() {
			continue
		}
		switch res.ResourceKind() {
		case ResourceGeometry:
			c.Geometries++
		case ResourceMaterial:
			c.Materials++
		case ResourceTexture:
			c.Textures++
		case ResourceLight:
			c.Lights++
		}
	}
	for _, h := range r.listeners {
		if h.Active() {
			c.Listeners++
		}
	}
	return c
}

// removeListeners unregisters every tracked listener.
func (r *Resources) removeListeners() {
	for _, h := range r.listeners {
		h.Remove()
	}
	r.listeners = nil
}

// release disposes every registered resource that is still live and empties
// the registry. Calling it again is a no-op.
func (r *Resources) release() {
	for _, res := range r.items {
		safeDispose(r.log, res)
	}
	r.items = nil
	r.removeListeners()
}

// safeDispose disposes res, swallowing and logging any panic from the
// graphics backend. Already-disposed resources are skipped.
func safeDispose(log *slog.Logger, res Resource) {
	if res == nil || res.IsDisposed() {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Debug("dispose failed",
				"kind", res.ResourceKind().String(),
				"err", fmt.Sprint(rec))
		}
	}()
	res.Dispose()
}

// disposeTree walks the graph rooted at root, disposing every resource it
// references, then disposes the nodes themselves.
func disposeTree(log *slog.Logger, root *Node) {
	if root == nil || root.IsDisposed() {
		return
	}
	root.Walk(func(n *Node) bool {
		if n.Geometry != nil {
			safeDispose(log, n.Geometry)
		}
		if n.PickGeometry != nil {
			safeDispose(log, n.PickGeometry)
		}
		if n.Material != nil {
			if n.Material.Texture != nil {
				safeDispose(log, n.Material.Texture)
			}
			safeDispose(log, n.Material)
		}
		if n.Light != nil {
			safeDispose(log, n.Light)
		}
		return true
	})
	root.Dispose()
}
