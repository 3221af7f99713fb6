package orrery

import (
	"math"
	"math/rand/v2"
)

// StarLayer configures one layer of the background star field.
type StarLayer struct {
	Count   int
	Size    float64 // point size in pixels
	Range   float64 // outer radius of the shell the stars are scattered in
	Opacity float64
	Color   Color
}

// DefaultStarLayers is the five-layer field drawn behind every scene.
var DefaultStarLayers = []StarLayer{
	{Count: 3500, Size: 1, Range: 250, Opacity: 0.6, Color: Color{1, 1, 1, 1}},
	{Count: 2500, Size: 1, Range: 200, Opacity: 0.5, Color: Color{0.8, 0.85, 1, 1}},
	{Count: 2000, Size: 1.5, Range: 150, Opacity: 0.4, Color: Color{1, 0.95, 0.8, 1}},
	{Count: 1500, Size: 1.5, Range: 120, Opacity: 0.35, Color: Color{0.7, 0.8, 1, 1}},
	{Count: 800, Size: 2, Range: 90, Opacity: 0.3, Color: Color{1, 0.85, 0.9, 1}},
}

// starField is the runtime record of one layer: its node and the
// parameters its slow rotation and twinkle are derived from.
type starField struct {
	node    *Node
	layer   StarLayer
	index   int
	twinkle float64
}

// newStarPoints scatters count points in a spherical shell between half the
// range and the full range. The same layer index always produces the same
// points.
func newStarPoints(layer StarLayer, index, count int) []Vec3 {
	rng := rand.New(rand.NewPCG(uint64(index)+1, 0x73746172))
	pts := make([]Vec3, count)
	for i := range pts {
		// Uniform direction on the sphere.
		z := rng.Float64()*2 - 1
		a := rng.Float64() * 2 * math.Pi
		s := math.Sqrt(1 - z*z)
		r := layer.Range * (0.5 + 0.5*rng.Float64())
		pts[i] = Vec3{X: s * math.Cos(a) * r, Y: z * r, Z: s * math.Sin(a) * r}
	}
	return pts
}

// update rotates the layer and modulates its opacity at elapsed time t.
func (f *starField) update(t float64) {
	if f.node == nil || f.node.IsDisposed() {
		return
	}
	speed := 0.005 * float64(f.index+1)
	f.node.Rotation = Rotation{
		Pitch: math.Sin(t*0.01+float64(f.index)) * 0.05,
		Yaw:   t * speed,
	}
	if m := f.node.Material; m != nil {
		m.Opacity = f.layer.Opacity * (0.85 + 0.15*math.Sin(t*f.twinkle+float64(f.index)))
	}
}
