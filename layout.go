package orrery

import (
	"math"
	"math/rand/v2"
)

const layoutSalt = 0x6c61796f7574

// memberPosition places member i of n on two alternating rings with a
// vertical wave so neighbours never sit at the same height.
func memberPosition(i, n int) Vec3 {
	if n <= 0 {
		return Vec3{}
	}
	a := float64(i) / float64(n) * 2 * math.Pi
	r := 12 + float64(i%2)*3
	y := math.Sin(2*a)*3 + float64(i%3-1)*1.5
	return Vec3{X: math.Cos(a) * r, Y: y, Z: math.Sin(a) * r}
}

// panelPosition places panel i of n on a jittered ring. The jitter comes
// from the descriptor seed, so the same input always yields the same layout.
func panelPosition(d *EntityDescriptor, i, n int) Vec3 {
	if n <= 0 {
		return Vec3{}
	}
	h := descriptorRand(d).Uint64()
	rng := rand.New(rand.NewPCG(d.Seed^layoutSalt, h))
	a := float64(i)/float64(n)*2*math.Pi + rng.Float64()*0.5
	r := 10 + rng.Float64()*8
	y := (rng.Float64() - 0.5) * 12
	return Vec3{X: math.Cos(a) * r, Y: y, Z: math.Sin(a) * r}
}

// layoutPosition resolves the base position of an entity, honouring an
// explicit override.
func layoutPosition(d *EntityDescriptor, i, n int) Vec3 {
	if d.Position != nil {
		return *d.Position
	}
	if d.Category == CategoryPanel {
		return panelPosition(d, i, n)
	}
	return memberPosition(i, n)
}
