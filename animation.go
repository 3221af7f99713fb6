package orrery

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates a set of float64 fields simultaneously. Create one via
// the convenience constructors (TweenPose, TweenValue) and call Update(dt)
// each frame. When a group finishes every field is snapped to its exact end
// value, so float32 drift inside gween never leaks out.
type TweenGroup struct {
	tweens []*gween.Tween
	fields []*float64
	ends   []float64
	Done   bool
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens = append(g.tweens, gween.New(float32(*field), float32(to), duration, fn))
	g.fields = append(g.fields, field)
	g.ends = append(g.ends, to)
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		g.Finish()
	}
}

// Finish jumps every field to its end value and marks the group done.
func (g *TweenGroup) Finish() {
	for i, f := range g.fields {
		*f = g.ends[i]
	}
	g.Done = true
}

// TweenPose creates a TweenGroup that moves pose to the given pose. Position
// and look-at target are interpolated independently.
func TweenPose(pose *Pose, to Pose, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&pose.Position.X, to.Position.X, duration, fn)
	g.add(&pose.Position.Y, to.Position.Y, duration, fn)
	g.add(&pose.Position.Z, to.Position.Z, duration, fn)
	g.add(&pose.Target.X, to.Target.X, duration, fn)
	g.add(&pose.Target.Y, to.Target.Y, duration, fn)
	g.add(&pose.Target.Z, to.Target.Z, duration, fn)
	return g
}

// TweenValue creates a TweenGroup that animates a single field.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(field, to, duration, fn)
	return g
}

// easeAt evaluates fn at normalised progress p in [0, 1].
// The end points are exact.
func easeAt(fn ease.TweenFunc, p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	return float64(fn(float32(p), 0, 1, 1))
}
