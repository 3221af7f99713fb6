package orrery

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPoseReachesTarget(t *testing.T) {
	pose := Pose{Position: Vec3{0, 3, 25}}
	to := Pose{Position: Vec3{10, -2, 4}, Target: Vec3{1, 2, 3}}

	g := TweenPose(&pose, to, 1.0, ease.InOutCubic)
	g.Update(0.5)
	if g.Done {
		t.Fatal("should not be done halfway")
	}
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if pose != to {
		t.Errorf("pose = %+v, want exactly %+v", pose, to)
	}
}

func TestTweenPoseMidpointInOut(t *testing.T) {
	pose := Pose{}
	g := TweenPose(&pose, Pose{Position: Vec3{X: 10}}, 1.0, ease.InOutCubic)
	g.Update(0.5)
	if math.Abs(pose.Position.X-5) > 0.01 {
		t.Errorf("X at half time = %f, want ~5 for a symmetric ease", pose.Position.X)
	}
}

func TestTweenValueFinish(t *testing.T) {
	v := 0.0
	g := TweenValue(&v, 1, 10, ease.Linear)
	g.Update(0.1)
	g.Finish()
	if !g.Done || v != 1 {
		t.Errorf("Finish: done=%v v=%f", g.Done, v)
	}
	g.Update(1)
	if v != 1 {
		t.Error("Update after Done must not write")
	}
}

func TestEaseAtClamps(t *testing.T) {
	if easeAt(ease.Linear, -1) != 0 {
		t.Error("easeAt below 0 should clamp")
	}
	if easeAt(ease.Linear, 2) != 1 {
		t.Error("easeAt above 1 should clamp")
	}
	if v := easeAt(ease.OutCubic, 0.5); v <= 0.5 {
		t.Errorf("OutCubic(0.5) = %f, want > 0.5", v)
	}
}
