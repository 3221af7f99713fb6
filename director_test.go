package orrery

import (
	"math"
	"testing"
	"time"
)

const frame = 1.0 / 60

func runDirector(d *Director, until CameraMode, maxFrames int) int {
	for i := 1; i <= maxFrames; i++ {
		d.Update(frame, time.Duration(i)*time.Second/60)
		if d.Mode() == until {
			return i
		}
	}
	return -1
}

func TestDirectorFlyToAndBackRestoresPose(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	d.AutoOrbit = false
	start := cam.Pose

	target := Vec3{6, 2, -3}
	if !d.FlyTo("ada", target) {
		t.Fatal("FlyTo rejected")
	}
	if !d.Busy() || d.InputEnabled() {
		t.Error("director should be busy while flying")
	}
	n := runDirector(d, CameraFocused, 200)
	if n < 0 {
		t.Fatal("never reached focused")
	}
	if secs := float64(n) * frame; math.Abs(secs-1.2) > 0.05 {
		t.Errorf("fly-to took %.3fs, want 1.2s", secs)
	}
	want := target.Add(target.Normalize().Mul(8))
	if cam.Position != want || cam.Target != target {
		t.Errorf("focused pose = %+v, want position %v target %v", cam.Pose, want, target)
	}
	if d.OverlayOpacity() != 1 {
		t.Errorf("overlay = %v when focused", d.OverlayOpacity())
	}

	if !d.FlyBack() {
		t.Fatal("FlyBack rejected")
	}
	n = runDirector(d, CameraIdle, 200)
	if n < 0 {
		t.Fatal("never returned to idle")
	}
	if secs := float64(n) * frame; math.Abs(secs-0.8) > 0.05 {
		t.Errorf("fly-back took %.3fs, want 0.8s", secs)
	}
	if cam.Pose != start {
		t.Errorf("pose after fly-back = %+v, want %+v", cam.Pose, start)
	}
	if d.TargetID() != "" {
		t.Errorf("TargetID = %q after fly-back", d.TargetID())
	}
}

func TestDirectorFlyBackReturnsToOrbitedPose(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	d.AutoOrbit = false
	d.Orbit(200, 0)
	before := cam.Pose

	d.FlyTo("p", Vec3{0, 0, 5})
	runDirector(d, CameraFocused, 200)
	if d.ReturnPose() != before {
		t.Errorf("return pose = %+v, want %+v", d.ReturnPose(), before)
	}
	if d.IdlePose() == before {
		t.Error("orbited pose should differ from the idle pose")
	}
	d.FlyBack()
	runDirector(d, CameraIdle, 200)
	if cam.Pose != before {
		t.Errorf("pose = %+v, want pre-fly %+v", cam.Pose, before)
	}
}

func TestDirectorRejectsOverlappingFlights(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	d.FlyTo("a", Vec3{1, 0, 0})
	if d.FlyTo("b", Vec3{-1, 0, 0}) {
		t.Error("second FlyTo accepted mid-flight")
	}
	if d.FlyBack() {
		t.Error("FlyBack accepted while flying to")
	}
	runDirector(d, CameraFocused, 200)
	if d.FlyTo("b", Vec3{-1, 0, 0}) {
		t.Error("FlyTo accepted while focused")
	}
	if d.TargetID() != "a" {
		t.Errorf("TargetID = %q", d.TargetID())
	}
}

func TestDirectorOverlayOpacity(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	d.FlyTo("a", Vec3{1, 0, 0})

	var reports []FlyProgress
	d.onProgress = func(p FlyProgress) { reports = append(reports, p) }
	runDirector(d, CameraFocused, 200)

	for _, r := range reports {
		want := clamp01((r.Progress - 0.7) / 0.3)
		if r.Mode == CameraFocused {
			want = 1
		}
		if !approxEqual(r.OverlayOpacity, want, 1e-9) {
			t.Fatalf("progress %.3f: overlay %v, want %v", r.Progress, r.OverlayOpacity, want)
		}
		if r.Progress < 0.7 && r.Mode == CameraFlyingTo && r.OverlayOpacity != 0 {
			t.Fatalf("overlay visible at progress %.3f", r.Progress)
		}
	}
	last := reports[len(reports)-1]
	if last.Progress != 1 || last.Mode != CameraFocused || last.EntityID != "a" {
		t.Errorf("last report = %+v", last)
	}
}

func TestDirectorAutoOrbit(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	start := cam.Position

	d.Update(1, time.Second)
	angle := math.Atan2(cam.Position.X, cam.Position.Z) - math.Atan2(start.X, start.Z)
	if !approxEqual(angle, 2*math.Pi/60*0.3, 1e-9) {
		t.Errorf("auto-orbit turned %v rad in 1s", angle)
	}
}

func TestDirectorAutoOrbitPausesAfterInput(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)

	d.BeginDrag(0)
	pos := cam.Position
	d.Update(frame, time.Second)
	if cam.Position != pos {
		t.Error("auto-orbit ran during drag")
	}

	d.EndDrag(time.Second)
	d.Update(frame, 2*time.Second)
	if cam.Position != pos {
		t.Error("auto-orbit resumed too early")
	}
	d.Update(frame, 3*time.Second)
	if cam.Position == pos {
		t.Error("auto-orbit did not resume")
	}
}

func TestDirectorHoverReactivePausesOrbit(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	d.SetHovering(true)
	if d.Mode() != CameraHoverReactive {
		t.Fatalf("mode = %v", d.Mode())
	}
	pos := cam.Position
	d.Update(1, time.Second)
	if cam.Position != pos {
		t.Error("camera moved while hover-reactive")
	}
	d.SetHovering(false)
	if d.Mode() != CameraIdle {
		t.Errorf("mode = %v", d.Mode())
	}
}

func TestDirectorDolly(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	r := cam.Position.Len()
	d.Dolly(1)
	if !approxEqual(cam.Position.Len(), r*0.95, 1e-9) {
		t.Errorf("distance = %v, want %v", cam.Position.Len(), r*0.95)
	}
	d.Dolly(-1000)
	if !approxEqual(cam.Position.Len(), maxDollyDistance, 1e-9) {
		t.Errorf("distance = %v, want clamp at %v", cam.Position.Len(), maxDollyDistance)
	}
	d.Dolly(1000)
	if !approxEqual(cam.Position.Len(), minDollyDistance, 1e-9) {
		t.Errorf("distance = %v, want clamp at %v", cam.Position.Len(), minDollyDistance)
	}
}

func TestDirectorReset(t *testing.T) {
	cam := newCamera(Rect{Width: 1280, Height: 720})
	d := newDirector(cam)
	d.FlyTo("a", Vec3{3, 0, 0})
	d.Update(0.3, 0)
	d.Reset()
	if d.Mode() != CameraIdle || cam.Pose != d.IdlePose() || d.TargetID() != "" {
		t.Errorf("after reset: mode=%v pose=%+v target=%q", d.Mode(), cam.Pose, d.TargetID())
	}
}
