package orrery

import (
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// CameraMode is the Camera Director's current behaviour.
type CameraMode uint8

const (
	CameraIdle          CameraMode = iota // auto-orbit, user orbit/dolly enabled
	CameraHoverReactive                   // pointer over an entity; auto-orbit paused
	CameraFlyingTo                        // animating toward an entity
	CameraFocused                         // resting at an entity after a fly-to
	CameraFlyingBack                      // animating back to the recorded pose
)

func (m CameraMode) String() string {
	switch m {
	case CameraIdle:
		return "idle"
	case CameraHoverReactive:
		return "hover-reactive"
	case CameraFlyingTo:
		return "flying-to"
	case CameraFocused:
		return "focused"
	case CameraFlyingBack:
		return "flying-back"
	default:
		return "unknown"
	}
}

const (
	flyToDuration   = 1.2 // seconds
	flyBackDuration = 0.8 // seconds
	flyDistance     = 8.0 // world units between the camera and a focused entity
	overlayStart    = 0.7 // fly-to progress at which the overlay starts fading in

	autoOrbitSpeed  = 2 * math.Pi / 60 * 0.3 // radians per second
	autoOrbitResume = 2 * time.Second

	minDollyDistance = 10.0
	maxDollyDistance = 50.0
)

// Director owns the camera pose. It auto-orbits while idle, applies user
// orbit and dolly input, and runs the fly-to / fly-back animations.
type Director struct {
	cam  *Camera
	home Pose
	mode CameraMode

	// AutoOrbit enables the slow idle rotation.
	AutoOrbit bool

	dragging  bool
	lastInput time.Duration
	hadInput  bool

	tween    *TweenGroup
	progTw   *TweenGroup
	progress float64
	dest     Pose

	from     Pose // pose recorded at the start of the last fly-to
	targetID string

	onProgress func(FlyProgress)
}

func newDirector(cam *Camera) *Director {
	return &Director{
		cam:       cam,
		home:      cam.Pose,
		AutoOrbit: true,
	}
}

// Mode returns the current camera mode.
func (d *Director) Mode() CameraMode { return d.mode }

// IdlePose returns the pose the camera starts from and Reset returns to.
func (d *Director) IdlePose() Pose { return d.home }

// ReturnPose returns the pose recorded at the start of the last fly-to, the
// pose FlyBack animates to.
func (d *Director) ReturnPose() Pose { return d.from }

// Reset snaps the camera to the idle pose and cancels any animation.
func (d *Director) Reset() {
	d.cam.Pose = d.home
	d.mode = CameraIdle
	d.tween, d.progTw = nil, nil
	d.progress = 0
	d.targetID = ""
	d.dragging = false
	d.hadInput = false
}

// Busy reports whether a fly animation is running.
func (d *Director) Busy() bool {
	return d.mode == CameraFlyingTo || d.mode == CameraFlyingBack
}

// InputEnabled reports whether user orbit and dolly are accepted.
func (d *Director) InputEnabled() bool {
	return d.mode == CameraIdle || d.mode == CameraHoverReactive
}

// Progress returns the progress of the current or last fly animation.
func (d *Director) Progress() float64 { return d.progress }

// TargetID returns the entity the camera is flying to or focused on.
func (d *Director) TargetID() string { return d.targetID }

// OverlayOpacity is the opacity a host's detail overlay should have now.
func (d *Director) OverlayOpacity() float64 {
	switch d.mode {
	case CameraFlyingTo:
		return clamp01((d.progress - overlayStart) / (1 - overlayStart))
	case CameraFocused:
		return 1
	default:
		return 0
	}
}

// flyDestination returns the pose that frames target from outside the
// scene: along the ray from the origin through the entity.
func flyDestination(target, from Vec3) Pose {
	dir := target.Normalize()
	if dir == (Vec3{}) {
		dir = from.Sub(target).Normalize()
	}
	if dir == (Vec3{}) {
		dir = Vec3{0, 0, 1}
	}
	return Pose{Position: target.Add(dir.Mul(flyDistance)), Target: target}
}

// FlyTo starts animating toward the entity at target. It records the
// current pose for FlyBack. Returns false while another fly is running or an
// entity is already focused.
func (d *Director) FlyTo(id string, target Vec3) bool {
	if !d.InputEnabled() {
		return false
	}
	d.from = d.cam.Pose
	d.dest = flyDestination(target, d.cam.Position)
	d.targetID = id
	d.dragging = false
	d.start(CameraFlyingTo, d.dest, flyToDuration, ease.InOutCubic)
	return true
}

// FlyBack returns the camera to the pose recorded by the last FlyTo. It is
// only valid while focused.
func (d *Director) FlyBack() bool {
	if d.mode != CameraFocused {
		return false
	}
	d.dest = d.from
	d.start(CameraFlyingBack, d.dest, flyBackDuration, ease.OutCubic)
	return true
}

func (d *Director) start(mode CameraMode, to Pose, duration float32, fn ease.TweenFunc) {
	d.mode = mode
	d.progress = 0
	d.tween = TweenPose(&d.cam.Pose, to, duration, fn)
	d.progTw = TweenValue(&d.progress, 1, duration, ease.Linear)
	d.report()
}

func (d *Director) report() {
	if d.onProgress == nil {
		return
	}
	d.onProgress(FlyProgress{
		Mode:           d.mode,
		EntityID:       d.targetID,
		Progress:       d.progress,
		OverlayOpacity: d.OverlayOpacity(),
	})
}

// Update advances the camera by dt seconds at engine time now.
func (d *Director) Update(dt float64, now time.Duration) {
	switch d.mode {
	case CameraIdle:
		if d.AutoOrbit && !d.dragging && (!d.hadInput || now-d.lastInput >= autoOrbitResume) {
			d.cam.orbit(autoOrbitSpeed*dt, 0)
		}
	case CameraHoverReactive, CameraFocused:
	case CameraFlyingTo, CameraFlyingBack:
		d.tween.Update(float32(dt))
		d.progTw.Update(float32(dt))
		if d.tween.Done {
			d.progTw.Finish()
			d.cam.Pose = d.dest
			if d.mode == CameraFlyingTo {
				d.mode = CameraFocused
			} else {
				d.mode = CameraIdle
				d.targetID = ""
				d.hadInput = false
			}
		}
		d.report()
	}
}

// SetHovering switches between idle and hover-reactive.
func (d *Director) SetHovering(on bool) {
	switch {
	case on && d.mode == CameraIdle:
		d.mode = CameraHoverReactive
	case !on && d.mode == CameraHoverReactive:
		d.mode = CameraIdle
	}
}

// BeginDrag pauses auto-orbit for a user drag.
func (d *Director) BeginDrag(now time.Duration) {
	d.dragging = true
	d.hadInput = true
	d.lastInput = now
}

// EndDrag ends a user drag; auto-orbit resumes after a delay.
func (d *Director) EndDrag(now time.Duration) {
	d.dragging = false
	d.hadInput = true
	d.lastInput = now
}

// Orbit rotates the camera by a pointer delta in pixels. A drag across the
// full viewport height turns the camera a full circle.
func (d *Director) Orbit(dx, dy float64) {
	if !d.InputEnabled() {
		return
	}
	h := d.cam.Viewport.Height
	if h <= 0 {
		return
	}
	d.cam.orbit(-2*math.Pi*dx/h, -2*math.Pi*dy/h)
}

// Dolly moves the camera toward (positive wheel) or away from the target.
func (d *Director) Dolly(wheel float64) {
	if !d.InputEnabled() || wheel == 0 {
		return
	}
	d.cam.dolly(math.Pow(0.95, wheel), minDollyDistance, maxDollyDistance)
}
