package orrery

import "math"

// Pose is where the camera sits and what it looks at.
type Pose struct {
	Position Vec3
	Target   Vec3
}

// Camera is a perspective camera projecting world space onto a viewport.
type Camera struct {
	Pose

	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near and Far bound the depth range that is drawn and picked.
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
}

var worldUp = Vec3{0, 1, 0}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		Pose:     Pose{Position: Vec3{0, 3, 25}},
		FOV:      75,
		Near:     0.1,
		Far:      100,
		Viewport: viewport,
	}
}

// Aspect returns the viewport width divided by its height.
func (c *Camera) Aspect() float64 {
	if c.Viewport.Height <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// basis returns the camera's right, up and forward unit vectors.
func (c *Camera) basis() (right, up, forward Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	if forward == (Vec3{}) {
		forward = Vec3{0, 0, -1}
	}
	right = forward.Cross(worldUp).Normalize()
	if right == (Vec3{}) {
		right = Vec3{1, 0, 0}
	}
	up = right.Cross(forward)
	return right, up, forward
}

func (c *Camera) focal() float64 {
	return 1 / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a world point to viewport pixels. depth is the distance along
// the view axis; ok is false when the point lies outside [Near, Far].
func (c *Camera) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	right, up, forward := c.basis()
	d := p.Sub(c.Position)
	depth = d.Dot(forward)
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	f := c.focal()
	ndcX := d.Dot(right) * f / (c.Aspect() * depth)
	ndcY := d.Dot(up) * f / depth
	sx = c.Viewport.X + (ndcX+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ndcY)/2*c.Viewport.Height
	return sx, sy, depth, true
}

// ScreenRay returns the ray from the camera through viewport pixel (sx, sy).
func (c *Camera) ScreenRay(sx, sy float64) Ray {
	right, up, forward := c.basis()
	ndcX := (sx-c.Viewport.X)/c.Viewport.Width*2 - 1
	ndcY := 1 - (sy-c.Viewport.Y)/c.Viewport.Height*2
	f := c.focal()
	dir := forward.
		Add(right.Mul(ndcX * c.Aspect() / f)).
		Add(up.Mul(ndcY / f))
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// PixelsPerUnit returns how many viewport pixels one world unit spans at the
// given view depth.
func (c *Camera) PixelsPerUnit(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.Viewport.Height / 2 * c.focal() / depth
}

// orbit rotates the camera position around the target. Positive azimuth
// turns the camera to the right around the vertical axis; polar tilts it and
// is clamped short of the poles.
func (c *Camera) orbit(azimuth, polar float64) {
	off := c.Position.Sub(c.Target)
	r := off.Len()
	if r == 0 {
		return
	}
	theta := math.Atan2(off.X, off.Z) + azimuth
	phi := math.Acos(clampRange(off.Y/r, -1, 1)) + polar
	phi = clampRange(phi, 0.1, math.Pi-0.1)
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	c.Position = c.Target.Add(Vec3{r * sp * st, r * cp, r * sp * ct})
}

// dolly moves the camera along its view axis so that its distance to the
// target becomes dist * factor, clamped to [minDist, maxDist].
func (c *Camera) dolly(factor, minDist, maxDist float64) {
	off := c.Position.Sub(c.Target)
	r := off.Len()
	if r == 0 {
		return
	}
	nr := clampRange(r*factor, minDist, maxDist)
	c.Position = c.Target.Add(off.Mul(nr / r))
}
