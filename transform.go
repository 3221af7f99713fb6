package orrery

import "math"

// Vec3 is a 3D vector in world units. +Y is up, the default camera looks down -Z.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Mul(t)) }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Rotation holds Euler angles in radians. Only pitch (X) and yaw (Y) are
// used; panels and cards never roll.
type Rotation struct {
	Pitch, Yaw float64
}

// basis returns the right, up and forward unit vectors of the rotation.
// With zero rotation forward is +Z (a quad faces the default camera).
func (r Rotation) basis() (right, up, forward Vec3) {
	sy, cy := math.Sincos(r.Yaw)
	sp, cp := math.Sincos(r.Pitch)
	forward = Vec3{sy * cp, -sp, cy * cp}
	right = Vec3{cy, 0, -sy}
	up = forward.Cross(right)
	return right, up, forward
}

// apply rotates v by the rotation (yaw about Y after pitch about X).
func (r Rotation) apply(v Vec3) Vec3 {
	right, up, forward := r.basis()
	return right.Mul(v.X).Add(up.Mul(v.Y)).Add(forward.Mul(v.Z))
}

// facing returns the rotation whose forward vector points along dir.
func facing(dir Vec3) Rotation {
	d := dir.Normalize()
	if d == (Vec3{}) {
		return Rotation{}
	}
	return Rotation{
		Pitch: -math.Asin(clampRange(d.Y, -1, 1)),
		Yaw:   math.Atan2(d.X, d.Z),
	}
}

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin, Dir Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// intersectSphere returns the nearest non-negative distance at which the ray
// meets the sphere. A ray starting inside the sphere reports the exit point.
func (r Ray) intersectSphere(center Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// intersectRect tests the ray against a double-sided rectangle centred at
// center, spanned by the unit axes right and up with the given half extents.
func (r Ray) intersectRect(center, right, up Vec3, halfW, halfH float64) (float64, bool) {
	if halfW <= 0 || halfH <= 0 {
		return 0, false
	}
	normal := right.Cross(up)
	denom := normal.Dot(r.Dir)
	if math.Abs(denom) < 1e-9 {
		return 0, false
	}
	t := normal.Dot(center.Sub(r.Origin)) / denom
	if t < 0 {
		return 0, false
	}
	local := r.At(t).Sub(center)
	if math.Abs(local.Dot(right)) > halfW || math.Abs(local.Dot(up)) > halfH {
		return 0, false
	}
	return t, true
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
