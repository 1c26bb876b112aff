package simcore

import "math"

// Vector2 is a point or displacement in stage space.
type Vector2 struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v-o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v*s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vector2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Mirror flips X, used whenever a quantity needs reflecting by facing.
func (v Vector2) Mirror() Vector2 {
	return Vector2{-v.X, v.Y}
}

// Rect is an axis-aligned rectangle expressed by two opposite corners.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Contains reports whether p lies within the rect, inclusive.
func (r Rect) Contains(p Vector2) bool {
	minX, maxX := math.Min(r.X1, r.X2), math.Max(r.X1, r.X2)
	minY, maxY := math.Min(r.Y1, r.Y2), math.Max(r.Y1, r.Y2)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// Overlaps reports whether two AABBs intersect.
func (r Rect) Overlaps(o Rect) bool {
	minX, maxX := math.Min(r.X1, r.X2), math.Max(r.X1, r.X2)
	minY, maxY := math.Min(r.Y1, r.Y2), math.Max(r.Y1, r.Y2)
	ominX, omaxX := math.Min(o.X1, o.X2), math.Max(o.X1, o.X2)
	ominY, omaxY := math.Min(o.Y1, o.Y2), math.Max(o.Y1, o.Y2)
	return minX <= omaxX && maxX >= ominX && minY <= omaxY && maxY >= ominY
}

// Segment is a directed line segment (x1,y1) -> (x2,y2).
type Segment struct {
	P1, P2 Vector2
}

// Angle is the segment's direction in radians, as atan2(dy, dx).
func (s Segment) Angle() float64 {
	return math.Atan2(s.P2.Y-s.P1.Y, s.P2.X-s.P1.X)
}

// Length returns the segment's length.
func (s Segment) Length() float64 {
	return s.P2.Sub(s.P1).Len()
}

// Intersects tests two segments for intersection and, on success, returns
// the intersection point and the parametric position (0..1) along s.
func (s Segment) Intersects(o Segment) (Vector2, float64, bool) {
	r := s.P2.Sub(s.P1)
	q := o.P2.Sub(o.P1)
	rxq := r.X*q.Y - r.Y*q.X
	if rxq == 0 {
		return Vector2{}, 0, false
	}
	qmp := o.P1.Sub(s.P1)
	t := (qmp.X*q.Y - qmp.Y*q.X) / rxq
	u := (qmp.X*r.Y - qmp.Y*r.X) / rxq
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vector2{}, 0, false
	}
	return s.P1.Add(r.Scale(t)), t, true
}

// circleOverlap tests two circles (centre, radius) for overlap.
func circleOverlap(c1 Vector2, r1 float64, c2 Vector2, r2 float64) bool {
	d := c1.Sub(c2).Len()
	return d <= r1+r2
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func signf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
