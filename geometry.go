package rstartree

import (
	"github.com/maja42/vmath"
	"github.com/maja42/vmath/math32"
)

// Rect is an axis-aligned rectangle with 32-bit float coordinates.
// The invariant MinX<=MaxX && MinY<=MaxY is assumed by every operation
// below; callers constructing a Rect by hand must uphold it themselves.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// Point is a 2D point with 32-bit float coordinates.
type Point struct {
	X, Y float32
}

// emptyRect is the sentinel used so that the first union() call against
// it always yields the other operand.
var emptyRect = Rect{
	MinX: math32.Infinity,
	MinY: math32.Infinity,
	MaxX: math32.NegInfinity,
	MaxY: math32.NegInfinity,
}

// intersects reports whether a and b overlap, inclusive of touching edges.
func intersects(a, b Rect) bool {
	return a.MaxX >= b.MinX && a.MinX <= b.MaxX &&
		a.MaxY >= b.MinY && a.MinY <= b.MaxY
}

// contains reports whether b lies entirely within a, inclusive of
// touching edges.
func contains(a, b Rect) bool {
	return b.MinX >= a.MinX && b.MaxX <= a.MaxX &&
		b.MinY >= a.MinY && b.MaxY <= a.MaxY
}

// area returns the rectangle's area. An empty-sentinel rectangle (mins at
// +Inf, maxes at -Inf) yields a negative-infinite span; callers must not
// feed the sentinel to area directly except through union.
func area(r Rect) float32 {
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

// union returns the smallest rectangle enclosing both a and b.
func union(a, b Rect) Rect {
	return Rect{
		MinX: vmath.Min(a.MinX, b.MinX),
		MinY: vmath.Min(a.MinY, b.MinY),
		MaxX: vmath.Max(a.MaxX, b.MaxX),
		MaxY: vmath.Max(a.MaxY, b.MaxY),
	}
}

// enlargement returns the area added to a's bounding box by enlarging it
// to also cover b. Per spec: infinite if the union is unbounded, zero if
// a is already unbounded.
func enlargement(a, b Rect) float32 {
	aArea := area(a)
	if math32.IsInf(aArea, 1) {
		return 0
	}
	u := union(a, b)
	uArea := area(u)
	if math32.IsInf(uArea, 1) {
		return math32.Infinity
	}
	return uArea - aArea
}

// distanceSq returns the squared Euclidean distance from p to the
// nearest point on r. Zero when p lies inside (or on the boundary of) r.
func distanceSq(r Rect, p Point) float32 {
	dx := vmath.Max(vmath.Max(r.MinX-p.X, 0), p.X-r.MaxX)
	dy := vmath.Max(vmath.Max(r.MinY-p.Y, 0), p.Y-r.MaxY)
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance from p to the nearest point on r.
func distance(r Rect, p Point) float32 {
	return math32.Sqrt(distanceSq(r, p))
}

// edgeOverlaps reports whether a and b intersect but only along a shared
// boundary (their intersection has zero area). Exercised by the tests
// of the touching-edge boundary case.
func edgeOverlaps(a, b Rect) bool {
	if !intersects(a, b) {
		return false
	}
	ix := Rect{
		MinX: vmath.Max(a.MinX, b.MinX),
		MinY: vmath.Max(a.MinY, b.MinY),
		MaxX: vmath.Min(a.MaxX, b.MaxX),
		MaxY: vmath.Min(a.MaxY, b.MaxY),
	}
	return area(ix) == 0
}
