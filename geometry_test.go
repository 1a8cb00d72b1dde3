package rstartree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersectsAndContains(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 15, 15}
	c := Rect{2, 2, 8, 8}
	d := Rect{20, 20, 21, 21}

	assert.True(t, intersects(a, b))
	assert.True(t, intersects(a, c))
	assert.False(t, intersects(a, d))

	assert.True(t, contains(a, c))
	assert.False(t, contains(a, b))
	assert.True(t, contains(a, a))
}

func TestUnionAndArea(t *testing.T) {
	a := Rect{0, 0, 2, 2}
	b := Rect{1, 1, 4, 4}
	u := union(a, b)
	assert.Equal(t, Rect{0, 0, 4, 4}, u)
	assert.Equal(t, float32(16), area(u))
}

func TestEnlargement(t *testing.T) {
	a := Rect{0, 0, 2, 2}
	assert.Equal(t, float32(0), enlargement(a, Rect{0, 0, 1, 1}))
	assert.Equal(t, float32(5), enlargement(a, Rect{0, 0, 3, 3}))
}

func TestEnlargement_UnboundedOperand(t *testing.T) {
	assert.Equal(t, float32(0), enlargement(emptyRect, Rect{0, 0, 1, 1}))
}

func TestDistanceSq(t *testing.T) {
	r := Rect{0, 0, 2, 2}
	assert.Equal(t, float32(0), distanceSq(r, Point{1, 1}))
	assert.Equal(t, float32(1), distanceSq(r, Point{3, 0}))
	assert.Equal(t, float32(2), distanceSq(r, Point{3, 3}))

	d := distance(r, Point{3, 3})
	assert.True(t, math.Abs(float64(d)-math.Sqrt2) < 1e-5)
}

func TestEdgeOverlaps(t *testing.T) {
	a := Rect{0, 0, 1, 1}
	b := Rect{1, 0, 2, 1}
	assert.True(t, edgeOverlaps(a, b))

	c := Rect{0.5, 0.5, 1.5, 1.5}
	assert.False(t, edgeOverlaps(a, c))

	d := Rect{5, 5, 6, 6}
	assert.False(t, edgeOverlaps(a, d))
}
