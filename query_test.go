package rstartree

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersects(t *testing.T) {
	tree := New(Config{MaxNodeEntries: 4, MinNodeEntries: 2})
	tree.Add(Rect{0, 0, 1, 1}, 1)
	tree.Add(Rect{5, 5, 6, 6}, 2)
	tree.Add(Rect{0, 5, 1, 6}, 3)

	cb, ids := CollectIDs()
	tree.Intersects(Rect{-1, -1, 2, 2}, cb)
	assert.ElementsMatch(t, []int{1}, *ids)
}

func TestIntersects_TouchingEdgeCounts(t *testing.T) {
	tree := New(Config{})
	tree.Add(Rect{0, 0, 1, 1}, 1)

	cb, ids := CollectIDs()
	tree.Intersects(Rect{1, 1, 2, 2}, cb)
	assert.Equal(t, []int{1}, *ids)
}

func TestContains(t *testing.T) {
	tree := New(Config{MaxNodeEntries: 4, MinNodeEntries: 2})
	tree.Add(Rect{0, 0, 1, 1}, 1)
	tree.Add(Rect{0, 0, 10, 10}, 2)
	tree.Add(Rect{20, 20, 21, 21}, 3)

	cb, ids := CollectIDs()
	tree.Contains(Rect{-5, -5, 15, 15}, cb)
	assert.ElementsMatch(t, []int{1, 2}, *ids)
}

func TestContains_EarlyStop(t *testing.T) {
	tree := New(Config{})
	tree.Add(Rect{0, 0, 1, 1}, 1)
	tree.Add(Rect{1, 1, 2, 2}, 2)

	var seen []int
	tree.Contains(Rect{0, 0, 5, 5}, func(id int) bool {
		seen = append(seen, id)
		return false
	})
	assert.Len(t, seen, 1)
}

func TestNearest_Ties(t *testing.T) {
	tree := New(Config{})
	tree.Add(Rect{0, 0, 0, 0}, 1)
	tree.Add(Rect{2, 0, 2, 0}, 2)
	tree.Add(Rect{0, 2, 0, 2}, 3)

	cb, ids := CollectIDs()
	tree.Nearest(Point{1, 1}, cb, float32(math.MaxFloat32))
	assert.ElementsMatch(t, []int{1, 2, 3}, *ids)
}

func TestNearest_FurthestDistanceExcludes(t *testing.T) {
	tree := New(Config{})
	tree.Add(Rect{0, 0, 0, 0}, 1)
	tree.Add(Rect{100, 100, 100, 100}, 2)

	cb, ids := CollectIDs()
	tree.Nearest(Point{0, 0}, cb, 1)
	assert.Equal(t, []int{1}, *ids)
}

func TestNearestN_SortedAscending(t *testing.T) {
	tree := New(Config{MaxNodeEntries: 4, MinNodeEntries: 2})
	for i := 0; i < 20; i++ {
		tree.Add(Rect{float32(i), 0, float32(i), 0}, i)
	}

	var order []float32
	cb := func(id int) bool {
		order = append(order, float32(id))
		return true
	}
	tree.NearestN(Point{0, 0}, 5, float32(math.MaxFloat32), cb)

	assert.True(t, sort.SliceIsSorted(order, func(i, j int) bool { return order[i] < order[j] }))
	assert.Len(t, order, 5)
}

func TestNearestN_UnsortedMatchesSortedMultiset(t *testing.T) {
	rand.Seed(1)
	tree := New(Config{MaxNodeEntries: 4, MinNodeEntries: 2})
	for i := 0; i < 200; i++ {
		tree.Add(Rect{rand.Float32() * 50, rand.Float32() * 50, 0, 0}.normalized(), i)
	}

	cbSorted, sorted := CollectIDs()
	tree.NearestN(Point{25, 25}, 15, float32(math.MaxFloat32), cbSorted)

	cbUnsorted, unsorted := CollectIDs()
	tree.NearestNUnsorted(Point{25, 25}, 15, float32(math.MaxFloat32), cbUnsorted)

	assert.ElementsMatch(t, *sorted, *unsorted)
}

func TestNearestN_TiesAtCutoffAreAllIncluded(t *testing.T) {
	tree := New(Config{})
	// Four points tied at distance 1 from the origin, plus one closer.
	tree.Add(Rect{0, 0, 0, 0}, 0)
	tree.Add(Rect{1, 0, 1, 0}, 1)
	tree.Add(Rect{-1, 0, -1, 0}, 2)
	tree.Add(Rect{0, 1, 0, 1}, 3)
	tree.Add(Rect{0, -1, 0, -1}, 4)

	cb, ids := CollectIDs()
	tree.NearestN(Point{0, 0}, 2, float32(math.MaxFloat32), cb)

	assert.Contains(t, *ids, 0)
	assert.GreaterOrEqual(t, len(*ids), 2)
	for _, id := range (*ids)[1:] {
		assert.Contains(t, []int{1, 2, 3, 4}, id)
	}
}

func (r Rect) normalized() Rect {
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}

