package rstartree

// FrozenIndex is a read-only snapshot of an R-tree, produced by
// RTree.ToIndex. It shares the same query implementations as RTree but
// exposes no mutation methods, so it needs none of RTree's scratch
// buffers or reentrancy caveats.
type FrozenIndex struct {
	arena  *arena
	rootID int32
	size   int
}

func (f *FrozenIndex) view() treeView {
	return treeView{
		fetch: func(id int32) *node { return f.arena.get(id) },
		root:  func() int32 { return f.rootID },
	}
}

// Size returns the number of entries in the frozen snapshot.
func (f *FrozenIndex) Size() int {
	return f.size
}

// GetBounds returns the MBR of all entries in the snapshot. The second
// return value is false iff the snapshot is empty.
func (f *FrozenIndex) GetBounds() (Rect, bool) {
	if f.size == 0 {
		return Rect{}, false
	}
	return f.arena.get(f.rootID).mbr, true
}

// Intersects invokes cb once for every entry whose MBR intersects r.
func (f *FrozenIndex) Intersects(r Rect, cb func(id int) bool) {
	queryIntersects(f.view(), r, cb)
}

// Contains invokes cb once for every entry whose MBR is fully
// contained by r.
func (f *FrozenIndex) Contains(r Rect, cb func(id int) bool) {
	queryContains(f.view(), r, cb)
}

// Nearest invokes cb once for every entry tied for nearest to p.
func (f *FrozenIndex) Nearest(p Point, cb func(id int) bool, furthestDistance float32) {
	queryNearest(f.view(), p, cb, furthestDistance)
}

// NearestN invokes cb for up to count nearest entries (more, on a tie
// at the cutoff), nearest first.
func (f *FrozenIndex) NearestN(p Point, count int, furthestDistance float32, cb func(id int) bool) {
	queryNearestN(f.view(), p, count, furthestDistance, true, cb)
}

// NearestNUnsorted behaves like NearestN but delivers results in
// descending distance order.
func (f *FrozenIndex) NearestNUnsorted(p Point, count int, furthestDistance float32, cb func(id int) bool) {
	queryNearestN(f.view(), p, count, furthestDistance, false, cb)
}
