package rstartree

import (
	"math"
	"math/rand"
)

// bulkEntries is a view over parallel rect/id slices, used by
// groupEntries' quickselect-based OMT partitioning.
type bulkEntries struct {
	rects []Rect
	ids   []int32
}

func (e bulkEntries) less(i, j int, xDim bool) bool {
	if xDim {
		return e.rects[i].MinX < e.rects[j].MinX
	}
	return e.rects[i].MinY < e.rects[j].MinY
}

func (e bulkEntries) swap(i, j int) {
	e.rects[i], e.rects[j] = e.rects[j], e.rects[i]
	e.ids[i], e.ids[j] = e.ids[j], e.ids[i]
}

// quickselect performs a partial sort of e, ensuring that every entry
// before position n has a coordinate (MinX or MinY, per xDim) no
// greater than e[n]'s, and every entry after has one no smaller. This
// is equivalent to finding the nth-smallest entry along that axis.
// Specialized to bulkEntries rather than a generic sort.Interface
// since groupEntries is its only caller and always partitions
// rect/id pairs together.
func quickselect(e bulkEntries, n int, xDim bool) {
	first := 0
	last := len(e.rects) - 1
	for {
		guess := rand.Intn(last-first+1) + first
		pivotIndex := partition(e, first, last, guess, xDim)
		if n == pivotIndex { // found nth element
			return
		} else if n < pivotIndex { // nth element is on the left side
			last = pivotIndex - 1
		} else { // nth element is on the right side
			first = pivotIndex + 1
		}
	}
}

// partition moves all entries with a smaller axis coordinate than the
// pivot to its left, and all bigger values to its right. Returns the
// new position of the pivot.
func partition(e bulkEntries, firstIdx, lastIdx, pivotIdx int, xDim bool) int {
	e.swap(firstIdx, pivotIdx) // move to front
	pivotIdx = firstIdx

	left, right := firstIdx+1, lastIdx

	for left <= right { // move to center
		for left <= lastIdx && e.less(left, pivotIdx, xDim) {
			left++
		}
		for right >= pivotIdx && e.less(pivotIdx, right, xDim) {
			right--
		}
		if left <= right {
			e.swap(left, right)
			left++
			right--
		}
	}
	e.swap(pivotIdx, right) // swap into right place
	return right
}

// groupEntries repeatedly quickselects entries[leftIdx:rightIdx] around
// the center of each groupSize-sized bucket, along whichever axis xDim
// selects, recursing on each side of every pivot. The net effect,
// after being called once per axis, is groupSize-sized runs that are
// each roughly square in extent.
func groupEntries(e bulkEntries, leftIdx, rightIdx, groupSize int, xDim bool) {
	stack := []int{leftIdx, rightIdx}
	for len(stack) > 0 {
		rightIdx, leftIdx = stack[len(stack)-1], stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		size := rightIdx - leftIdx
		if size <= groupSize {
			continue
		}

		groups := float64(size) / float64(groupSize)
		pivot := int(math.Ceil(groups/2)) * groupSize
		sub := bulkEntries{rects: e.rects[leftIdx : rightIdx+1], ids: e.ids[leftIdx : rightIdx+1]}
		quickselect(sub, pivot, xDim)
		pivot += leftIdx

		stack = append(stack, leftIdx, pivot, pivot, rightIdx)
	}
}

// buildOMT recursively partitions entries[left:right] into squarish
// groups (overlap-minimizing top-down bulk loading) and materializes
// the result directly into the arena, returning the id of the
// constructed subtree's root. height is the target node level for the
// current call; 0 requests that it be computed from the remaining
// entry count.
func buildOMT(a *arena, maxEntries int, e bulkEntries, left, right, height int) int32 {
	count := right - left + 1
	maxf := float64(maxEntries)

	if float64(count) <= maxf {
		n := newNode(maxEntries, 1)
		for i := left; i <= right; i++ {
			n.addEntry(e.rects[i], e.ids[i])
		}
		n.recalcMBR()
		return a.alloc(n)
	}

	if height == 0 {
		height = int(math.Ceil(logN(float64(count), maxf)))
		maxCap := math.Pow(maxf, float64(height-1))
		maxf = math.Ceil(float64(count) / maxCap)
	}

	grpY := int(math.Ceil(float64(count) / maxf))
	grpX := grpY * int(math.Ceil(math.Sqrt(maxf)))

	groupEntries(e, left, right, grpX, true)

	n := newNode(maxEntries, height)
	for i := left; i <= right; i += grpX {
		right2 := right
		if i+grpX-1 < right2 {
			right2 = i + grpX - 1
		}
		groupEntries(e, i, right2, grpY, false)

		for j := i; j <= right2; j += grpY {
			right3 := right2
			if j+grpY-1 < right3 {
				right3 = j + grpY - 1
			}
			childID := buildOMT(a, maxEntries, e, j, right3, height-1)
			child := a.get(childID)
			n.addEntry(child.mbr, childID)
		}
	}
	n.recalcMBR()
	return a.alloc(n)
}

// logN returns log(v) in the given base.
func logN(v, base float64) float64 {
	return math.Log(v) / math.Log(base)
}

// NewFromRects builds a new R-tree from rects/ids in one pass using
// overlap-minimizing top-down (OMT) bulk loading, which produces
// noticeably better-packed nodes than inserting one at a time. rects
// and ids must be the same length; behavior is undefined if they
// aren't, and duplicate ids are permitted exactly as with repeated Add
// calls.
func NewFromRects(cfg Config, rects []Rect, ids []int) *RTree {
	t := New(cfg)
	if len(rects) == 0 {
		return t
	}

	entries := bulkEntries{rects: make([]Rect, len(rects)), ids: make([]int32, len(ids))}
	copy(entries.rects, rects)
	for i, id := range ids {
		entries.ids[i] = int32(id)
	}

	if len(entries.rects) < t.cfg.MinNodeEntries {
		for i := range entries.rects {
			t.Add(entries.rects[i], int(entries.ids[i]))
		}
		return t
	}

	a := newArena()
	builtRoot := buildOMT(a, t.cfg.MaxNodeEntries, entries, 0, len(entries.rects)-1, 0)
	built := a.get(builtRoot)

	t.arena = a
	t.rootID = builtRoot
	t.height = built.level
	t.size = len(entries.rects)
	t.checkInvariants()
	return t
}

// BulkInsert grafts a freshly OMT-built subtree of rects/ids into an
// existing, possibly non-empty tree. If the new subtree and the
// current root are the same height, they're combined under a new
// root; otherwise the shorter one is inserted as a single entry at the
// matching level of the taller one, mirroring how a single Add
// descends and splits along the way.
func (t *RTree) BulkInsert(rects []Rect, ids []int) {
	if len(rects) == 0 {
		return
	}
	if t.size == 0 {
		fresh := NewFromRects(t.cfg, rects, ids)
		t.arena = fresh.arena
		t.rootID = fresh.rootID
		t.height = fresh.height
		t.size = fresh.size
		t.checkInvariants()
		return
	}

	entries := bulkEntries{rects: make([]Rect, len(rects)), ids: make([]int32, len(ids))}
	copy(entries.rects, rects)
	for i, id := range ids {
		entries.ids[i] = int32(id)
	}

	if len(entries.rects) < t.cfg.MinNodeEntries {
		for i := range entries.rects {
			t.Add(entries.rects[i], int(entries.ids[i]))
		}
		return
	}

	subArena := newArena()
	subRootID := buildOMT(subArena, t.cfg.MaxNodeEntries, entries, 0, len(entries.rects)-1, 0)
	subRoot := subArena.get(subRootID)
	grafted := t.graftNode(subArena, subRootID)

	t.size += len(entries.rects)
	_ = subRoot
	if grafted {
		t.checkInvariants()
	}
}

// graftNode copies a subtree built in a scratch arena into t's arena
// and inserts it as a single entry at the level matching its height,
// splitting ancestors as needed exactly like addAtLevel. Returns true
// (it cannot currently fail, but mirrors the shape of a fallible
// operation for future extension).
func (t *RTree) graftNode(srcArena *arena, srcID int32) bool {
	newID := copySubtree(srcArena, srcID, t.arena)
	sub := t.arena.get(newID)

	if sub.level > t.height {
		// The grafted subtree is the taller one: it becomes the root,
		// and the old tree is grafted into it at the matching level.
		oldRootID := t.rootID
		t.rootID, t.height = newID, sub.level
		newID, sub = oldRootID, t.arena.get(oldRootID)
	}

	if sub.level == t.height {
		// Same height: combine both under a new root.
		oldRootID := t.rootID
		oldRoot := t.arena.get(oldRootID)
		newRoot := newNode(t.cfg.MaxNodeEntries, t.height+1)
		newRoot.addEntry(oldRoot.mbr, oldRootID)
		newRoot.addEntry(sub.mbr, newID)
		newRoot.recalcMBR()
		t.rootID = t.arena.alloc(newRoot)
		t.height++
		return true
	}

	nodeID := t.descendToLevel(sub.mbr, sub.level+1)
	n := t.arena.get(nodeID)

	var siblingID int32 = -1
	if n.entryCount < len(n.ids) {
		n.addEntry(sub.mbr, newID)
		n.mbr = union(n.mbr, sub.mbr)
	} else {
		siblingID = t.splitNode(nodeID, sub.mbr, newID)
	}

	grown := t.adjustTree(nodeID, siblingID)
	if grown >= 0 {
		t.growRoot(grown)
	}
	return true
}

// descendToLevel walks from the root down to the requested level using
// the same least-enlargement choice as chooseNode, recording the path
// for adjustTree. It's chooseNode with an MBR of the whole subtree
// substituted in, since the grafted subtree's own bounds are what
// should drive the enlargement comparison.
func (t *RTree) descendToLevel(r Rect, level int) int32 {
	return t.chooseNode(r, level)
}

// copySubtree deep-copies the subtree rooted at srcID (in srcArena)
// into dstArena, returning the id of the copy's root.
func copySubtree(srcArena *arena, srcID int32, dstArena *arena) int32 {
	src := srcArena.get(srcID)
	dst := newNode(len(src.ids), src.level)
	for i := 0; i < src.entryCount; i++ {
		if src.isLeaf() {
			dst.addEntry(src.rect(i), src.ids[i])
		} else {
			childID := copySubtree(srcArena, src.ids[i], dstArena)
			dst.addEntry(src.rect(i), childID)
		}
	}
	dst.mbr = src.mbr
	return dstArena.alloc(dst)
}
