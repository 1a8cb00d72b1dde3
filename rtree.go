package rstartree

// RTree is a mutable, dynamic R-tree indexing axis-aligned rectangles by
// integer id. See New for construction.
//
// A tree is not safe for concurrent mutation, nor for mutation
// re-entered from within a query callback: chooseNode and adjustTree
// reuse the tree's parents/parentsEntry scratch stacks, and splitNode
// its entryStatus buffer, across calls, so a second mutating call
// started before the first returns would corrupt them.
type RTree struct {
	cfg    Config
	arena  *arena
	rootID int32
	height int
	size   int

	// non-reentrant scratch, reused by chooseNode/adjustTree.
	parents      *IntArray
	parentsEntry *IntArray
	entryStatus  []byte // scratch for splitNode's pickNext
}

// New creates an empty R-tree. Out-of-range Config values are replaced
// by their defaults (see Config), with a warning logged.
func New(cfg Config) *RTree {
	cfg = normalize(cfg)
	t := &RTree{
		cfg:          cfg,
		parents:      NewIntArray(8),
		parentsEntry: NewIntArray(8),
		entryStatus:  make([]byte, cfg.MaxNodeEntries+2),
	}
	t.Clear()
	return t
}

// Clear empties the tree, releasing its arena's contents.
func (t *RTree) Clear() {
	if t.arena == nil {
		t.arena = newArena()
	} else {
		t.arena.reset()
	}
	root := newNode(t.cfg.MaxNodeEntries, 1)
	t.rootID = t.arena.alloc(root)
	t.height = 1
	t.size = 0
}

// Size returns the number of (rect, id) entries currently stored.
func (t *RTree) Size() int {
	return t.size
}

// GetBounds returns the MBR of all stored entries. The second return
// value is false iff the tree is empty.
func (t *RTree) GetBounds() (Rect, bool) {
	if t.size == 0 {
		return Rect{}, false
	}
	root := t.arena.get(t.rootID)
	return root.mbr, true
}

// Add inserts (r, id) into the tree.
func (t *RTree) Add(r Rect, id int) {
	t.addAtLevel(r, int32(id), 1)
	t.size++
	t.checkInvariants()
}

// addAtLevel inserts an entry so that it lands at the given absolute
// tree level (1 = leaf). Used directly by Add, and by condenseTree to
// reinsert orphaned entries at their original level.
func (t *RTree) addAtLevel(r Rect, id int32, level int) {
	nodeID := t.chooseNode(r, level)
	n := t.arena.get(nodeID)

	var siblingID int32 = -1
	if n.entryCount < len(n.ids) {
		n.addEntry(r, id)
		n.mbr = union(n.mbr, r)
	} else {
		siblingID = t.splitNode(nodeID, r, id)
	}

	grown := t.adjustTree(nodeID, siblingID)
	if grown >= 0 {
		t.growRoot(grown)
	}
}

// growRoot allocates a new root one level above the current one,
// containing the old root and its freshly produced sibling.
func (t *RTree) growRoot(siblingID int32) {
	newRoot := newNode(t.cfg.MaxNodeEntries, t.height+1)
	oldRoot := t.arena.get(t.rootID)
	newRoot.addEntry(oldRoot.mbr, t.rootID)
	sibling := t.arena.get(siblingID)
	newRoot.addEntry(sibling.mbr, siblingID)
	newRoot.recalcMBR()
	t.rootID = t.arena.alloc(newRoot)
	t.height++
}

// chooseNode walks from the root down to the target level, at each step
// picking the entry needing least enlargement to cover r (ties broken
// by smaller current area), and records the descent path in
// t.parents/t.parentsEntry for adjustTree to retrace.
func (t *RTree) chooseNode(r Rect, level int) int32 {
	t.parents.Reset()
	t.parentsEntry.Reset()

	id := t.rootID
	for {
		n := t.arena.get(id)
		if n.level == level {
			return id
		}

		bestIdx := -1
		var bestEnl, bestArea float32
		for i := 0; i < n.entryCount; i++ {
			rc := n.rect(i)
			enl := enlargement(rc, r)
			ar := area(rc)
			if bestIdx == -1 || enl < bestEnl || (enl == bestEnl && ar < bestArea) {
				bestIdx, bestEnl, bestArea = i, enl, ar
			}
		}

		t.parents.Push(id)
		t.parentsEntry.Push(int32(bestIdx))
		id = n.ids[bestIdx]
	}
}

// adjustTree retraces the path recorded by chooseNode,
// refreshing each parent's entry MBR and, if a split produced a
// sibling, either absorbing it into the parent or splitting the parent
// in turn. Returns the id of a sibling of the root if the split
// propagated all the way up, or -1 if none did.
func (t *RTree) adjustTree(nodeID int32, siblingID int32) int32 {
	for t.parents.Size() > 0 {
		parentID := t.parents.Pop()
		entryIdx := int(t.parentsEntry.Pop())

		parent := t.arena.get(parentID)
		child := t.arena.get(nodeID)
		parent.setRect(entryIdx, child.mbr)
		parent.recalcMBR()

		if siblingID >= 0 {
			sibling := t.arena.get(siblingID)
			if parent.entryCount < len(parent.ids) {
				parent.addEntry(sibling.mbr, siblingID)
				parent.recalcMBR()
				siblingID = -1
			} else {
				siblingID = t.splitNode(parentID, sibling.mbr, siblingID)
			}
		}
		nodeID = parentID
	}
	return siblingID
}

// pickSeeds implements Guttman's linear-time seed selection, picked
// independently per axis and then compared by normalized separation.
// newRect participates as a virtual candidate at index -1.
func (t *RTree) pickSeeds(n *node, newRect Rect) (highestLow, lowestHigh int) {
	count := n.entryCount
	getRect := func(i int) Rect {
		if i == -1 {
			return newRect
		}
		return n.rect(i)
	}
	combined := union(n.mbr, newRect)

	bestSep := float32(-1)
	var bestHi, bestLo int

	considerAxis := func(low func(Rect) float32, high func(Rect) float32, spanMin, spanMax float32) {
		hiIdx, hiVal := -1, low(getRect(-1))
		for i := 0; i < count; i++ {
			v := low(getRect(i))
			if v > hiVal {
				hiVal, hiIdx = v, i
			}
		}
		loIdx, loVal := -1, high(getRect(-1))
		for i := 0; i < count; i++ {
			v := high(getRect(i))
			if v < loVal {
				loVal, loIdx = v, i
			}
		}

		if hiIdx == loIdx {
			// Degenerate case: both criteria landed on the same entry.
			// Fall back to a fixed tie-break by minY / maxX: highestLow
			// starts at the new entry and lowestHigh at entry 0, scanning
			// from entry 1 onward, so the two seeds always differ.
			hiIdx, loIdx = -1, 0
			bestMinY := getRect(-1).MinY
			bestMaxX := getRect(0).MaxX
			for i := 1; i < count; i++ {
				r := getRect(i)
				if r.MinY < bestMinY {
					bestMinY, hiIdx = r.MinY, i
				} else if r.MaxX > bestMaxX {
					bestMaxX, loIdx = r.MaxX, i
				}
			}
			hiVal = low(getRect(hiIdx))
			loVal = high(getRect(loIdx))
		}

		span := spanMax - spanMin
		var sep float32
		if span == 0 {
			sep = 1
		} else {
			sep = (hiVal - loVal) / span
		}
		if sep > bestSep {
			bestSep, bestHi, bestLo = sep, hiIdx, loIdx
		}
	}

	considerAxis(
		func(r Rect) float32 { return r.MinX },
		func(r Rect) float32 { return r.MaxX },
		combined.MinX, combined.MaxX)
	considerAxis(
		func(r Rect) float32 { return r.MinY },
		func(r Rect) float32 { return r.MaxY },
		combined.MinY, combined.MaxY)

	return bestHi, bestLo
}

// splitNode distributes the entries of the overflowing node nodeID,
// plus the new entry (newRect, newID), between nodeID (retained) and a
// freshly allocated sibling, following Guttman's quadratic-cost
// pickNext. Both groups are built up independently and then written
// back in one pass, rather than mutating nodeID's arrays in place,
// since its arrays have no spare capacity for the overflow entry.
func (t *RTree) splitNode(nodeID int32, newRect Rect, newID int32) int32 {
	n := t.arena.get(nodeID)
	count := n.entryCount
	min := t.cfg.MinNodeEntries

	getRect := func(i int) Rect {
		if i == -1 {
			return newRect
		}
		return n.rect(i)
	}
	getID := func(i int) int32 {
		if i == -1 {
			return newID
		}
		return n.ids[i]
	}

	seedHi, seedLo := t.pickSeeds(n, newRect)

	status := t.entryStatus[:count+1] // status[i+1] tracks candidate i (i in -1..count-1)
	for i := range status {
		status[i] = 0
	}
	status[seedHi+1] = 1
	status[seedLo+1] = 1

	groupA := []int{seedLo} // stays in n
	groupB := []int{seedHi} // moves to the new sibling
	rectA := getRect(seedLo)
	rectB := getRect(seedHi)
	countA, countB := 1, 1
	remaining := count + 1 - 2

	assignAllTo := func(toA bool) {
		for i := -1; i < count; i++ {
			if status[i+1] != 0 {
				continue
			}
			status[i+1] = 1
			if toA {
				groupA = append(groupA, i)
				rectA = union(rectA, getRect(i))
				countA++
			} else {
				groupB = append(groupB, i)
				rectB = union(rectB, getRect(i))
				countB++
			}
		}
		remaining = 0
	}

	for remaining > 0 {
		if min-countA >= remaining {
			assignAllTo(true)
			break
		}
		if min-countB >= remaining {
			assignAllTo(false)
			break
		}

		bestIdx := -2 // -2: unset sentinel; valid candidates are -1..count-1
		bestDiff := float32(-1)
		var bestEnlA, bestEnlB float32
		for i := -1; i < count; i++ {
			if status[i+1] != 0 {
				continue
			}
			r := getRect(i)
			eA := enlargement(rectA, r)
			eB := enlargement(rectB, r)
			diff := eA - eB
			if diff < 0 {
				diff = -diff
			}
			if diff > bestDiff {
				bestDiff, bestIdx, bestEnlA, bestEnlB = diff, i, eA, eB
			}
		}

		status[bestIdx+1] = 1
		remaining--

		toA := false
		switch {
		case bestEnlA < bestEnlB:
			toA = true
		case bestEnlB < bestEnlA:
			toA = false
		case area(rectA) < area(rectB):
			toA = true
		case area(rectB) < area(rectA):
			toA = false
		case countA < countB:
			toA = true
		default:
			toA = false // final tie goes to the new sibling
		}

		if toA {
			groupA = append(groupA, bestIdx)
			rectA = union(rectA, getRect(bestIdx))
			countA++
		} else {
			groupB = append(groupB, bestIdx)
			rectB = union(rectB, getRect(bestIdx))
			countB++
		}
	}

	n.entryCount = 0
	for _, i := range groupA {
		n.addEntry(getRect(i), getID(i))
	}
	n.mbr = rectA

	sibling := newNode(len(n.ids), n.level)
	for _, i := range groupB {
		sibling.addEntry(getRect(i), getID(i))
	}
	sibling.mbr = rectB

	return t.arena.alloc(sibling)
}

// Delete removes the entry matching both r and id exactly. Returns
// false (not an error) if no such entry exists.
func (t *RTree) Delete(r Rect, id int) bool {
	if t.size == 0 {
		return false
	}

	leafID, idx, path, ok := t.findLeafEntry(r, int32(id))
	if !ok {
		return false
	}

	leaf := t.arena.get(leafID)
	leaf.deleteEntry(idx)
	leaf.recalcMBR()

	eliminated := t.condenseTree(path)
	t.shrinkRoot()

	for _, nid := range eliminated {
		en := t.arena.get(nid)
		for k := 0; k < en.entryCount; k++ {
			t.addAtLevel(en.rect(k), en.ids[k], en.level)
		}
		t.arena.release(nid)
	}

	t.size--
	if t.size == 0 {
		t.arena.get(t.rootID).mbr = emptyRect
	}
	t.checkInvariants()
	return true
}

// findLeafEntry performs a non-recursive, backtracking descent that
// only enters children whose MBR contains r (per spec.md's deletion
// design note: an entry can only live under internal nodes whose MBR
// contains it, in a well-formed tree). Returns the leaf node id, the
// entry's slot index, and the full root-to-leaf path (for
// condenseTree).
func (t *RTree) findLeafEntry(r Rect, id int32) (leafID int32, idx int, path []int32, found bool) {
	var childIdxs []int
	var parentID int32 = -1
	childIdx := 0
	goingUp := false

	nodeID := t.rootID
	haveNode := true
	for haveNode || len(path) > 0 {
		if !haveNode {
			nodeID = path[len(path)-1]
			path = path[:len(path)-1]
			if len(path) > 0 {
				parentID = path[len(path)-1]
			} else {
				parentID = -1
			}
			childIdx = childIdxs[len(childIdxs)-1]
			childIdxs = childIdxs[:len(childIdxs)-1]
			goingUp = true
			haveNode = true
		}

		n := t.arena.get(nodeID)
		if n.isLeaf() {
			for i := 0; i < n.entryCount; i++ {
				if n.ids[i] == id && n.rect(i) == r {
					return nodeID, i, append(path, nodeID), true
				}
			}
		}

		if !goingUp && !n.isLeaf() && contains(n.mbr, r) {
			path = append(path, nodeID)
			childIdxs = append(childIdxs, childIdx)
			childIdx = 0
			parentID = nodeID
			nodeID = n.ids[0]
		} else if parentID >= 0 {
			haveNode = false
			childIdx++
			parent := t.arena.get(parentID)
			if childIdx < parent.entryCount {
				nodeID = parent.ids[childIdx]
				haveNode = true
			}
			goingUp = false
		} else {
			haveNode = false
		}
	}
	return 0, 0, nil, false
}

// condenseTree walks the root-to-leaf path bottom-up. Under-full nodes
// are detached from their parent and returned for the caller to
// reinsert; other nodes have their parent's entry tightened.
func (t *RTree) condenseTree(path []int32) []int32 {
	var eliminated []int32
	for i := len(path) - 1; i > 0; i-- {
		nid := path[i]
		n := t.arena.get(nid)
		parentID := path[i-1]
		parent := t.arena.get(parentID)
		idx := indexOfChild(parent, nid)

		if n.entryCount < t.cfg.MinNodeEntries {
			parent.deleteEntry(idx)
			parent.recalcMBR()
			eliminated = append(eliminated, nid)
		} else {
			parent.setRect(idx, n.mbr)
			parent.recalcMBR()
		}
	}
	return eliminated
}

// shrinkRoot collapses the root while it has exactly one entry and is
// not already a leaf.
func (t *RTree) shrinkRoot() {
	for t.height > 1 {
		root := t.arena.get(t.rootID)
		if root.entryCount != 1 {
			break
		}
		childID := root.ids[0]
		t.arena.release(t.rootID)
		t.rootID = childID
		t.height--
	}
}

func indexOfChild(parent *node, childID int32) int {
	for i := 0; i < parent.entryCount; i++ {
		if parent.ids[i] == childID {
			return i
		}
	}
	panic("rstartree: child node id not found in its recorded parent")
}

func (t *RTree) view() treeView {
	return treeView{
		fetch: func(id int32) *node { return t.arena.get(id) },
		root:  func() int32 { return t.rootID },
	}
}

// Intersects invokes cb once for every stored entry whose MBR
// intersects r, inclusive of touching edges. cb's return value
// controls early termination.
func (t *RTree) Intersects(r Rect, cb func(id int) bool) {
	queryIntersects(t.view(), r, cb)
}

// Contains invokes cb once for every stored entry whose MBR is fully
// contained by r.
func (t *RTree) Contains(r Rect, cb func(id int) bool) {
	queryContains(t.view(), r, cb)
}

// Nearest invokes cb once for every entry tied for nearest to p (by
// squared Euclidean distance to its MBR), among entries within
// furthestDistance. Pass +Inf for an unbounded search.
func (t *RTree) Nearest(p Point, cb func(id int) bool, furthestDistance float32) {
	queryNearest(t.view(), p, cb, furthestDistance)
}

// NearestN invokes cb for up to count nearest entries (more, on a tie
// at the cutoff), in non-decreasing distance order.
func (t *RTree) NearestN(p Point, count int, furthestDistance float32, cb func(id int) bool) {
	queryNearestN(t.view(), p, count, furthestDistance, true, cb)
}

// NearestNUnsorted behaves like NearestN but delivers results in
// descending distance order, skipping the final heap-flip. It returns
// the same multiset as NearestN for the same inputs.
func (t *RTree) NearestNUnsorted(p Point, count int, furthestDistance float32, cb func(id int) bool) {
	queryNearestN(t.view(), p, count, furthestDistance, false, cb)
}

// ToIndex freezes the tree into a read-only FrozenIndex, transferring
// ownership of the arena. The receiver is left empty and ready for reuse.
func (t *RTree) ToIndex() *FrozenIndex {
	idx := &FrozenIndex{
		arena:  t.arena,
		rootID: t.rootID,
		size:   t.size,
	}
	// t.arena is now owned by idx; Clear must allocate a fresh one
	// rather than resetting the one just handed off.
	t.arena = nil
	t.Clear()
	return idx
}
