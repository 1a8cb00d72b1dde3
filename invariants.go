package rstartree

import "log"

// DebugChecks gates a post-mutation consistency pass over the whole
// tree. It is off by default because it walks every node; enable it in
// tests or while debugging a suspected invariant violation.
var DebugChecks = false

// checkInvariants walks the tree from the root and reports (via log,
// never via a returned error or panic) any violation of spec invariants
// 1-4: entry counts, cached-MBR tightness, child/parent MBR agreement,
// and level consistency. It is a no-op unless DebugChecks is true.
func (t *RTree) checkInvariants() {
	if !DebugChecks || t.size == 0 {
		return
	}
	t.checkNode(t.rootID, t.height, true)
}

func (t *RTree) checkNode(id int32, expectLevel int, isRoot bool) {
	n := t.arena.get(id)
	if n == nil {
		log.Printf("rstartree: consistency violation: nil node at id %d", id)
		return
	}
	if n.level != expectLevel {
		log.Printf("rstartree: consistency violation: node %d has level %d, expected %d", id, n.level, expectLevel)
	}
	if !isRoot {
		if n.entryCount < t.cfg.MinNodeEntries {
			log.Printf("rstartree: consistency violation: node %d underflows (%d < %d)", id, n.entryCount, t.cfg.MinNodeEntries)
		}
	}
	if n.entryCount > t.cfg.MaxNodeEntries {
		log.Printf("rstartree: consistency violation: node %d overflows (%d > %d)", id, n.entryCount, t.cfg.MaxNodeEntries)
	}

	tight := emptyRect
	for i := 0; i < n.entryCount; i++ {
		tight = union(tight, n.rect(i))
		if !n.isLeaf() {
			child := t.arena.get(n.ids[i])
			if child != nil && child.mbr != n.rect(i) {
				log.Printf("rstartree: consistency violation: node %d entry %d MBR does not match child %d's cached MBR", id, i, n.ids[i])
			}
			t.checkNode(n.ids[i], expectLevel-1, false)
		}
	}
	if n.entryCount > 0 && tight != n.mbr {
		log.Printf("rstartree: consistency violation: node %d cached MBR is not tight", id)
	}
}
