package rstartree

import "sort"

// CollectIDs returns a callback suitable for passing to any of the five
// query operations, together with a pointer to the slice it appends
// matching ids to. The callback never aborts early.
func CollectIDs() (func(id int) bool, *[]int) {
	var ids []int
	cb := func(id int) bool {
		ids = append(ids, id)
		return true
	}
	return cb, &ids
}

// SortedCollectIDs behaves like CollectIDs, but the returned slice is
// sorted by id once the caller is done driving the traversal. Callers
// must finish the query before calling the returned function.
func SortedCollectIDs() (func(id int) bool, func() []int) {
	cb, ids := CollectIDs()
	return cb, func() []int {
		sort.Ints(*ids)
		return *ids
	}
}
