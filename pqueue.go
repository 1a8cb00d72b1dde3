package rstartree

import "container/heap"

// SortOrder selects whether PriorityQueue.PopEntry yields the lowest or the
// highest priority first.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

type pqEntry struct {
	priority float32
	value    int32
}

// PriorityQueue is a binary heap keyed by a 32-bit float priority,
// holding a 32-bit integer payload. The nearestN traversal uses it two
// ways: as a descending "worst-first" heap while gathering candidates
// (so the worst of the current top-N sits at the top, ready to be
// evicted), then flips it to ascending order to drain results in
// nearest-first order.
type PriorityQueue struct {
	items []pqEntry
	order SortOrder
}

// NewPriorityQueue returns an empty queue sorted in the given order.
func NewPriorityQueue(order SortOrder) *PriorityQueue {
	return &PriorityQueue{order: order}
}

func (q *PriorityQueue) Len() int { return len(q.items) }

func (q *PriorityQueue) Less(i, j int) bool {
	if q.order == Ascending {
		return q.items[i].priority < q.items[j].priority
	}
	return q.items[i].priority > q.items[j].priority
}

func (q *PriorityQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *PriorityQueue) Push(x interface{}) {
	q.items = append(q.items, x.(pqEntry))
}

func (q *PriorityQueue) Pop() interface{} {
	n := len(q.items)
	e := q.items[n-1]
	q.items = q.items[:n-1]
	return e
}

// Insert adds (value, priority) to the heap.
func (q *PriorityQueue) Insert(value int32, priority float32) {
	heap.Push(q, pqEntry{priority: priority, value: value})
}

// Size returns the number of entries currently held.
func (q *PriorityQueue) Size() int {
	return len(q.items)
}

// GetValue returns the payload at the top of the heap. Panics if empty.
func (q *PriorityQueue) GetValue() int32 {
	return q.items[0].value
}

// GetPriority returns the priority at the top of the heap. Panics if empty.
func (q *PriorityQueue) GetPriority() float32 {
	return q.items[0].priority
}

// PopEntry removes and returns the top (value, priority) pair.
func (q *PriorityQueue) PopEntry() (int32, float32) {
	e := heap.Pop(q).(pqEntry)
	return e.value, e.priority
}

// SetSortOrder switches the heap's order and rebuilds it in place.
func (q *PriorityQueue) SetSortOrder(order SortOrder) {
	if q.order == order {
		return
	}
	q.order = order
	heap.Init(q)
}
