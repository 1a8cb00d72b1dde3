package rstartree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityQueue_Descending(t *testing.T) {
	pq := NewPriorityQueue(Descending)
	pq.Insert(1, 5)
	pq.Insert(2, 9)
	pq.Insert(3, 1)

	assert.Equal(t, float32(9), pq.GetPriority())
	v, p := pq.PopEntry()
	assert.Equal(t, int32(2), v)
	assert.Equal(t, float32(9), p)

	v, p = pq.PopEntry()
	assert.Equal(t, int32(1), v)
	assert.Equal(t, float32(5), p)
}

func TestPriorityQueue_SetSortOrder(t *testing.T) {
	pq := NewPriorityQueue(Descending)
	pq.Insert(1, 5)
	pq.Insert(2, 9)
	pq.Insert(3, 1)

	pq.SetSortOrder(Ascending)
	var order []float32
	for pq.Size() > 0 {
		_, p := pq.PopEntry()
		order = append(order, p)
	}
	assert.Equal(t, []float32{1, 5, 9}, order)
}

func TestPriorityQueue_Empty(t *testing.T) {
	pq := NewPriorityQueue(Ascending)
	assert.Equal(t, 0, pq.Size())
}
