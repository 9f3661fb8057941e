package datastructure

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var (
	ErrEmptyHeap    = errors.New("heap is empty")
	ErrItemNotFound = errors.New("item not in heap")
)

type PriorityQueueNode[T constraints.Integer] struct {
	Rank float64
	Item T
}

// MinHeap binary heap priority queue keyed by item. Equal ranks are ordered by
// item so the pop order never depends on insertion history.
type MinHeap[T constraints.Integer] struct {
	heap []PriorityQueueNode[T]
	pos  map[T]int
}

func NewMinHeap[T constraints.Integer]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	a, b := h.heap[i], h.heap[j]
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Item < b.Item
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}

// heapifyUp. swap with the parent while the parent is larger. O(logN).
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown. swap with the smallest child while it is smaller. O(logN).
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Contains(item T) bool {
	_, ok := h.pos[item]
	return ok
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return PriorityQueueNode[T]{}, ErrEmptyHeap
	}
	return h.heap[0], nil
}

// Insert adds the item, or moves it to the new rank if it is already queued.
func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	if i, ok := h.pos[key.Item]; ok {
		old := h.heap[i].Rank
		h.heap[i].Rank = key.Rank
		if key.Rank < old {
			h.heapifyUp(i)
		} else {
			h.heapifyDown(i)
		}
		return
	}
	h.heap = append(h.heap, key)
	h.pos[key.Item] = len(h.heap) - 1
	h.heapifyUp(len(h.heap) - 1)
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return PriorityQueueNode[T]{}, ErrEmptyHeap
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, root.Item)
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey lowers the rank of a queued item. A higher rank is ignored.
func (h *MinHeap[T]) DecreaseKey(key PriorityQueueNode[T]) error {
	i, ok := h.pos[key.Item]
	if !ok {
		return ErrItemNotFound
	}
	if key.Rank >= h.heap[i].Rank {
		return nil
	}
	h.heap[i].Rank = key.Rank
	h.heapifyUp(i)
	return nil
}

// Clear empties the heap but keeps its backing storage for reuse.
func (h *MinHeap[T]) Clear() {
	h.heap = h.heap[:0]
	clear(h.pos)
}
