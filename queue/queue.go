// Package queue provides the bounded heap used to select the k closest
// candidates without sorting the whole candidate set.
package queue

import "container/heap"

// Compile time check to ensure maxHeap satisfies the heap interface.
var _ heap.Interface = (*maxHeap)(nil)

// Item is a scored candidate.
type Item struct {
	Value    string // Value is the candidate string.
	Distance int    // Distance is the priority of the item in the queue.
	Seq      int    // Seq is the candidate's first-seen position; it breaks distance ties.
}

// less orders items by distance, then by first-seen position.
func less(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Seq < b.Seq
}

// maxHeap holds Items with the worst one on top.
type maxHeap []Item

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return less(h[j], h[i]) }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) { *h = append(*h, x.(Item)) }

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopK keeps the k smallest items seen so far.
// It holds a max-heap of at most k items, so the current worst is on top
// and each offer costs O(log k).
type TopK struct {
	k int
	h maxHeap
}

// NewTopK creates a selector for the k smallest items. k must be positive.
func NewTopK(k int) *TopK {
	if k <= 0 {
		panic("queue: k must be positive")
	}
	return &TopK{
		k: k,
		h: make(maxHeap, 0, min(k, 64)),
	}
}

// Offer considers item for the result set.
func (t *TopK) Offer(item Item) {
	if len(t.h) < t.k {
		heap.Push(&t.h, item)
		return
	}
	if less(item, t.h[0]) {
		t.h[0] = item
		heap.Fix(&t.h, 0)
	}
}

// Len returns the number of retained items.
func (t *TopK) Len() int { return len(t.h) }

// Sorted drains the selector and returns the retained items in ascending order.
func (t *TopK) Sorted() []Item {
	out := make([]Item, len(t.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(Item)
	}
	return out
}

// Values returns the retained values in ascending order and drains the selector.
func (t *TopK) Values() []string {
	items := t.Sorted()
	values := make([]string, len(items))
	for i, it := range items {
		values[i] = it.Value
	}
	return values
}
