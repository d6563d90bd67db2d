package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/cardcrawl/bloom"
)

// Frontier is an in-memory queue of card IDs with Bloom filter
// deduplication. IDs are popped in ascending order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *idHeap
}

// NewFrontier creates a new Frontier sized for n expected IDs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &idHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds an ID to the frontier.
// Returns false if the ID has already been seen.
func (f *Frontier) Push(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(id) {
		return false
	}

	heap.Push(f.queue, id)
	return true
}

// Mark records an ID as seen without queueing it.
// Returns false if the ID has already been seen.
func (f *Frontier) Mark(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(id) {
		return false
	}
	return true
}

// Pop returns the lowest queued ID.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return 0, false
	}
	id, _ := heap.Pop(f.queue).(int)
	return id, true
}

// Drain pops every queued ID.
func (f *Frontier) Drain() []int {
	var ids []int
	for {
		id, ok := f.Pop()
		if !ok {
			return ids
		}
		ids = append(ids, id)
	}
}

// Len returns the number of IDs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the ID has been queued or marked.
func (f *Frontier) Seen(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(id)
}

// idHeap implements heap.Interface as a min-heap of IDs.
type idHeap []int

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	id, _ := x.(int)
	*h = append(*h, id)
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
