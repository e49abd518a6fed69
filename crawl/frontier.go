// Package crawl provides crawl orchestration: the depth-ordered frontier,
// adaptive request pacing, bounded retries, the fetch scheduler and the
// per-request run coordinator.
package crawl

import (
	"container/heap"
	"sync"

	"github.com/sitezip/sitezip"
	"github.com/sitezip/sitezip/bloom"
)

// Compile-time interface verification.
var _ sitezip.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory crawl queue ordered by depth (breadth-first:
// shallow entries are popped before deep ones, FIFO within a depth) with
// Bloom filter deduplication. A URL is marked seen when pushed, so the
// first-discovered depth wins; a later rediscovery at any depth is
// rejected and the stored depth is never revisited.
//
// Frontier is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *entryHeap
	seq   uint64
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &entryHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds an entry to the frontier. The URL is expected to be canonical.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(entry sitezip.FrontierEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Test(entry.URL) {
		return false
	}
	f.seen.Add(entry.URL)

	f.seq++
	heap.Push(f.queue, queuedEntry{entry: entry, seq: f.seq})
	return true
}

// Pop returns the shallowest pending entry.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (sitezip.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return sitezip.FrontierEntry{}, false
	}
	qe, _ := heap.Pop(f.queue).(queuedEntry)
	return qe.entry, true
}

// Len returns the number of entries waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been dispatched or queued.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(url)
}

// queuedEntry pairs an entry with its insertion sequence so that entries at
// the same depth pop in FIFO order.
type queuedEntry struct {
	entry sitezip.FrontierEntry
	seq   uint64
}

// entryHeap implements heap.Interface as a min-heap on depth.
type entryHeap []queuedEntry

func (h entryHeap) Len() int { return len(h) }

// Less orders by depth first, insertion order second.
func (h entryHeap) Less(i, j int) bool {
	if h[i].entry.Depth != h[j].entry.Depth {
		return h[i].entry.Depth < h[j].entry.Depth
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	qe, _ := x.(queuedEntry)
	*h = append(*h, qe)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
