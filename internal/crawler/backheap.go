package crawler

import (
	"container/heap"
	"sync"
	"time"
)

// backHeapEntry is a (ready_at_ms, host) pair: host may be fetched again
// once the wall clock passes ReadyAt.
type backHeapEntry struct {
	host    string
	readyAt int64 // unix millis
	index   int   // heap.Interface bookkeeping
}

// entryHeap implements container/heap.Interface, ordered by ReadyAt
// ascending.
type entryHeap []*backHeapEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].readyAt < h[j].readyAt }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x interface{}) {
	e := x.(*backHeapEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// BackHeap is the min-heap of (ready_at, host) pairs that schedules which
// host may be fetched next, enforcing the per-host politeness delay. One
// mutex guards the heap, the membership index, and the history set
// together, per the design doc's concurrency model.
type BackHeap struct {
	mu      sync.Mutex
	heap    entryHeap
	byHost  map[string]*backHeapEntry
	history map[string]struct{}
	delay   time.Duration
	now     func() time.Time
}

// NewBackHeap creates an empty back heap with the given per-host
// politeness delay.
func NewBackHeap(delay time.Duration) *BackHeap {
	return &BackHeap{
		heap:    entryHeap{},
		byHost:  make(map[string]*backHeapEntry),
		history: make(map[string]struct{}),
		delay:   delay,
		now:     time.Now,
	}
}

// Push adds host to the heap. If delay is true, the host becomes ready
// Δ in the future; otherwise it is ready immediately. Push fails (returns
// false) if host is already present — a host is either in the heap or
// being processed by exactly one worker, never both.
func (h *BackHeap) Push(host string, delay bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.byHost[host]; exists {
		return false
	}

	readyAt := int64(0)
	if delay {
		readyAt = h.now().UnixMilli() + h.delay.Milliseconds()
	}

	entry := &backHeapEntry{host: host, readyAt: readyAt}
	heap.Push(&h.heap, entry)
	h.byHost[host] = entry
	h.history[host] = struct{}{}

	return true
}

// Pop removes and returns the host with the smallest ready_at, along with
// how long the caller should wait before fetching it. It does not
// re-push the host — the caller owns it until it pushes it back.
func (h *BackHeap) Pop() (waitMs int64, host string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.heap.Len() == 0 {
		return 0, "", false
	}

	entry := heap.Pop(&h.heap).(*backHeapEntry)
	delete(h.byHost, entry.host)

	wait := entry.readyAt - h.now().UnixMilli()
	if wait < 0 {
		wait = 0
	}

	return wait, entry.host, true
}

// Contains reports whether host currently sits in the heap.
func (h *BackHeap) Contains(host string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.byHost[host]
	return ok
}

// EverSeen reports whether host has ever been pushed onto the heap, even
// if it has since been popped. The frontier uses this to decide whether a
// host is eligible for a brand-new back queue.
func (h *BackHeap) EverSeen(host string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.history[host]
	return ok
}

// Hosts returns the hosts currently waiting in the heap, for diagnostics.
func (h *BackHeap) Hosts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	hosts := make([]string, 0, len(h.heap))
	for _, e := range h.heap {
		hosts = append(hosts, e.host)
	}
	return hosts
}

// Len returns the number of hosts currently waiting in the heap.
func (h *BackHeap) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.heap.Len()
}
