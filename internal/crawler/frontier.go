// Package crawler implements the polite crawl frontier: the back heap,
// the bounded back-queue set, the front queues, and the admission
// algorithm that ties them to the Seen Set and robots policy. Grounded
// on the teacher's frontier.go and crawler.go.
package crawler

import (
	"context"
	"math/rand"
	"net/url"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/BenjaminSRussell/wibot/internal/robots"
	"github.com/BenjaminSRussell/wibot/internal/urlnorm"
)

// fifo is a plain unbounded FIFO of pending URLs for one back-queue slot.
type fifo struct {
	urls []string
}

func (q *fifo) enqueue(u string) { q.urls = append(q.urls, u) }

func (q *fifo) dequeue() (string, bool) {
	if len(q.urls) == 0 {
		return "", false
	}
	u := q.urls[0]
	q.urls = q.urls[1:]
	return u, true
}

func (q *fifo) empty() bool { return len(q.urls) == 0 }

// Frontier owns the front queues, the bounded back-queue set, the
// host→queue ownership map, the back heap and the Seen Set. One mutex
// serializes everything except robots lookups and Seen Set bloom probes,
// matching the teacher's coarse-but-short-critical-section style.
type Frontier struct {
	mu sync.Mutex

	front      []fifo
	backQueues map[*fifo]struct{}
	capK       int
	hostQueue  map[string]*fifo

	seenMu    sync.Mutex
	seenBloom *bloom.BloomFilter
	seenExact map[string]struct{}

	heap        *BackHeap
	robotsCache *robots.Cache
	userAgent   string

	rng *rand.Rand
}

// NewFrontier builds an empty frontier with numFront front queues and a
// back-queue set bounded at capK (conventionally threads*3).
func NewFrontier(numFront, capK int, heap *BackHeap, robotsCache *robots.Cache, userAgent string) *Frontier {
	if numFront < 1 {
		numFront = 1
	}
	return &Frontier{
		front:       make([]fifo, numFront),
		backQueues:  make(map[*fifo]struct{}),
		capK:        capK,
		hostQueue:   make(map[string]*fifo),
		seenBloom:   bloom.NewWithEstimates(10_000_000, 0.01),
		seenExact:   make(map[string]struct{}),
		heap:        heap,
		robotsCache: robotsCache,
		userAgent:   userAgent,
		rng:         rand.New(rand.NewSource(1)),
	}
}

// markSeen atomically checks and inserts normalized into the Seen Set,
// returning true iff this call was the one to insert it. The bloom
// filter is a probabilistic pre-filter: a miss there is authoritative
// (definitely unseen), a hit falls through to the exact map so that
// Seen Set membership itself never has false positives.
func (f *Frontier) markSeen(normalized string) bool {
	f.seenMu.Lock()
	defer f.seenMu.Unlock()

	if !f.seenBloom.TestString(normalized) {
		f.seenBloom.AddString(normalized)
		f.seenExact[normalized] = struct{}{}
		return true
	}

	if _, ok := f.seenExact[normalized]; ok {
		return false
	}
	f.seenExact[normalized] = struct{}{}
	return true
}

// SeenCount reports the number of distinct URLs ever admitted.
func (f *Frontier) SeenCount() int {
	f.seenMu.Lock()
	defer f.seenMu.Unlock()
	return len(f.seenExact)
}

// Admit runs the full admission algorithm for a URL extracted (or
// seeded) with the given referer: normalize, dedupe against the Seen
// Set, consult robots, then route into a back queue (if a slot can be
// claimed for its host) or a random front queue.
func (f *Frontier) Admit(ctx context.Context, rawURL, referer string) bool {
	normalized, err := urlnorm.Normalize(rawURL, referer)
	if err != nil {
		return false
	}

	if !f.markSeen(normalized) {
		return false
	}

	host := urlnorm.Host(normalized)
	path := "/"
	if u, err := url.Parse(normalized); err == nil && u.Path != "" {
		path = u.Path
	}

	if f.robotsCache != nil && !f.robotsCache.CanAccess(ctx, host, path, f.userAgent) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if q, owns := f.hostQueue[host]; owns {
		q.enqueue(normalized)
		return true
	}

	if len(f.backQueues) < f.capK && !f.heap.EverSeen(host) {
		q := &fifo{}
		q.enqueue(normalized)
		f.backQueues[q] = struct{}{}
		f.hostQueue[host] = q
		if !f.heap.Push(host, true) {
			// lost a race with itself (shouldn't happen under the
			// frontier lock); fall back to a front queue instead of
			// stranding the URL in an unscheduled back queue.
			delete(f.backQueues, q)
			delete(f.hostQueue, host)
			f.enqueueFrontLocked(normalized)
		}
		return true
	}

	f.enqueueFrontLocked(normalized)
	return true
}

func (f *Frontier) enqueueFrontLocked(normalized string) {
	idx := f.rng.Intn(len(f.front))
	f.front[idx].enqueue(normalized)
}

// PickFromFront picks one front queue at random and dequeues from it
// without blocking. It returns ok=false if that queue happened to be
// empty, even if others are not — callers retry on their own cadence.
func (f *Frontier) PickFromFront() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.rng.Intn(len(f.front))
	return f.front[idx].dequeue()
}

// DequeueForHost removes the next URL from host's owned back queue. It
// returns ok=false if host owns no queue, or that queue is empty.
func (f *Frontier) DequeueForHost(host string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, ok := f.hostQueue[host]
	if !ok {
		return "", false
	}
	return q.dequeue()
}

// QueueEmptyForHost reports whether host's owned back queue currently
// has no pending URLs.
func (f *Frontier) QueueEmptyForHost(host string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.hostQueue[host]
	if !ok {
		return true
	}
	return q.empty()
}

// RefillDrainedQueue implements the back-queue refill/reassignment
// algorithm: it pulls URLs from the front queues, one at a time, until
// either it finds one whose host has no current owner (the drained
// queue is reassigned to that host) or the front queues run dry. URLs
// whose host already owns a different queue are routed there instead,
// so no front-queue URL is lost during the search.
//
// Returns the host now owning the queue and true, or ("", false) if the
// queue could not be refilled this round — drainedHost keeps its
// (now-empty) queue and the worker should proceed without reassignment.
func (f *Frontier) RefillDrainedQueue(drainedHost string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, owns := f.hostQueue[drainedHost]
	if !owns {
		return "", false
	}

	for {
		idx := f.rng.Intn(len(f.front))
		pulled, ok := f.front[idx].dequeue()
		if !ok {
			return "", false
		}

		host := urlnorm.Host(pulled)

		if existing, alreadyOwned := f.hostQueue[host]; alreadyOwned && existing != q {
			existing.enqueue(pulled)
			continue
		}
		if host == drainedHost {
			q.enqueue(pulled)
			return drainedHost, true
		}

		delete(f.hostQueue, drainedHost)
		f.hostQueue[host] = q
		q.enqueue(pulled)
		return host, true
	}
}

// ReleaseHost drops host's ownership entry and its back queue entirely,
// for when a host's queue drains and no reassignment is found — the
// caller is expected to call this only once it has decided not to keep
// holding the slot open (kept separate so callers can choose to leave an
// idle queue parked instead).
func (f *Frontier) ReleaseHost(host string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.hostQueue[host]; ok {
		delete(f.hostQueue, host)
		delete(f.backQueues, q)
	}
}

// BackQueueCount reports how many of the K back-queue slots are in use.
func (f *Frontier) BackQueueCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.backQueues)
}
