package crawler

import (
	"context"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BenjaminSRussell/wibot/internal/graph"
	"github.com/BenjaminSRussell/wibot/internal/index"
	"github.com/BenjaminSRussell/wibot/internal/parser"
	"github.com/BenjaminSRussell/wibot/internal/types"
	"github.com/BenjaminSRussell/wibot/internal/urlnorm"
)

// WorkerPool is a fixed pool of worker goroutines implementing the
// crawl state machine: pop a ready host from the back heap, dequeue one
// URL from its back queue, fetch, extract and admit links, refill the
// queue, and re-push the host with a politeness delay. Grounded on the
// teacher's Crawler.processURL / EnhancedCrawler.Crawl goroutine pool,
// generalized from semaphore-gated dynamic goroutines to a fixed pool
// as the component design calls for.
type WorkerPool struct {
	config   types.Config
	frontier *Frontier
	heap     *BackHeap
	client   *http.Client

	links     *graph.LinkGraph
	contents  *graph.Contents
	unindexed chan<- index.Document

	wg         sync.WaitGroup
	requests   atomic.Int64
	panicCount atomic.Int64
}

// NewWorkerPool builds a worker pool bound to frontier/heap and the
// shared link graph and contents maps. unindexed may be nil, in which
// case fetched pages are never fed to a background indexer.
func NewWorkerPool(config types.Config, frontier *Frontier, heap *BackHeap, links *graph.LinkGraph, contents *graph.Contents, unindexed chan<- index.Document) *WorkerPool {
	return &WorkerPool{
		config:   config,
		frontier: frontier,
		heap:     heap,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		links:     links,
		contents:  contents,
		unindexed: unindexed,
	}
}

// Start launches the fixed pool of config.Threads worker goroutines.
// Each runs until ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.config.Threads; i++ {
		wp.wg.Add(1)
		go wp.run(ctx, i)
	}
}

// Stop waits for every worker goroutine to return (the caller must have
// already cancelled the context passed to Start).
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
}

// Requests returns the total number of fetches attempted across all
// workers, for the crawl service's stats tuple.
func (wp *WorkerPool) Requests() int64 {
	return wp.requests.Load()
}

func (wp *WorkerPool) run(ctx context.Context, id int) {
	defer wp.wg.Done()
	logger := log.With().Int("worker", id).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		host, ok := wp.popHost()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
				continue
			}
		}

		wp.processHostSafely(ctx, host, logger)
	}
}

func (wp *WorkerPool) popHost() (string, bool) {
	waitMs, host, ok := wp.heap.Pop()
	if !ok {
		return "", false
	}
	if waitMs > 0 {
		time.Sleep(time.Duration(waitMs) * time.Millisecond)
	}
	return host, true
}

// processHostSafely wraps processHost with panic recovery: a panic
// while processing one host is logged and swallowed. Afterwards the host
// owning the back queue is re-pushed so the heap stays live: the popped
// host, or the host its drained queue was reassigned to. Grounded on the
// teacher's SafeProcessor.ProcessURLSafely.
func (wp *WorkerPool) processHostSafely(ctx context.Context, host string, logger zerolog.Logger) {
	next := host
	defer func() {
		if r := recover(); r != nil {
			wp.panicCount.Add(1)
			logger.Error().
				Str("host", host).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("recovered panic while processing host")
		}
		if !wp.heap.Push(next, true) {
			logger.Warn().Str("host", next).Msg("could not re-push host onto back heap")
		}
	}()

	next = wp.processHost(ctx, host, logger)
}

// processHost fetches one URL from host's back queue and returns the host
// that owns that queue afterwards.
func (wp *WorkerPool) processHost(ctx context.Context, host string, logger zerolog.Logger) string {
	url, ok := wp.frontier.DequeueForHost(host)
	if !ok {
		return wp.refill(host, logger)
	}

	wp.requests.Add(1)
	if err := wp.fetchAndProcess(ctx, url, logger); err != nil {
		logger.Debug().Str("url", url).Err(err).Msg("fetch failed")
	}

	if wp.frontier.QueueEmptyForHost(host) {
		return wp.refill(host, logger)
	}
	return host
}

func (wp *WorkerPool) refill(drainedHost string, logger zerolog.Logger) string {
	if newHost, ok := wp.frontier.RefillDrainedQueue(drainedHost); ok {
		logger.Debug().Str("from", drainedHost).Str("to", newHost).Msg("reassigned back queue")
		return newHost
	}
	return drainedHost
}

func (wp *WorkerPool) fetchAndProcess(ctx context.Context, pageURL string, logger zerolog.Logger) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", wp.config.UserAgent)

	resp, err := wp.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	finalURL, err := urlnorm.Normalize(resp.Request.URL.String(), "")
	if err != nil {
		return err
	}
	wp.frontier.markSeen(finalURL)

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text") {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	html := string(body)

	links, err := parser.ExtractHyperlinks(html)
	if err != nil {
		return err
	}

	wp.processLinks(ctx, finalURL, links)

	text, err := parser.ExtractText(html)
	if err != nil {
		return err
	}
	wp.contents.SetBody(finalURL, text)

	if wp.unindexed != nil {
		full, _ := wp.contents.Get(finalURL)
		select {
		case wp.unindexed <- index.Document{URL: finalURL, Text: full}:
		default:
			logger.Warn().Str("url", finalURL).Msg("background index channel full, dropping document")
		}
	}

	return nil
}

func (wp *WorkerPool) processLinks(ctx context.Context, pageURL string, links []parser.Hyperlink) {
	referenced := make([]string, 0, len(links))

	for _, link := range links {
		if urlnorm.IsIgnored(link.Href) {
			continue
		}

		normalized, err := urlnorm.Normalize(link.Href, pageURL)
		if err != nil {
			continue
		}

		if normalized != pageURL {
			referenced = append(referenced, normalized)
		}
		if wp.contents.Has(normalized) {
			wp.contents.AppendAnchor(normalized, link.AnchorText)
		}

		wp.frontier.Admit(ctx, link.Href, pageURL)
	}

	wp.links.AddEdges(pageURL, referenced)
}
