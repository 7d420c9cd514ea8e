// Package wibot wires the crawl frontier, worker pool, link graph,
// content store and inverted index into one running process, and
// exposes the query-time facade over them. Grounded on the teacher's
// Crawler/EnhancedCrawler split (internal/crawler/crawler.go,
// enhanced.go), generalized into a single service around the new
// frontier and index packages.
package wibot

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BenjaminSRussell/wibot/internal/crawler"
	"github.com/BenjaminSRussell/wibot/internal/graph"
	"github.com/BenjaminSRussell/wibot/internal/index"
	"github.com/BenjaminSRussell/wibot/internal/query"
	"github.com/BenjaminSRussell/wibot/internal/rank"
	"github.com/BenjaminSRussell/wibot/internal/robots"
	"github.com/BenjaminSRussell/wibot/internal/storage"
	"github.com/BenjaminSRussell/wibot/internal/types"
)

// Service owns the frontier, worker pool, link graph, URL contents and
// indexer for one crawl/query process lifetime.
type Service struct {
	config types.Config

	frontier *crawler.Frontier
	heap     *crawler.BackHeap
	workers  *crawler.WorkerPool

	links    *graph.LinkGraph
	contents *graph.Contents
	indexer  *index.Indexer

	unindexed chan index.Document
	store     *storage.Store

	cancel context.CancelFunc
	statsWg sync.WaitGroup

	dumpedAt int
}

// New builds a Service from config. It does not start crawling; call
// StartCrawlers for that.
func New(config types.Config) (*Service, error) {
	heap := crawler.NewBackHeap(config.PerHostDelay)

	var robotsCache *robots.Cache
	if !config.IgnoreRobots {
		client := &http.Client{Timeout: config.RequestTimeout}
		robotsCache = robots.NewCache(robots.HTTPFetcher(client, config.UserAgent))
	}

	frontier := crawler.NewFrontier(config.NumFrontQueues, config.NumBackQueues(), heap, robotsCache, config.UserAgent)

	links := graph.NewLinkGraph()
	contents := graph.NewContents()
	ix := index.NewIndexer()
	unindexed := make(chan index.Document, 1024)

	workers := crawler.NewWorkerPool(config, frontier, heap, links, contents, unindexed)

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := storage.Open(filepath.Join(config.DataDir, "artifacts.db"))
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	return &Service{
		config:    config,
		frontier:  frontier,
		heap:      heap,
		workers:   workers,
		links:     links,
		contents:  contents,
		indexer:   ix,
		unindexed: unindexed,
		store:     store,
	}, nil
}

// QueueRawURL admits a seed URL into the frontier.
func (s *Service) QueueRawURL(ctx context.Context, rawURL string) bool {
	return s.frontier.Admit(ctx, rawURL, "")
}

// StartCrawlers starts the worker pool, the background indexer, and the
// periodic stats logger. Call StopCrawlers to shut everything down.
func (s *Service) StartCrawlers(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.indexer.StartBackground(s.unindexed)
	s.workers.Start(ctx)

	s.statsWg.Add(1)
	go s.reportStats(ctx)
}

// StopCrawlers cancels the worker pool and background indexer and waits
// for both to finish.
func (s *Service) StopCrawlers() {
	if s.cancel != nil {
		s.cancel()
	}
	s.workers.Stop()
	s.indexer.StopBackground()
	s.statsWg.Wait()
	close(s.unindexed)
}

// Close releases the artifact store handle. Call after StopCrawlers.
func (s *Service) Close() error {
	return s.store.Close()
}

// reportStats logs the {seen, hosts_waiting, back_queues, requests,
// contents, references} tuple at a fixed interval, grounded on the
// teacher's reportProgress ticker goroutine, and triggers the
// persisted-artifact dump once contents crosses the configured
// threshold.
func (s *Service) reportStats(ctx context.Context) {
	defer s.statsWg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := s.Stats()
			log.Info().
				Int("seen", stats.Seen).
				Int("hosts_waiting", stats.HostsWaiting).
				Int("back_queues", stats.BackQueues).
				Int64("requests", stats.Requests).
				Int("contents", stats.Contents).
				Int("references", stats.References).
				Msg("crawl stats")

			if stats.Contents >= s.config.DumpThreshold && stats.Contents > s.dumpedAt {
				if err := s.dumpArtifacts(); err != nil {
					log.Error().Err(err).Msg("failed to dump persisted artifacts")
				} else {
					s.dumpedAt = stats.Contents
				}
			}
		}
	}
}

// Stats returns the current observability tuple.
func (s *Service) Stats() types.Stats {
	return types.Stats{
		Seen:         s.frontier.SeenCount(),
		HostsWaiting: s.heap.Len(),
		BackQueues:   s.frontier.BackQueueCount(),
		Requests:     s.workers.Requests(),
		Contents:     s.contents.Len(),
		References:   s.links.Len(),
	}
}

func (s *Service) dumpArtifacts() error {
	if err := s.store.DumpContents(s.contents.All()); err != nil {
		return err
	}

	references := make(map[string][]string)
	for _, url := range s.links.URLs() {
		references[url] = s.links.References(url)
	}
	return s.store.DumpReferences(references)
}

// FreeText runs a free-text query against the in-memory index and
// returns ranked (document ID, score) pairs; URLForDocument resolves an
// ID to its URL. When withPageRank is true, scores
// blend in PageRank computed over the current link graph.
func (s *Service) FreeText(q string, withPageRank bool) []rank.ScoredDocument {
	fq := query.NewFreeTextQuery(s.indexer.Terms, q)
	return s.scoreAndRank(fq.Terms, fq.Matches, withPageRank)
}

// Boolean runs a boolean query (AND/OR/NOT/parens) against the
// in-memory index and returns the matching document IDs, unranked.
func (s *Service) Boolean(q string) ([]int, error) {
	bq, err := query.NewBooleanQuery(s.indexer.Vocabulary, s.indexer.Terms, q)
	if err != nil {
		return nil, err
	}
	return bq.Matches(), nil
}

func (s *Service) scoreAndRank(terms []string, matches []int, withPageRank bool) []rank.ScoredDocument {
	searchTerms := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		searchTerms[t] = struct{}{}
	}

	opts := rank.Options{
		ChampionSize: s.config.ChampionListSize,
	}

	if withPageRank {
		prResults := rank.PageRank(s.links, rank.PageRankOptions{
			Alpha:         s.config.PageRankAlpha,
			MaxIterations: s.config.PageRankMaxIterations,
			Tolerance:     s.config.PageRankTolerance,
		})
		prByURL := make(map[string]float64, len(prResults))
		for _, r := range prResults {
			prByURL[r.URL] = r.Score
		}
		opts.PageRank = prByURL
		opts.BlendWeight = s.config.RankBlendWeight
	}

	return rank.Rank(s.indexer.Vocabulary, s.indexer.Terms, searchTerms, matches, opts)
}

// URLForDocument resolves a document ID back to its URL, for rendering
// query results.
func (s *Service) URLForDocument(docID int) (string, bool) {
	return s.indexer.Vocabulary.Get(docID)
}
