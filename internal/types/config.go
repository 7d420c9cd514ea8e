// Package types holds configuration and value types shared across wibot's
// crawler and retrieval packages.
package types

import "time"

// Config holds the tunable parameters of a crawl, as enumerated in the
// spec's external-interfaces section: thread count, queue fan-out,
// per-host politeness delay, request timeout, champion list size and
// PageRank parameters.
type Config struct {
	// Seeds are the initial URLs admitted into the frontier.
	Seeds []string

	// Threads is the size of the crawl worker pool ("W" in the design doc).
	Threads int

	// NumFrontQueues is the number of parallel front (admission) queues.
	NumFrontQueues int

	// PerHostDelay is the minimum wall-clock interval between two
	// successive fetches of the same host.
	PerHostDelay time.Duration

	// RequestTimeout bounds every outbound HTTP GET, including the
	// robots.txt fetch.
	RequestTimeout time.Duration

	// UserAgent is sent on every outbound request and passed to the
	// robots policy as the crawling agent's name.
	UserAgent string

	// IgnoreRobots disables the robots exclusion check entirely. Off by
	// default; only meant for crawling content the operator controls.
	IgnoreRobots bool

	// ChampionListSize is R in update_champions(R).
	ChampionListSize int

	// PageRankAlpha is the teleport probability used when blending the
	// uniform teleport matrix into the link-graph transition matrix.
	PageRankAlpha float64

	// PageRankMaxIterations bounds the power iteration.
	PageRankMaxIterations int

	// PageRankTolerance is the largest per-component absolute difference
	// at which two successive iterations are considered converged.
	PageRankTolerance float64

	// RankBlendWeight is beta in score = (1-beta)*cosine + beta*pagerank
	// when a FreeText query asks for PageRank blending.
	RankBlendWeight float64

	// DumpThreshold is the number of URLs in the contents map that
	// triggers a persisted-artifact dump.
	DumpThreshold int

	// DataDir is where the persisted artifacts (SQLite store) live.
	DataDir string
}

// NumBackQueues returns K = threads * 3, the bounded back-queue capacity
// from the design doc.
func (c Config) NumBackQueues() int {
	return c.Threads * 3
}

// DefaultConfig returns the crawler's documented defaults.
func DefaultConfig() Config {
	return Config{
		Threads:               100,
		NumFrontQueues:        1,
		PerHostDelay:          1000 * time.Millisecond,
		RequestTimeout:        5 * time.Second,
		UserAgent:             "Wibot",
		ChampionListSize:      20,
		PageRankAlpha:         0.15,
		PageRankMaxIterations: 100,
		PageRankTolerance:     1e-9,
		RankBlendWeight:       0.5,
		DumpThreshold:         50000,
		DataDir:               "./data",
	}
}

// Stats is the periodic observability tuple the crawl service logs: seen
// URLs, hosts currently waiting in the back heap, active back queues,
// requests issued, and the size of the contents/references maps.
type Stats struct {
	Seen         int
	HostsWaiting int
	BackQueues   int
	Requests     int64
	Contents     int
	References   int
}
