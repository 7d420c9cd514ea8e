// Package robots implements the crawler's robots-exclusion policy: a
// lazily-populated, per-host cache of parsed robots.txt records answering
// can_access(path, agent) queries, grounded on the teacher's
// crawler.go robotsCache/isAllowedByRobots pair.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/temoto/robotstxt"
)

// Fetcher retrieves the raw bytes and HTTP status of a host's robots.txt.
// A transport error, a 4xx status or an unexpected status is treated as
// "no robots.txt", which allows everything; a 5xx status yields a record
// that disallows everything for that host.
type Fetcher func(ctx context.Context, host string) (body []byte, status int, err error)

// HTTPFetcher builds a Fetcher backed by client, requesting
// "http://<host>/robots.txt" with the given User-Agent header.
func HTTPFetcher(client *http.Client, userAgent string) Fetcher {
	return func(ctx context.Context, host string) ([]byte, int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+host+"/robots.txt", nil)
		if err != nil {
			return nil, 0, fmt.Errorf("build robots.txt request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch robots.txt for %s: %w", host, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("read robots.txt body for %s: %w", host, err)
		}

		return body, resp.StatusCode, nil
	}
}

// Cache is a coarse-locked map from host to parsed robots record,
// populated by a single lazy fetch per host. Writes are infrequent
// relative to the read volume from worker goroutines, so one mutex over
// the whole map is sufficient (per the design doc's "shared growing
// maps" note).
type Cache struct {
	mu     sync.Mutex
	data   map[string]*robotstxt.RobotsData
	fetch  Fetcher
	allow  *robotstxt.RobotsData // empty record: allows everything
}

// NewCache creates a robots cache that fetches records with fetch on
// first access per host.
func NewCache(fetch Fetcher) *Cache {
	allow, _ := robotstxt.FromBytes(nil)
	return &Cache{
		data:  make(map[string]*robotstxt.RobotsData),
		fetch: fetch,
		allow: allow,
	}
}

// CanAccess answers whether agent may fetch path on host, fetching and
// caching host's robots.txt on first use.
func (c *Cache) CanAccess(ctx context.Context, host, path, agent string) bool {
	record := c.recordFor(ctx, host)
	if record == nil {
		return true
	}
	return record.TestAgent(path, agent)
}

func (c *Cache) recordFor(ctx context.Context, host string) *robotstxt.RobotsData {
	c.mu.Lock()
	if record, ok := c.data[host]; ok {
		c.mu.Unlock()
		return record
	}
	c.mu.Unlock()

	body, status, err := c.fetch(ctx, host)

	var record *robotstxt.RobotsData
	if err == nil {
		record, err = robotstxt.FromStatusAndBytes(status, body)
	}
	if err != nil || record == nil {
		record = c.allow
	}

	c.mu.Lock()
	c.data[host] = record
	c.mu.Unlock()

	return record
}
