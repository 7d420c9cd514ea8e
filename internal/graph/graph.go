// Package graph holds the two shared maps the crawl workers populate and
// the ranker later reads: the link graph and the accumulated per-URL
// text contents. Kept out of package crawler so the ranking and storage
// packages can depend on them without pulling in the frontier, grounded
// on the teacher's coarse-mutex map style from frontier.go.
package graph

import "sync"

// LinkGraph records, for every URL a worker has fetched, the set of
// URLs it references.
type LinkGraph struct {
	mu    sync.RWMutex
	edges map[string]map[string]struct{}
}

// NewLinkGraph returns an empty link graph.
func NewLinkGraph() *LinkGraph {
	return &LinkGraph{edges: make(map[string]map[string]struct{})}
}

// AddEdges records that from references every URL in to, excluding
// self-references.
func (g *LinkGraph) AddEdges(from string, to []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.edges[from]
	if !ok {
		set = make(map[string]struct{}, len(to))
		g.edges[from] = set
	}
	for _, t := range to {
		if t == from {
			continue
		}
		set[t] = struct{}{}
	}
}

// References returns the URLs that from links to, or nil if AddEdges was
// never called for from. A source recorded with no targets yields an
// empty, non-nil slice.
func (g *LinkGraph) References(from string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set, ok := g.edges[from]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

// URLs returns every source URL passed to AddEdges, including sources
// whose reference set is empty.
func (g *LinkGraph) URLs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0, len(g.edges))
	for u := range g.edges {
		out = append(out, u)
	}
	return out
}

// Len reports how many source URLs have been passed to AddEdges.
func (g *LinkGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Contents accumulates, per URL, the plain body text plus any anchor
// text carried in from inbound links.
type Contents struct {
	mu   sync.RWMutex
	text map[string]string
}

// NewContents returns an empty contents map.
func NewContents() *Contents {
	return &Contents{text: make(map[string]string)}
}

// SetBody records url's fetched body text, preserving (by prepending
// before it) any anchor text already accumulated for url from inbound
// links discovered before url itself was fetched.
func (c *Contents) SetBody(url, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.text[url]; ok && existing != "" {
		c.text[url] = text + " " + existing
	} else {
		c.text[url] = text
	}
}

// AppendAnchor appends anchor (space-separated) to url's contents,
// creating the entry if absent. A worker calls this when it discovers a
// link to a URL that may not have been fetched yet.
func (c *Contents) AppendAnchor(url, anchor string) {
	if anchor == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.text[url]; ok && existing != "" {
		c.text[url] = existing + " " + anchor
	} else {
		c.text[url] = anchor
	}
}

// Get returns url's accumulated contents.
func (c *Contents) Get(url string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.text[url]
	return text, ok
}

// Has reports whether url has any recorded contents yet (body or
// anchor-only).
func (c *Contents) Has(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.text[url]
	return ok
}

// All returns a snapshot copy of every URL's contents, for batched
// indexing and persistence.
func (c *Contents) All() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.text))
	for u, t := range c.text {
		out[u] = t
	}
	return out
}

// Len reports how many URLs have recorded contents.
func (c *Contents) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.text)
}
