package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminSRussell/wibot/internal/graph"
)

func TestPageRank_TriangleGraphIsUniformAndSumsToOne(t *testing.T) {
	g := graph.NewLinkGraph()
	g.AddEdges("a", []string{"b"})
	g.AddEdges("b", []string{"c"})
	g.AddEdges("c", []string{"a"})

	results := PageRank(g, DefaultPageRankOptions())
	require.Len(t, results, 3)

	sum := 0.0
	for _, r := range results {
		assert.InDelta(t, 1.0/3.0, r.Score, 1e-6)
		sum += r.Score
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPageRank_EmptyGraphReturnsNil(t *testing.T) {
	g := graph.NewLinkGraph()
	assert.Nil(t, PageRank(g, DefaultPageRankOptions()))
}

func TestPageRank_DanglingNodeDistributesUniformly(t *testing.T) {
	g := graph.NewLinkGraph()
	g.AddEdges("a", []string{"b"})
	g.AddEdges("b", []string{"a"})
	// "a" and "b" reference each other but also need c to exist as a node
	g.AddEdges("c", nil)

	results := PageRank(g, DefaultPageRankOptions())
	require.Len(t, results, 3)

	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}
