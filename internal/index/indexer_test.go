package index

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminSRussell/wibot/internal/tokenize"
)

func TestIndexer_TFAfterTokenization(t *testing.T) {
	ix := NewIndexer()
	doc0 := ix.IndexText("doc0", "My name is Anders Langballe Jakobsen. This is a test, test.")
	ix.IndexText("doc1", "This is a unit test for my reverse index implementation.")

	assert.Equal(t, 2, ix.Terms.TF(tokenize.Stem("test"), doc0))
}

func TestIndexer_DocumentLengthEqualsSumOfTF(t *testing.T) {
	ix := NewIndexer()
	doc0 := ix.IndexText("doc0", "My name is Anders Langballe Jakobsen. This is a test, test.")

	sum := 0
	for _, term := range ix.Terms.Terms() {
		sum += ix.Terms.TF(term, doc0)
	}
	assert.Equal(t, sum, ix.Terms.DocumentLength(doc0))
}

func TestIndexer_DFMatchesDocsWithTermCount(t *testing.T) {
	ix := NewIndexer()
	ix.IndexText("doc0", "anders langballe test test")
	ix.IndexText("doc1", "unit test implementation")

	term := tokenize.Stem("test")
	assert.Equal(t, len(ix.Terms.DocsWithTerm(term)), ix.Terms.DF(term))
}

func TestIndexer_IDFMatchesFormula(t *testing.T) {
	ix := NewIndexer()
	ix.IndexText("doc0", "anders langballe test test")
	ix.IndexText("doc1", "unit test implementation")

	term := tokenize.Stem("test")
	n := float64(ix.Vocabulary.Len())
	df := float64(ix.Terms.DF(term))
	expected := 0.0
	if df > 0 {
		expected = math.Log10(n / df)
	}
	assert.InDelta(t, expected, ix.Terms.IDF(term), 1e-9)
}

func TestIndexer_VocabularyAddIsIdempotent(t *testing.T) {
	v := NewURLVocabulary()
	id1 := v.Add("https://a.example/")
	id2 := v.Add("https://a.example/")
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, v.Len())
}

func TestIndexer_UpdateChampionsOrdersByTFIDFDescending(t *testing.T) {
	ix := NewIndexer()
	ix.IndexText("doc0", "iphone iphone")
	ix.IndexText("doc1", "iphone iphone iphone")
	ix.IndexText("doc2", "iphone")
	// A document without the term keeps df < N, so idf > 0 and tf-idf
	// follows tf.
	ix.IndexText("doc3", "android")

	ix.Terms.UpdateChampions(2)
	champs := ix.Terms.Champions(tokenize.Stem("iphone"))
	require.Len(t, champs, 2)

	doc1, _ := ix.Vocabulary.IDOf("doc1")
	assert.Equal(t, doc1, champs[0])
}

func TestIndexer_UpdateChampionsBreaksTiesByAscendingDocID(t *testing.T) {
	ix := NewIndexer()
	// Every document has the same tf-idf weight for "iphone" (equal tf,
	// df==N so idf is constant), so the champion order must fall back to
	// ascending doc ID rather than an arbitrary/unstable order.
	ix.IndexText("doc2", "iphone")
	ix.IndexText("doc0", "iphone")
	ix.IndexText("doc1", "iphone")

	ix.Terms.UpdateChampions(3)
	champs := ix.Terms.Champions(tokenize.Stem("iphone"))
	require.Len(t, champs, 3)

	doc0, _ := ix.Vocabulary.IDOf("doc0")
	doc1, _ := ix.Vocabulary.IDOf("doc1")
	doc2, _ := ix.Vocabulary.IDOf("doc2")
	expected := []int{doc0, doc1, doc2}
	sort.Ints(expected)
	assert.Equal(t, expected, champs)
}

func TestIndexer_BackgroundIndexingDrainsChannel(t *testing.T) {
	ix := NewIndexer()
	ch := make(chan Document, 2)
	ix.StartBackground(ch)

	ch <- Document{URL: "doc0", Text: "anders langballe test test"}
	ch <- Document{URL: "doc1", Text: "unit test implementation"}

	require.Eventually(t, func() bool {
		return ix.Vocabulary.Len() == 2
	}, time.Second, 10*time.Millisecond)

	ix.StopBackground()

	term := tokenize.Stem("test")
	assert.Equal(t, 2, ix.Terms.DF(term))
}
