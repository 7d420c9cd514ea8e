package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminSRussell/wibot/internal/index"
)

func fixtureIndex(t *testing.T) *index.Indexer {
	t.Helper()
	ix := index.NewIndexer()
	ix.IndexText("doc0", "My name is Anders Langballe Jakobsen. This is a test, test.")
	ix.IndexText("doc1", "This is a unit test for my reverse index implementation.")
	return ix
}

func TestBooleanQuery_AndOfTwoTermsOnlyInDocZero(t *testing.T) {
	ix := fixtureIndex(t)
	q, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "anders AND langballe")
	require.NoError(t, err)

	doc0, _ := ix.Vocabulary.IDOf("doc0")
	assert.Contains(t, q.Matches(), doc0)
	assert.Len(t, q.Matches(), 1)
}

func TestBooleanQuery_NotTestIsEmpty(t *testing.T) {
	ix := fixtureIndex(t)
	q, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "NOT test")
	require.NoError(t, err)
	assert.Empty(t, q.Matches())
}

func TestBooleanQuery_OrOfAndsReturnsBothDocs(t *testing.T) {
	ix := fixtureIndex(t)
	q, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "(anders AND langballe) OR (unit AND test)")
	require.NoError(t, err)

	doc0, _ := ix.Vocabulary.IDOf("doc0")
	doc1, _ := ix.Vocabulary.IDOf("doc1")
	assert.ElementsMatch(t, []int{doc0, doc1}, q.Matches())
}

func TestBooleanQuery_UnmatchedLeftParenIsSyntaxError(t *testing.T) {
	ix := fixtureIndex(t)
	_, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "(anders AND langballe")
	require.Error(t, err)
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestBooleanQuery_UnexpectedRightParenIsSyntaxError(t *testing.T) {
	ix := fixtureIndex(t)
	_, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "anders)")
	require.Error(t, err)
}

func TestBooleanQuery_OrNotComplementIsFullVocabulary(t *testing.T) {
	ix := fixtureIndex(t)
	q, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "test OR NOT test")
	require.NoError(t, err)
	assert.ElementsMatch(t, ix.Vocabulary.DocumentIDs(), q.Matches())
}

func TestBooleanQuery_AndNotComplementIsEmpty(t *testing.T) {
	ix := fixtureIndex(t)
	q, err := NewBooleanQuery(ix.Vocabulary, ix.Terms, "test AND NOT test")
	require.NoError(t, err)
	assert.Empty(t, q.Matches())
}

func TestFreeTextQuery_MatchesAnyDocumentContainingTerm(t *testing.T) {
	ix := fixtureIndex(t)
	q := NewFreeTextQuery(ix.Terms, "test")

	doc0, _ := ix.Vocabulary.IDOf("doc0")
	doc1, _ := ix.Vocabulary.IDOf("doc1")
	assert.ElementsMatch(t, []int{doc0, doc1}, q.Matches)
}
