package query

import (
	"github.com/BenjaminSRussell/wibot/internal/index"
	"github.com/BenjaminSRussell/wibot/internal/tokenize"
)

// FreeTextQuery tokenizes raw the same way a document is tokenized and
// returns the union of postings across its terms — candidate documents
// for the content ranker to score, not a ranked result itself.
type FreeTextQuery struct {
	Terms   []string
	Matches []int
}

// NewFreeTextQuery tokenizes raw and collects every document that
// contains at least one of its terms.
func NewFreeTextQuery(terms *index.TermDictionary, raw string) *FreeTextQuery {
	tokens := tokenize.Tokenize(raw)

	matches := make(docSet)
	for _, term := range tokens {
		if !terms.Has(term) {
			continue
		}
		for _, doc := range terms.DocsWithTerm(term) {
			matches[doc] = struct{}{}
		}
	}

	return &FreeTextQuery{
		Terms:   tokens,
		Matches: matches.ids(),
	}
}
