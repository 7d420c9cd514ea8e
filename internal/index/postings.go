package index

import (
	"math"
	"sort"
	"sync"
)

// TermDictionary holds postings (term → doc_id → term_frequency) plus
// derived df/idf/tf-idf and per-term champion lists, grounded on
// original_source/indexing/indexer.py's TermDictionary.
type TermDictionary struct {
	mu         sync.RWMutex
	postings   map[string]map[int]int
	champions  map[string][]int
	vocabulary *URLVocabulary
}

// NewTermDictionary creates an empty term dictionary backed by
// vocabulary (used to compute idf's document count N).
func NewTermDictionary(vocabulary *URLVocabulary) *TermDictionary {
	return &TermDictionary{
		postings:   make(map[string]map[int]int),
		champions:  make(map[string][]int),
		vocabulary: vocabulary,
	}
}

// AddOccurrence records one occurrence of term in document.
func (d *TermDictionary) AddOccurrence(term string, document int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	docs, ok := d.postings[term]
	if !ok {
		docs = make(map[int]int)
		d.postings[term] = docs
	}
	docs[document]++
}

// Has reports whether term has ever occurred.
func (d *TermDictionary) Has(term string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.postings[term]
	return ok
}

// TF returns term's raw frequency in document.
func (d *TermDictionary) TF(term string, document int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	docs, ok := d.postings[term]
	if !ok {
		return 0
	}
	return docs[document]
}

// DF returns the number of documents term occurs in.
func (d *TermDictionary) DF(term string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.postings[term])
}

// IDF returns log10(N/df(term)), where N is the vocabulary size. Terms
// that have never occurred have df=0 and IDF returns 0 rather than
// dividing by zero, since such a term contributes nothing to any score.
func (d *TermDictionary) IDF(term string) float64 {
	df := d.DF(term)
	if df == 0 {
		return 0
	}
	n := d.vocabulary.Len()
	if n == 0 {
		return 0
	}
	return math.Log10(float64(n) / float64(df))
}

// FrequencyLogWeight dampens raw term frequency logarithmically:
// 0 if the term never occurs in document, else 1+log10(tf).
func (d *TermDictionary) FrequencyLogWeight(term string, document int) float64 {
	tf := d.TF(term, document)
	if tf == 0 {
		return 0
	}
	return 1 + math.Log10(float64(tf))
}

// DocsWithTerm returns every document ID that term occurs in.
func (d *TermDictionary) DocsWithTerm(term string) []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	docs, ok := d.postings[term]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(docs))
	for doc := range docs {
		out = append(out, doc)
	}
	return out
}

// DocumentLength returns the total token count recorded for document
// across every term in the dictionary.
func (d *TermDictionary) DocumentLength(document int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	length := 0
	for _, docs := range d.postings {
		length += docs[document]
	}
	return length
}

// UpdateChampions recomputes, for every term, the up-to-r documents
// with the highest tf-idf weight for that term, descending, ties broken
// by ascending document ID for a deterministic champion set.
func (d *TermDictionary) UpdateChampions(r int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	champions := make(map[string][]int, len(d.postings))
	for term, docs := range d.postings {
		weights := make([]int, 0, len(docs))
		for doc := range docs {
			weights = append(weights, doc)
		}

		sort.SliceStable(weights, func(i, j int) bool {
			wi := float64(docs[weights[i]]) * d.idfLocked(term)
			wj := float64(docs[weights[j]]) * d.idfLocked(term)
			if wi != wj {
				return wi > wj
			}
			return weights[i] < weights[j]
		})

		if len(weights) > r {
			weights = weights[:r]
		}
		champions[term] = weights
	}

	d.champions = champions
}

// idfLocked computes IDF assuming the caller already holds d.mu.
func (d *TermDictionary) idfLocked(term string) float64 {
	df := len(d.postings[term])
	if df == 0 {
		return 0
	}
	n := d.vocabulary.Len()
	if n == 0 {
		return 0
	}
	return math.Log10(float64(n) / float64(df))
}

// Champions returns term's current champion list (may be stale relative
// to the postings if UpdateChampions hasn't run since the last
// occurrence was recorded).
func (d *TermDictionary) Champions(term string) []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	champs, ok := d.champions[term]
	if !ok {
		return nil
	}
	out := make([]int, len(champs))
	copy(out, champs)
	return out
}

// Terms returns every term that has ever occurred.
func (d *TermDictionary) Terms() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	terms := make([]string, 0, len(d.postings))
	for term := range d.postings {
		terms = append(terms, term)
	}
	return terms
}
