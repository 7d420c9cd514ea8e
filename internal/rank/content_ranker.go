// Package rank implements the content ranker and PageRank, grounded on
// original_source/ranking/content_ranker.py and pagerank.py, with the
// PageRank-blending ambiguity resolved as a documented linear
// combination rather than an overwrite (see DESIGN.md).
package rank

import (
	"sort"

	"github.com/BenjaminSRussell/wibot/internal/index"
)

// ScoredDocument pairs a document ID with its final ranking score.
type ScoredDocument struct {
	DocumentID int
	Score      float64
}

// Options configures one ranking pass.
type Options struct {
	// ChampionSize, when > 0, restricts the candidate set to the
	// per-term champion lists (recomputed at this size) instead of the
	// query's full match set.
	ChampionSize int

	// PageRank, when non-nil, blends a per-URL PageRank score into the
	// content score: final = (1-BlendWeight)*cosine + BlendWeight*pagerank.
	PageRank    map[string]float64
	BlendWeight float64
}

// Rank scores every candidate document against searchTerms and returns
// them sorted descending by score, ties broken by ascending document ID
// (a stable proxy for insertion order).
func Rank(vocabulary *index.URLVocabulary, terms *index.TermDictionary, searchTerms map[string]struct{}, matches []int, opts Options) []ScoredDocument {
	candidates := candidateSet(terms, searchTerms, matches, opts.ChampionSize)

	cosine := make(map[int]float64, len(candidates))
	for _, doc := range candidates {
		var sum float64
		for term := range searchTerms {
			sum += terms.FrequencyLogWeight(term, doc) - terms.IDF(term)
		}
		length := terms.DocumentLength(doc)
		if length > 0 {
			sum /= float64(length)
		} else {
			sum = 0
		}
		cosine[doc] = sum
	}

	scores := cosine
	if len(opts.PageRank) > 0 {
		scores = blend(vocabulary, cosine, opts.PageRank, opts.BlendWeight)
	}

	results := make([]ScoredDocument, 0, len(candidates))
	for _, doc := range candidates {
		results = append(results, ScoredDocument{DocumentID: doc, Score: scores[doc]})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})

	return results
}

func candidateSet(terms *index.TermDictionary, searchTerms map[string]struct{}, matches []int, championSize int) []int {
	if championSize <= 0 {
		return dedupSorted(matches)
	}

	terms.UpdateChampions(championSize)

	seen := make(map[int]struct{})
	for term := range searchTerms {
		for _, doc := range terms.Champions(term) {
			seen[doc] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for doc := range seen {
		out = append(out, doc)
	}
	sort.Ints(out)
	return out
}

func dedupSorted(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// blend min-max normalizes both the cosine score and the PageRank score
// across the candidate set, then linearly combines them with weight.
// Normalizing first keeps the two scales (unbounded tf-idf vs. a
// probability distribution) commensurate before they're mixed.
func blend(vocabulary *index.URLVocabulary, cosine map[int]float64, pageRank map[string]float64, weight float64) map[int]float64 {
	if weight <= 0 {
		return cosine
	}
	if weight > 1 {
		weight = 1
	}

	pr := make(map[int]float64, len(cosine))
	for doc := range cosine {
		url, ok := vocabulary.Get(doc)
		if !ok {
			continue
		}
		pr[doc] = pageRank[url]
	}

	normCosine := minMaxNormalize(cosine)
	normPR := minMaxNormalize(pr)

	out := make(map[int]float64, len(cosine))
	for doc := range cosine {
		out[doc] = (1-weight)*normCosine[doc] + weight*normPR[doc]
	}
	return out
}

func minMaxNormalize(values map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := values[firstKey(values)], values[firstKey(values)]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	spread := max - min
	for k, v := range values {
		if spread == 0 {
			out[k] = 0
			continue
		}
		out[k] = (v - min) / spread
	}
	return out
}

func firstKey(values map[int]float64) int {
	for k := range values {
		return k
	}
	return 0
}
