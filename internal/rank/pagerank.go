package rank

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/BenjaminSRussell/wibot/internal/graph"
)

// PageRankOptions configures one run of PageRank.
type PageRankOptions struct {
	Alpha         float64
	MaxIterations int
	Tolerance     float64
}

// DefaultPageRankOptions returns the spec defaults (α=0.15, 100
// iterations, tolerance 1e-9).
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{Alpha: 0.15, MaxIterations: 100, Tolerance: 1e-9}
}

// RankedURL pairs a URL with its stationary PageRank probability.
type RankedURL struct {
	URL   string
	Score float64
}

// PageRank computes the PageRank of the link graph restricted to its
// own set of source URLs U, via row-stochastic transition-matrix power
// iteration, grounded on original_source/ranking/pagerank.py.
func PageRank(links *graph.LinkGraph, opts PageRankOptions) []RankedURL {
	urls := links.URLs()
	n := len(urls)
	if n == 0 {
		return nil
	}
	sort.Strings(urls) // deterministic ordering for matrix indices

	index := make(map[string]int, n)
	for i, u := range urls {
		index[u] = i
	}

	inU := func(candidates []string) []int {
		out := make([]int, 0, len(candidates))
		for _, c := range candidates {
			if idx, ok := index[c]; ok {
				out = append(out, idx)
			}
		}
		return out
	}

	transition := mat.NewDense(n, n, nil)
	uniform := 1.0 / float64(n)

	for i, u := range urls {
		refs := inU(links.References(u))
		if len(refs) == 0 {
			for j := 0; j < n; j++ {
				transition.Set(i, j, uniform)
			}
			continue
		}
		p := 1.0 / float64(len(refs))
		for _, j := range refs {
			transition.Set(i, j, p)
		}
	}

	// P = (1-alpha)*M + alpha*T, T uniform everywhere.
	final := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			final.Set(i, j, (1-opts.Alpha)*transition.At(i, j)+opts.Alpha*uniform)
		}
	}

	state := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		state.SetVec(i, uniform)
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		next := mat.NewVecDense(n, nil)
		next.MulVec(final.T(), state)

		if converged(state, next, opts.Tolerance) {
			state = next
			break
		}
		state = next
	}

	results := make([]RankedURL, n)
	for i, u := range urls {
		results[i] = RankedURL{URL: u, Score: state.AtVec(i)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

func converged(old, next *mat.VecDense, tolerance float64) bool {
	n := old.Len()
	for i := 0; i < n; i++ {
		diff := next.AtVec(i) - old.AtVec(i)
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			return false
		}
	}
	return true
}
