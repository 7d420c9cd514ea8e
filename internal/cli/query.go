package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BenjaminSRussell/wibot/internal/graph"
	"github.com/BenjaminSRussell/wibot/internal/index"
	"github.com/BenjaminSRussell/wibot/internal/query"
	"github.com/BenjaminSRussell/wibot/internal/rank"
	"github.com/BenjaminSRussell/wibot/internal/storage"
	"github.com/BenjaminSRussell/wibot/internal/types"
)

var (
	queryDataDir         string
	queryBoolean         bool
	queryUsePageRank     bool
	queryLimit           int
	queryChampionSize    int
	queryBlendWeight     float64
	queryPageRankAlpha   float64
	queryPageRankMaxIter int
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a query against a previously dumped crawl",
	Long:  `Loads the contents/references persisted by a prior crawl run, rebuilds the in-memory index, and runs a free-text or boolean query against it.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, " ")

		store, err := storage.Open(filepath.Join(queryDataDir, "artifacts.db"))
		if err != nil {
			return fmt.Errorf("open artifact store: %w", err)
		}
		defer store.Close()

		contents, err := store.LoadContents()
		if err != nil {
			return fmt.Errorf("load contents: %w", err)
		}
		references, err := store.LoadReferences()
		if err != nil {
			return fmt.Errorf("load references: %w", err)
		}

		indexer := index.NewIndexer()
		indexer.IndexBatch(contents)

		links := graph.NewLinkGraph()
		for source, targets := range references {
			links.AddEdges(source, targets)
		}

		var (
			terms   []string
			matches []int
		)
		if queryBoolean {
			bq, err := query.NewBooleanQuery(indexer.Vocabulary, indexer.Terms, raw)
			if err != nil {
				return fmt.Errorf("parse boolean query: %w", err)
			}
			matches = bq.Matches()
			terms = setKeys(bq.SearchTerms())
		} else {
			fq := query.NewFreeTextQuery(indexer.Terms, raw)
			matches = fq.Matches
			terms = fq.Terms
		}

		searchTerms := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			searchTerms[t] = struct{}{}
		}

		opts := rank.Options{ChampionSize: queryChampionSize}
		if queryUsePageRank {
			prResults := rank.PageRank(links, rank.PageRankOptions{
				Alpha:         queryPageRankAlpha,
				MaxIterations: queryPageRankMaxIter,
				Tolerance:     types.DefaultConfig().PageRankTolerance,
			})
			prByURL := make(map[string]float64, len(prResults))
			for _, r := range prResults {
				prByURL[r.URL] = r.Score
			}
			opts.PageRank = prByURL
			opts.BlendWeight = queryBlendWeight
		}

		scored := rank.Rank(indexer.Vocabulary, indexer.Terms, searchTerms, matches, opts)
		if queryLimit > 0 && len(scored) > queryLimit {
			scored = scored[:queryLimit]
		}

		for _, sd := range scored {
			url, _ := indexer.Vocabulary.Get(sd.DocumentID)
			fmt.Printf("%.4f  %s\n", sd.Score, url)
		}

		return nil
	},
}

func setKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func init() {
	queryCmd.Flags().StringVar(&queryDataDir, "data-dir", types.DefaultConfig().DataDir, "directory holding the persisted SQLite artifacts")
	queryCmd.Flags().BoolVar(&queryBoolean, "boolean", false, "parse the query as a boolean expression (AND/OR/NOT/parens) instead of free text")
	queryCmd.Flags().BoolVar(&queryUsePageRank, "pagerank", false, "blend PageRank into the ranking score")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 10, "maximum number of results to print (0 for unlimited)")
	queryCmd.Flags().IntVar(&queryChampionSize, "champion-list-size", types.DefaultConfig().ChampionListSize, "restrict ranking to each term's top-R champion list (0 to rank all matches)")
	queryCmd.Flags().Float64Var(&queryBlendWeight, "rank-blend-weight", types.DefaultConfig().RankBlendWeight, "weight given to PageRank when --pagerank is set")
	queryCmd.Flags().Float64Var(&queryPageRankAlpha, "pagerank-alpha", types.DefaultConfig().PageRankAlpha, "PageRank teleport probability")
	queryCmd.Flags().IntVar(&queryPageRankMaxIter, "pagerank-max-iterations", types.DefaultConfig().PageRankMaxIterations, "PageRank power-iteration cap")
}
