package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wibot",
	Short: "A polite concurrent web crawler with a built-in search index",
	Long:  `wibot crawls a seed set of URLs under a politeness schedule, builds an inverted index over the pages it fetches, and answers free-text and boolean queries ranked by tf-idf and PageRank.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(queryCmd)
}
