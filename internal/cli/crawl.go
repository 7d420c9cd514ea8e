package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	wibot "github.com/BenjaminSRussell/wibot"
	"github.com/BenjaminSRussell/wibot/internal/types"
)

var (
	seeds                 []string
	threads               int
	numFrontQueues        int
	perHostDelaySeconds   float64
	requestTimeoutSeconds int
	userAgent             string
	ignoreRobots          bool
	championListSize      int
	pageRankAlpha         float64
	pageRankMaxIterations int
	rankBlendWeight       float64
	dumpThreshold         int
	dataDir               string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Start crawling from a set of seed URLs",
	Long:  `Start crawling from one or more seed URLs until interrupted, indexing fetched pages in the background as they arrive (a page is skipped when the indexing queue is full).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := types.DefaultConfig()
		config.Seeds = seeds
		config.Threads = threads
		config.NumFrontQueues = numFrontQueues
		config.PerHostDelay = time.Duration(perHostDelaySeconds * float64(time.Second))
		config.RequestTimeout = time.Duration(requestTimeoutSeconds) * time.Second
		config.UserAgent = userAgent
		config.IgnoreRobots = ignoreRobots
		config.ChampionListSize = championListSize
		config.PageRankAlpha = pageRankAlpha
		config.PageRankMaxIterations = pageRankMaxIterations
		config.RankBlendWeight = rankBlendWeight
		config.DumpThreshold = dumpThreshold
		config.DataDir = dataDir

		service, err := wibot.New(config)
		if err != nil {
			return fmt.Errorf("build crawl service: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		for _, seed := range config.Seeds {
			if !service.QueueRawURL(ctx, seed) {
				log.Warn().Str("url", seed).Msg("seed URL rejected by frontier")
			}
		}

		service.StartCrawlers(ctx)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("shutting down, draining in-flight requests")
		service.StopCrawlers()

		stats := service.Stats()
		fmt.Printf("crawled %d pages, %d references, %d URLs seen\n", stats.Contents, stats.References, stats.Seen)

		return service.Close()
	},
}

func init() {
	crawlCmd.Flags().StringSliceVar(&seeds, "seed", nil, "seed URL to admit into the frontier (repeatable)")
	crawlCmd.Flags().IntVar(&threads, "threads", types.DefaultConfig().Threads, "number of crawl worker goroutines")
	crawlCmd.Flags().IntVar(&numFrontQueues, "num-front-queues", types.DefaultConfig().NumFrontQueues, "number of front admission queues")
	crawlCmd.Flags().Float64Var(&perHostDelaySeconds, "per-host-delay", types.DefaultConfig().PerHostDelay.Seconds(), "minimum seconds between two fetches of the same host")
	crawlCmd.Flags().IntVar(&requestTimeoutSeconds, "request-timeout", int(types.DefaultConfig().RequestTimeout.Seconds()), "per-request timeout in seconds")
	crawlCmd.Flags().StringVar(&userAgent, "user-agent", types.DefaultConfig().UserAgent, "User-Agent sent on every request and checked against robots.txt")
	crawlCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "disable the robots.txt exclusion check")
	crawlCmd.Flags().IntVar(&championListSize, "champion-list-size", types.DefaultConfig().ChampionListSize, "number of top documents kept per term's champion list")
	crawlCmd.Flags().Float64Var(&pageRankAlpha, "pagerank-alpha", types.DefaultConfig().PageRankAlpha, "PageRank teleport probability")
	crawlCmd.Flags().IntVar(&pageRankMaxIterations, "pagerank-max-iterations", types.DefaultConfig().PageRankMaxIterations, "PageRank power-iteration cap")
	crawlCmd.Flags().Float64Var(&rankBlendWeight, "rank-blend-weight", types.DefaultConfig().RankBlendWeight, "weight given to PageRank when blending with tf-idf cosine score")
	crawlCmd.Flags().IntVar(&dumpThreshold, "dump-threshold", types.DefaultConfig().DumpThreshold, "number of URLs with recorded contents that triggers a persisted-artifact dump")
	crawlCmd.Flags().StringVar(&dataDir, "data-dir", types.DefaultConfig().DataDir, "directory holding the persisted SQLite artifacts")

	crawlCmd.MarkFlagRequired("seed")
}
