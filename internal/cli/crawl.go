package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/list-crawler/internal/crawl"
	"github.com/rohmanhakim/list-crawler/internal/dedup"
	"github.com/rohmanhakim/list-crawler/internal/fetcher"
	"github.com/rohmanhakim/list-crawler/internal/logging"
	"github.com/rohmanhakim/list-crawler/internal/recipe"
	"github.com/rohmanhakim/list-crawler/internal/storage"
	"github.com/rohmanhakim/list-crawler/pkg/retry"
	"github.com/rohmanhakim/list-crawler/pkg/timeutil"
)

var (
	recipePath       string
	stateDir         string
	dryRun           bool
	force            bool
	verboseSelectors bool
	delay            time.Duration
	jitter           time.Duration
	timeout          time.Duration
	userAgent        string
	maxRetries       int
	randomSeed       int64
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run a list crawl from a recipe",
	Long: `Crawl fetches list pages per the recipe's pagination strategy,
extracts item links, and appends them to the configured JSONL outputs.
Pages and items already recorded in the state directory are skipped, so
re-running the same recipe resumes where the last run stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		rec, loadErr := recipe.Load(recipePath)
		if loadErr != nil {
			return fmt.Errorf("loading recipe: %w", loadErr)
		}

		log := logging.New(verbose)
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var sink storage.Sink
		if dryRun {
			sink = storage.NewDiscardSink()
		} else {
			jsonlSink, sinkErr := storage.NewJSONLSink(rec.Output.ItemsJSONL, rec.Output.PagesJSONL)
			if sinkErr != nil {
				return fmt.Errorf("opening output sink: %w", sinkErr)
			}
			defer jsonlSink.Close()
			sink = jsonlSink
		}

		retryParam := retry.NewRetryParam(
			jitter,
			randomSeed,
			maxRetries,
			timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
		)
		httpFetcher := fetcher.NewHTTPFetcher(timeout, userAgent, retryParam, log)

		store := dedup.Open(stateDir, log)

		loop := crawl.NewLoop(rec, httpFetcher, store, sink, log, crawl.Options{
			Force:            force,
			DryRun:           dryRun,
			VerboseSelectors: verboseSelectors,
			Delay:            delay,
			Jitter:           jitter,
		})

		summary, runErr := loop.Run(ctx)
		printSummary(summary)
		if runErr != nil {
			return fmt.Errorf("crawl failed: %w", runErr)
		}
		return nil
	},
}

func printSummary(summary crawl.Summary) {
	fmt.Printf("Pages fetched: %d\n", summary.PagesFetched)
	fmt.Printf("Pages skipped: %d\n", summary.PagesSkipped)
	fmt.Printf("Pages failed: %d\n", summary.PagesFailed)
	fmt.Printf("Items discovered: %d\n", summary.ItemsDiscovered)
	fmt.Printf("Elapsed: %v\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("Termination: %s\n", summary.Reason)
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringVar(&recipePath, "recipe", "", "path to the recipe YAML file")
	crawlCmd.Flags().StringVar(&stateDir, "state-dir", "state", "directory holding the seen-page and seen-item sets")
	crawlCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run extraction and pagination without writing output or state")
	crawlCmd.Flags().BoolVar(&force, "force", false, "refetch pages already in the seen set (items stay deduplicated)")
	crawlCmd.Flags().BoolVar(&verboseSelectors, "verbose-selectors", false, "log per-page selector match counts")
	crawlCmd.Flags().DurationVar(&delay, "delay", time.Second, "minimum delay between fetches against the same host")
	crawlCmd.Flags().DurationVar(&jitter, "jitter", 0, "random jitter added to the delay")
	crawlCmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	crawlCmd.Flags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	crawlCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "attempts per page before its chain is abandoned")
	crawlCmd.Flags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")

	crawlCmd.MarkFlagRequired("recipe")
}
