package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "list-crawler",
	Short: "A recipe-driven list page crawler.",
	Long: `list-crawler harvests item links from paginated list pages.

A declarative YAML recipe names the start URLs, the CSS selectors that
scope items within each page, and one of three pagination strategies
(next link, all links in a container, or a URL template). Discovered
items and per-page visit records are appended to JSONL logs, and a
persisted seen set makes interrupted crawls resumable without
reprocessing prior work.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ExecuteArgs runs the root command with the given arguments and returns
// the error instead of exiting. This is a test helper.
func ExecuteArgs(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}
