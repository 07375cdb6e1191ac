package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rohmanhakim/list-crawler/internal/dataserver"
	"github.com/rohmanhakim/list-crawler/internal/logging"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the output directory over HTTP",
	Long: `Serve exposes the crawl output directory with a JSON listing API
(/api/files/) and plain downloads (/files/), so results can be inspected
from another machine while crawls keep appending to them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logging.New(verbose)
		defer log.Sync()

		server := dataserver.NewServer(serveDataDir, log)
		return server.Run(serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8081", "listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "output", "directory to serve")
}
