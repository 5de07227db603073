// Package cmd provides the CLI commands for docscraper.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/docscraper/docscraper/internal/crawler"
	"github.com/docscraper/docscraper/internal/index"
	"github.com/docscraper/docscraper/internal/logging"
	"github.com/docscraper/docscraper/pkg/version"
)

// rootFlags are shared by the root command and its subcommands.
type rootFlags struct {
	logLevel    string
	jsonLogs    bool
	concurrency int
	batchSize   int
}

// NewRootCmd creates the root command for the docscraper CLI.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "docscraper [config file...]",
		Short: "Crawl documentation sites into a Meilisearch index",
		Long: `docscraper turns server-rendered documentation pages into ranked,
hierarchically-structured search records and publishes them into
Meilisearch with zero read-downtime.

Each configuration file describes one index: where to discover pages,
how to rank them, and which selectors turn a page into search records.
The replacement index is built out-of-band and atomically swapped in.`,
		Version:      version.Version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, args, flags)
		},
	}

	cmd.SetVersionTemplate("docscraper version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.jsonLogs, "json-logs", false, "Emit logs as JSON")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", crawler.DefaultConcurrency, "Page fetches in flight per wave")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", index.DefaultBatchSize, "Documents per upload batch")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logging.Setup(logging.Config{
			Level: flags.logLevel,
			JSON:  flags.jsonLogs,
		})
	}

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
