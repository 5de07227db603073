package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docscraper/docscraper/internal/config"
	"github.com/docscraper/docscraper/internal/crawler"
	"github.com/docscraper/docscraper/internal/engine"
	"github.com/docscraper/docscraper/internal/pipeline"
)

// runScrape is the root command's work: crawl and publish every
// configuration file, print the summary, and fail when any
// configuration failed.
func runScrape(cmd *cobra.Command, configPaths []string, flags *rootFlags) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Engine: engine.NewMeili(env.HostURL, env.APIKey),
		Fetcher: crawler.NewFetcher(crawler.FetcherConfig{
			BasicAuthUser:     env.BasicAuthUser,
			BasicAuthPassword: env.BasicAuthPassword,
		}),
		Concurrency:   flags.concurrency,
		BatchSize:     flags.batchSize,
		IndexOverride: env.IndexUIDOverride,
	})

	results, err := runner.RunAll(cmd.Context(), configPaths)
	if err != nil {
		return err
	}

	pipeline.PrintSummary(cmd.OutOrStdout(), results)

	if pipeline.AnyFailed(results) {
		return fmt.Errorf("one or more configurations failed")
	}
	return nil
}
