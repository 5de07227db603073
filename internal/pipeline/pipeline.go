// Package pipeline orchestrates one invocation: for each configuration
// it discovers URLs, extracts documents, and publishes them through the
// reindex coordinator, then reports a per-configuration and aggregate
// summary.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/docscraper/docscraper/internal/config"
	"github.com/docscraper/docscraper/internal/crawler"
	"github.com/docscraper/docscraper/internal/engine"
	scraperrors "github.com/docscraper/docscraper/internal/errors"
	"github.com/docscraper/docscraper/internal/index"
	"github.com/docscraper/docscraper/internal/router"
	"github.com/docscraper/docscraper/internal/scrape"
)

// Runner processes configurations strictly one after another against a
// shared engine client. The client is the only cross-configuration
// state and holds no per-configuration data.
type Runner struct {
	engine      engine.Client
	fetcher     *crawler.Fetcher
	coordinator *index.Coordinator
	concurrency int

	// indexOverride replaces the configuration's index_uid; only valid
	// for single-configuration invocations.
	indexOverride string
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Engine        engine.Client
	Fetcher       *crawler.Fetcher
	Concurrency   int
	BatchSize     int
	IndexOverride string
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		engine:        cfg.Engine,
		fetcher:       cfg.Fetcher,
		coordinator:   index.NewCoordinator(cfg.Engine, cfg.BatchSize),
		concurrency:   cfg.Concurrency,
		indexOverride: cfg.IndexOverride,
	}
}

// Result is the outcome of one configuration.
type Result struct {
	ConfigPath string
	IndexUID   string
	URLs       int
	Documents  int
	Duration   time.Duration
	Err        error
}

// Failed reports whether the configuration ended in failure: an error,
// zero discovered URLs, or zero extracted documents.
func (r Result) Failed() bool {
	return r.Err != nil
}

// RunAll processes every configuration file in order and returns one
// result per file. A failing configuration never stops the next one.
func (r *Runner) RunAll(ctx context.Context, paths []string) ([]Result, error) {
	if r.indexOverride != "" && len(paths) > 1 {
		return nil, scraperrors.ConfigError(
			config.EnvIndexUID+" can only be used with a single configuration", nil)
	}

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		result := r.runOne(ctx, path)
		if result.Err != nil {
			slog.Error("configuration failed",
				slog.String("config", path),
				slog.String("error", result.Err.Error()))
		} else {
			slog.Info("configuration indexed",
				slog.String("config", path),
				slog.String("index", result.IndexUID),
				slog.Int("urls", result.URLs),
				slog.Int("documents", result.Documents),
				slog.Duration("duration", result.Duration))
		}
		results = append(results, result)
	}
	return results, nil
}

// runOne executes the whole pipeline for one configuration file.
func (r *Runner) runOne(ctx context.Context, path string) Result {
	start := time.Now()
	result := Result{ConfigPath: path}
	defer func() { result.Duration = time.Since(start) }()

	cfg, err := config.LoadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	result.IndexUID = cfg.IndexUID
	if r.indexOverride != "" {
		result.IndexUID = r.indexOverride
	}

	urls := r.discover(ctx, cfg)
	result.URLs = len(urls)
	if len(urls) == 0 {
		result.Err = scraperrors.New(scraperrors.KindDiscovery, "no URLs discovered", nil)
		return result
	}

	corpus := r.crawl(ctx, cfg, urls)
	result.Documents = len(corpus)
	if len(corpus) == 0 {
		result.Err = scraperrors.New(scraperrors.KindPage, "no documents extracted", nil)
		return result
	}

	if err := r.coordinator.Reindex(ctx, result.IndexUID, corpus, cfg.CustomSettings); err != nil {
		result.Err = err
		return result
	}
	return result
}

// discover builds the crawl set: sitemap URLs plus literal start URLs,
// deduplicated in first-seen order, minus the stop list.
func (r *Runner) discover(ctx context.Context, cfg *config.Config) []string {
	urls := crawler.DiscoverSitemaps(ctx, r.fetcher, cfg.SitemapURLs)

	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		seen[u] = true
	}
	for _, entry := range cfg.StartURLs {
		if !router.IsLiteral(entry.URL) || seen[entry.URL] {
			continue
		}
		seen[entry.URL] = true
		urls = append(urls, entry.URL)
	}

	return router.NewStopList(cfg.StopURLs).Filter(urls)
}

// crawl routes every URL to its rank and selector set and runs the
// wave scheduler over the crawl set.
func (r *Runner) crawl(ctx context.Context, cfg *config.Config, urls []string) []scrape.Document {
	rt := router.New(cfg.StartURLs)

	extract := func(pageURL string, doc *goquery.Document) []scrape.Document {
		rank, key := rt.Resolve(pageURL)
		return scrape.Extract(pageURL, doc, cfg.SelectorSetFor(key), scrape.Options{
			Exclude:    cfg.SelectorsExclude,
			GlobalTags: cfg.Tags,
			Rank:       rank,
		})
	}

	return crawler.NewScheduler(r.fetcher, extract, r.concurrency).Run(ctx, urls)
}

// AnyFailed reports whether at least one configuration failed.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if r.Failed() {
			return true
		}
	}
	return false
}

// PrintSummary writes the per-configuration and aggregate summary.
func PrintSummary(w io.Writer, results []Result) {
	var failed int
	for _, r := range results {
		status := "ok"
		detail := fmt.Sprintf("urls=%d documents=%d duration=%s",
			r.URLs, r.Documents, r.Duration.Round(time.Millisecond))
		if r.Failed() {
			failed++
			status = "failed"
			detail = r.Err.Error()
		}
		fmt.Fprintf(w, "%-8s %s (index %s): %s\n", status, r.ConfigPath, r.IndexUID, detail)
	}
	fmt.Fprintf(w, "%d configuration(s), %d failed\n", len(results), failed)
}
