package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	scraperrors "github.com/docscraper/docscraper/internal/errors"
	"github.com/docscraper/docscraper/internal/scrape"
)

// DefaultConcurrency is the default number of in-flight fetches per
// wave.
const DefaultConcurrency = 10

// ExtractFunc turns one successfully fetched and parsed page into
// documents. The pipeline supplies routing plus extraction here.
type ExtractFunc func(pageURL string, doc *goquery.Document) []scrape.Document

// Scheduler drives the extractor over many URLs in fixed-size waves.
// Per-URL failures are logged and contribute zero documents; they never
// abort the wave or the run.
type Scheduler struct {
	fetcher     *Fetcher
	extract     ExtractFunc
	concurrency int
}

// NewScheduler creates a Scheduler. Concurrency values below 1 use
// DefaultConcurrency.
func NewScheduler(fetcher *Fetcher, extract ExtractFunc, concurrency int) *Scheduler {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Scheduler{
		fetcher:     fetcher,
		extract:     extract,
		concurrency: concurrency,
	}
}

// Run processes the URLs wave by wave and returns the flattened corpus:
// wave order first, intra-wave completion order second. Consumers must
// not depend on document order, only on item_priority.
func (s *Scheduler) Run(ctx context.Context, urls []string) []scrape.Document {
	var corpus []scrape.Document

	for start := 0; start < len(urls); start += s.concurrency {
		end := start + s.concurrency
		if end > len(urls) {
			end = len(urls)
		}
		corpus = append(corpus, s.runWave(ctx, urls[start:end])...)
	}

	return corpus
}

// runWave fetches one wave of URLs concurrently and waits for all of
// them before returning.
func (s *Scheduler) runWave(ctx context.Context, wave []string) []scrape.Document {
	var (
		mu   sync.Mutex
		docs []scrape.Document
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, pageURL := range wave {
		pageURL := pageURL
		g.Go(func() error {
			pageDocs, err := s.processPage(ctx, pageURL)
			if err != nil {
				slog.Warn("page skipped",
					slog.String("url", pageURL),
					slog.String("error", err.Error()))
				return nil
			}
			mu.Lock()
			docs = append(docs, pageDocs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; failures are absorbed above

	return docs
}

// processPage fetches, parses, and extracts one page. Any failure is a
// page error caught at this boundary.
func (s *Scheduler) processPage(ctx context.Context, pageURL string) ([]scrape.Document, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, scraperrors.PageError("fetch failed", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, scraperrors.PageError("parse failed", err)
	}

	return s.extract(pageURL, doc), nil
}
