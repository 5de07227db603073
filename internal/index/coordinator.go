// Package index owns the build-in-shadow, swap, cleanup workflow that
// publishes a corpus with zero read-downtime.
//
// The live index is only ever mutated by the swap itself: every other
// step targets the shadow index, so any failure before the swap leaves
// readers untouched. A shadow left behind by a crashed run is destroyed
// at the start of the next one.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docscraper/docscraper/internal/engine"
	"github.com/docscraper/docscraper/internal/scrape"
)

// DefaultBatchSize is the default number of documents per upload batch.
const DefaultBatchSize = 100

// PrimaryKey is the document field the engine keys records by.
const PrimaryKey = "objectID"

// shadowSuffix names the out-of-band replacement index.
const shadowSuffix = "_temp"

// ShadowUID returns the shadow index name for a live index.
func ShadowUID(uid string) string {
	return uid + shadowSuffix
}

// Coordinator runs the reindex workflow against the search engine.
type Coordinator struct {
	engine    engine.Client
	batchSize int
}

// NewCoordinator creates a Coordinator. Batch sizes below 1 use
// DefaultBatchSize.
func NewCoordinator(client engine.Client, batchSize int) *Coordinator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Coordinator{
		engine:    client,
		batchSize: batchSize,
	}
}

// Reindex builds the corpus into a shadow index and atomically swaps it
// with the live one. Steps run strictly sequentially: each one blocks
// on engine-confirmed completion before the next starts.
func (c *Coordinator) Reindex(ctx context.Context, uid string, docs []scrape.Document, settings *engine.Settings) error {
	shadow := ShadowUID(uid)

	if err := c.purgeShadow(ctx, shadow); err != nil {
		return fmt.Errorf("purge stale shadow: %w", err)
	}

	slog.Info("creating shadow index", slog.String("index", shadow))
	if err := c.await(ctx, func() (engine.TaskID, error) {
		return c.engine.CreateIndex(ctx, shadow, PrimaryKey)
	}); err != nil {
		return fmt.Errorf("create shadow: %w", err)
	}

	if settings != nil {
		slog.Info("applying index settings", slog.String("index", shadow))
		if err := c.await(ctx, func() (engine.TaskID, error) {
			return c.engine.UpdateSettings(ctx, shadow, settings)
		}); err != nil {
			return fmt.Errorf("apply settings: %w", err)
		}
	}

	if err := c.uploadBatches(ctx, shadow, docs); err != nil {
		return err
	}

	if err := c.ensureLiveExists(ctx, uid); err != nil {
		return fmt.Errorf("ensure live index: %w", err)
	}

	slog.Info("swapping indexes",
		slog.String("live", uid),
		slog.String("shadow", shadow))
	if err := c.await(ctx, func() (engine.TaskID, error) {
		return c.engine.SwapIndexes(ctx, uid, shadow)
	}); err != nil {
		return fmt.Errorf("swap indexes: %w", err)
	}

	// The shadow now holds the previous corpus. Cleanup failure is not
	// fatal: the next run's purge step retries it.
	if err := c.purgeShadow(ctx, shadow); err != nil {
		slog.Warn("old shadow cleanup failed, next run will retry",
			slog.String("index", shadow),
			slog.String("error", err.Error()))
	}

	return nil
}

// purgeShadow deletes the shadow index if present. Absence is an
// already-satisfied precondition, not an error.
func (c *Coordinator) purgeShadow(ctx context.Context, shadow string) error {
	exists, err := c.engine.IndexExists(ctx, shadow)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	slog.Info("deleting shadow index", slog.String("index", shadow))
	return c.await(ctx, func() (engine.TaskID, error) {
		return c.engine.DeleteIndex(ctx, shadow)
	})
}

// uploadBatches partitions the corpus into fixed-size batches and
// uploads them sequentially, blocking on each batch's completion before
// sending the next. Batches are not pipelined: memory stays bounded and
// a failed batch identifies exactly which slice failed.
func (c *Coordinator) uploadBatches(ctx context.Context, shadow string, docs []scrape.Document) error {
	for start := 0; start < len(docs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		slog.Debug("uploading batch",
			slog.String("index", shadow),
			slog.Int("from", start),
			slog.Int("to", end))
		if err := c.await(ctx, func() (engine.TaskID, error) {
			return c.engine.AddDocuments(ctx, shadow, docs[start:end])
		}); err != nil {
			return fmt.Errorf("upload batch %d..%d: %w", start, end, err)
		}
	}
	return nil
}

// ensureLiveExists creates the live index empty on the first-ever run,
// so the swap always has two real indexes to exchange.
func (c *Coordinator) ensureLiveExists(ctx context.Context, uid string) error {
	exists, err := c.engine.IndexExists(ctx, uid)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	slog.Info("creating live index for first run", slog.String("index", uid))
	return c.await(ctx, func() (engine.TaskID, error) {
		return c.engine.CreateIndex(ctx, uid, PrimaryKey)
	})
}

// await issues one mutating call and blocks until the engine confirms
// its task completed.
func (c *Coordinator) await(ctx context.Context, call func() (engine.TaskID, error)) error {
	id, err := call()
	if err != nil {
		return err
	}
	return c.engine.WaitForTask(ctx, id)
}
