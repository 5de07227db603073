// Package engine defines the search-engine surface docscraper consumes
// and its Meilisearch implementation.
//
// Every mutating call returns an opaque task ID; callers block on
// WaitForTask before depending on the mutation. The reindex coordinator
// relies on this request/confirm protocol for its step ordering.
package engine

import "context"

// TaskID identifies an asynchronous engine task.
type TaskID int64

// Client is the engine API surface consumed by the pipeline.
type Client interface {
	// IndexExists probes for an index without mutating anything.
	IndexExists(ctx context.Context, uid string) (bool, error)

	// CreateIndex creates an index with the given primary-key field.
	CreateIndex(ctx context.Context, uid, primaryKey string) (TaskID, error)

	// DeleteIndex deletes an index.
	DeleteIndex(ctx context.Context, uid string) (TaskID, error)

	// UpdateSettings pushes the settings fields present in s.
	UpdateSettings(ctx context.Context, uid string, s *Settings) (TaskID, error)

	// AddDocuments uploads one batch of documents.
	AddDocuments(ctx context.Context, uid string, docs any) (TaskID, error)

	// SwapIndexes exchanges the document sets and settings of two
	// indexes as a single atomic engine operation.
	SwapIndexes(ctx context.Context, a, b string) (TaskID, error)

	// WaitForTask blocks until the engine reports terminal status for
	// the task. Engine-reported failure surfaces as an engine error.
	WaitForTask(ctx context.Context, id TaskID) error
}

// Settings holds the index settings a configuration may override.
// Field names follow the engine's own setting names so custom_settings
// documents map verbatim.
type Settings struct {
	SearchableAttributes []string            `json:"searchableAttributes,omitempty" yaml:"searchableAttributes,omitempty"`
	DisplayedAttributes  []string            `json:"displayedAttributes,omitempty" yaml:"displayedAttributes,omitempty"`
	FilterableAttributes []string            `json:"filterableAttributes,omitempty" yaml:"filterableAttributes,omitempty"`
	SortableAttributes   []string            `json:"sortableAttributes,omitempty" yaml:"sortableAttributes,omitempty"`
	RankingRules         []string            `json:"rankingRules,omitempty" yaml:"rankingRules,omitempty"`
	DistinctAttribute    *string             `json:"distinctAttribute,omitempty" yaml:"distinctAttribute,omitempty"`
	StopWords            []string            `json:"stopWords,omitempty" yaml:"stopWords,omitempty"`
	Synonyms             map[string][]string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	SeparatorTokens      []string            `json:"separatorTokens,omitempty" yaml:"separatorTokens,omitempty"`
	NonSeparatorTokens   []string            `json:"nonSeparatorTokens,omitempty" yaml:"nonSeparatorTokens,omitempty"`
	TypoTolerance        *TypoTolerance      `json:"typoTolerance,omitempty" yaml:"typoTolerance,omitempty"`
}

// TypoTolerance mirrors the engine's typo-tolerance setting.
type TypoTolerance struct {
	Enabled             bool                `json:"enabled" yaml:"enabled"`
	MinWordSizeForTypos MinWordSizeForTypos `json:"minWordSizeForTypos,omitempty" yaml:"minWordSizeForTypos,omitempty"`
	DisableOnWords      []string            `json:"disableOnWords,omitempty" yaml:"disableOnWords,omitempty"`
	DisableOnAttributes []string            `json:"disableOnAttributes,omitempty" yaml:"disableOnAttributes,omitempty"`
}

// MinWordSizeForTypos mirrors the engine's typo word-size thresholds.
type MinWordSizeForTypos struct {
	OneTypo  int64 `json:"oneTypo,omitempty" yaml:"oneTypo,omitempty"`
	TwoTypos int64 `json:"twoTypos,omitempty" yaml:"twoTypos,omitempty"`
}
