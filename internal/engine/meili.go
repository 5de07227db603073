package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/meilisearch/meilisearch-go"

	scraperrors "github.com/docscraper/docscraper/internal/errors"
)

// Verify interface compliance.
var _ Client = (*Meili)(nil)

// Meili implements Client against a Meilisearch server.
type Meili struct {
	client meilisearch.ServiceManager
}

// NewMeili creates a Meilisearch-backed client.
func NewMeili(host, apiKey string) *Meili {
	return &Meili{
		client: meilisearch.New(host, meilisearch.WithAPIKey(apiKey)),
	}
}

// IndexExists probes for an index via the get-index endpoint.
func (m *Meili) IndexExists(ctx context.Context, uid string) (bool, error) {
	_, err := m.client.GetIndex(uid)
	if err == nil {
		return true, nil
	}

	var apiErr *meilisearch.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, scraperrors.EngineError("get index "+uid, err)
}

// CreateIndex creates an index with the given primary-key field.
func (m *Meili) CreateIndex(ctx context.Context, uid, primaryKey string) (TaskID, error) {
	info, err := m.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        uid,
		PrimaryKey: primaryKey,
	})
	if err != nil {
		return 0, scraperrors.EngineError("create index "+uid, err)
	}
	return TaskID(info.TaskUID), nil
}

// DeleteIndex deletes an index.
func (m *Meili) DeleteIndex(ctx context.Context, uid string) (TaskID, error) {
	info, err := m.client.DeleteIndex(uid)
	if err != nil {
		return 0, scraperrors.EngineError("delete index "+uid, err)
	}
	return TaskID(info.TaskUID), nil
}

// UpdateSettings pushes only the settings fields present in s.
func (m *Meili) UpdateSettings(ctx context.Context, uid string, s *Settings) (TaskID, error) {
	info, err := m.client.Index(uid).UpdateSettings(toMeiliSettings(s))
	if err != nil {
		return 0, scraperrors.EngineError("update settings of "+uid, err)
	}
	return TaskID(info.TaskUID), nil
}

// AddDocuments uploads one batch of documents. The primary key is fixed
// at index creation, so none is passed here.
func (m *Meili) AddDocuments(ctx context.Context, uid string, docs any) (TaskID, error) {
	info, err := m.client.Index(uid).AddDocuments(docs)
	if err != nil {
		return 0, scraperrors.EngineError("add documents to "+uid, err)
	}
	return TaskID(info.TaskUID), nil
}

// SwapIndexes exchanges two indexes atomically at the engine level.
func (m *Meili) SwapIndexes(ctx context.Context, a, b string) (TaskID, error) {
	info, err := m.client.SwapIndexes([]*meilisearch.SwapIndexesParams{
		{Indexes: []string{a, b}},
	})
	if err != nil {
		return 0, scraperrors.EngineError("swap indexes "+a+" and "+b, err)
	}
	return TaskID(info.TaskUID), nil
}

// WaitForTask blocks until the engine reports terminal task status.
// A task that terminates in failure is an engine error; "wait returned"
// alone is never treated as success.
func (m *Meili) WaitForTask(ctx context.Context, id TaskID) error {
	task, err := m.client.WaitForTaskWithContext(ctx, int64(id), 50*time.Millisecond)
	if err != nil {
		return scraperrors.EngineError("wait for task", err)
	}
	if task.Status != meilisearch.TaskStatusSucceeded {
		return scraperrors.EngineError("task "+string(task.Status), nil).
			WithDetail("task_error", task.Error.Message).
			WithDetail("task_type", string(task.Type))
	}
	return nil
}

// toMeiliSettings maps the configuration settings onto the client
// library's settings type, preserving field absence.
func toMeiliSettings(s *Settings) *meilisearch.Settings {
	out := &meilisearch.Settings{
		SearchableAttributes: s.SearchableAttributes,
		DisplayedAttributes:  s.DisplayedAttributes,
		FilterableAttributes: s.FilterableAttributes,
		SortableAttributes:   s.SortableAttributes,
		RankingRules:         s.RankingRules,
		DistinctAttribute:    s.DistinctAttribute,
		StopWords:            s.StopWords,
		Synonyms:             s.Synonyms,
		SeparatorTokens:      s.SeparatorTokens,
		NonSeparatorTokens:   s.NonSeparatorTokens,
	}
	if s.TypoTolerance != nil {
		out.TypoTolerance = &meilisearch.TypoTolerance{
			Enabled: s.TypoTolerance.Enabled,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  s.TypoTolerance.MinWordSizeForTypos.OneTypo,
				TwoTypos: s.TypoTolerance.MinWordSizeForTypos.TwoTypos,
			},
			DisableOnWords:      s.TypoTolerance.DisableOnWords,
			DisableOnAttributes: s.TypoTolerance.DisableOnAttributes,
		}
	}
	return out
}
