package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscraper/docscraper/internal/scrape"
)

// titleExtract emits one document per page carrying the page title, just
// enough structure to observe the scheduler's behavior.
func titleExtract(pageURL string, doc *goquery.Document) []scrape.Document {
	return []scrape.Document{{
		ObjectID: pageURL,
		URL:      pageURL,
		Content:  doc.Find("title").Text(),
	}}
}

func TestScheduler_ProcessesAllURLs(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		w.Write([]byte("<html><title>" + r.URL.Path + "</title></html>"))

		mu.Lock()
		inFlight--
		mu.Unlock()
	}))
	defer srv.Close()

	urls := make([]string, 7)
	for i := range urls {
		urls[i] = srv.URL + "/page" + string(rune('a'+i))
	}

	s := NewScheduler(NewFetcher(FetcherConfig{}), titleExtract, 3)
	corpus := s.Run(context.Background(), urls)

	// Every page contributed, and waves never exceeded the bound.
	require.Len(t, corpus, len(urls))
	assert.LessOrEqual(t, peak, 3)

	got := make(map[string]bool)
	for _, d := range corpus {
		got[d.ObjectID] = true
	}
	for _, u := range urls {
		assert.True(t, got[u], "missing %s", u)
	}
}

func TestScheduler_FailedPageDoesNotAbortTheRun(t *testing.T) {
	// Given: one page that always fails among healthy ones
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html><title>" + r.URL.Path + "</title></html>"))
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/broken", srv.URL + "/b"}

	s := NewScheduler(NewFetcher(FetcherConfig{}), titleExtract, 2)
	corpus := s.Run(context.Background(), urls)

	// Then: the broken page contributes zero documents, the rest survive
	require.Len(t, corpus, 2)
	for _, d := range corpus {
		assert.NotContains(t, d.URL, "/broken")
	}
}

func TestScheduler_EmptyURLListYieldsEmptyCorpus(t *testing.T) {
	s := NewScheduler(NewFetcher(FetcherConfig{}), titleExtract, 2)
	assert.Empty(t, s.Run(context.Background(), nil))
}

func TestNewScheduler_ConcurrencyBelowOneUsesDefault(t *testing.T) {
	s := NewScheduler(NewFetcher(FetcherConfig{}), titleExtract, 0)
	assert.Equal(t, DefaultConcurrency, s.concurrency)
}
