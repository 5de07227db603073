package crawler

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	scraperrors "github.com/docscraper/docscraper/internal/errors"
)

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	URLs []sitemapURL `xml:"url"`
}

type sitemapRef struct {
	Loc string `xml:"loc"`
}

type sitemapIndex struct {
	Sitemaps []sitemapRef `xml:"sitemap"`
}

// DiscoverSitemaps fetches the sitemap locations and returns the
// deduplicated set of absolute page URLs in first-seen order. Sitemap
// indexes are followed. A single failed sitemap only logs a discovery
// error; its URLs are simply absent from the result.
func DiscoverSitemaps(ctx context.Context, fetcher *Fetcher, locations []string) []string {
	var urls []string
	seen := make(map[string]bool)

	// Queue-based walk so nested sitemap indexes work; visited guards
	// against reference cycles.
	queue := append([]string(nil), locations...)
	visited := make(map[string]bool)

	for len(queue) > 0 {
		location := queue[0]
		queue = queue[1:]
		if visited[location] {
			continue
		}
		visited[location] = true

		body, err := fetcher.Fetch(ctx, location)
		if err != nil {
			logDiscoveryError(location, err)
			continue
		}

		pageURLs, children, err := parseSitemap(body)
		if err != nil {
			logDiscoveryError(location, err)
			continue
		}

		for _, u := range pageURLs {
			u = strings.TrimSpace(u)
			if !strings.HasPrefix(u, "http") || seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
		queue = append(queue, children...)
	}

	return urls
}

// parseSitemap decodes one sitemap document: a urlset yields page URLs,
// a sitemapindex yields child sitemap locations.
func parseSitemap(data []byte) (pageURLs, children []string, err error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, nil, err
	}

	switch root {
	case "urlset":
		var set sitemapURLSet
		if err := xml.Unmarshal(data, &set); err != nil {
			return nil, nil, fmt.Errorf("parse urlset: %w", err)
		}
		for _, u := range set.URLs {
			pageURLs = append(pageURLs, u.Loc)
		}
		return pageURLs, nil, nil

	case "sitemapindex":
		var index sitemapIndex
		if err := xml.Unmarshal(data, &index); err != nil {
			return nil, nil, fmt.Errorf("parse sitemapindex: %w", err)
		}
		for _, ref := range index.Sitemaps {
			if loc := strings.TrimSpace(ref.Loc); loc != "" {
				children = append(children, loc)
			}
		}
		return nil, children, nil
	}

	return nil, nil, fmt.Errorf("unexpected sitemap root element %q", root)
}

// rootElement returns the local name of the document's root element.
func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("parse sitemap xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func logDiscoveryError(location string, err error) {
	derr := scraperrors.DiscoveryError("sitemap skipped", err).WithDetail("sitemap", location)
	slog.Warn("sitemap discovery failed",
		slog.String("sitemap", location),
		slog.String("error", derr.Error()))
}
