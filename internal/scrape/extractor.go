// Package scrape turns one parsed documentation page into an ordered
// list of search documents carrying heading context, ranking weight,
// and page-level metadata.
package scrape

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/docscraper/docscraper/internal/config"
)

// minContentLength is the exclusive lower bound for content text,
// counted in characters; text at or under this length never produces a
// document.
const minContentLength = 10

// Meta selectors for page-level metadata independent of heading
// position.
const (
	productMetaSelector = `meta[name="product"]`
	tagsMetaSelector    = `meta[name="tags"]`
)

// Options carries the per-page extraction inputs that come from the
// configuration rather than the selector set.
type Options struct {
	// Exclude are selectors removed from the page before any
	// extraction; excluded elements contribute no text, headings, or
	// tags.
	Exclude []string

	// GlobalTags is the fallback tag list when a page carries none.
	GlobalTags []string

	// Rank is the start-URL rule rank routed for this page.
	Rank int
}

// textLevel marks a walk candidate matched by the text selector rather
// than a heading selector.
const textLevel = -1

// Extract walks the parsed page in document order and emits scored
// documents. The walk owns a mutable hierarchy value scoped strictly to
// this call.
func Extract(pageURL string, doc *goquery.Document, set config.SelectorSet, opts Options) []Document {
	rank := opts.Rank
	if rank < 1 {
		rank = 1
	}

	// Exclusion comes first: nothing removed here may contribute
	// headings, text, or tags.
	for _, selector := range opts.Exclude {
		findAll(doc, selector).Remove()
	}

	product := strings.TrimSpace(doc.Find(productMetaSelector).First().AttrOr("content", ""))
	breadcrumb := firstText(doc, set.Breadcrumb.Selector)
	tags := pageTags(doc, set.Tag.Selector, opts.GlobalTags)

	state := Hierarchy{}
	if set.Lvl0.Global {
		lvl0 := firstText(doc, set.Lvl0.Selector)
		if lvl0 == "" {
			lvl0 = set.Lvl0.DefaultValue
		}
		state[0] = lvl0
	}
	if set.Lvl1.Global {
		state[1] = firstText(doc, set.Lvl1.Selector)
	}

	// One combined in-order query keeps ordering across heading and
	// text candidates. Global levels are fixed above and do not walk.
	levelMatchers := make([]cascadia.Selector, Levels)
	var parts []string
	for level := 0; level < Levels; level++ {
		sel := set.Level(level)
		if sel.Global || sel.Selector == "" {
			continue
		}
		if group := compileSelector(sel.Selector); group != nil {
			levelMatchers[level] = group
			parts = append(parts, sel.Selector)
		}
	}
	textMatcher := compileSelector(set.Text.Selector)
	if textMatcher != nil {
		parts = append(parts, set.Text.Selector)
	}

	candidates := findAll(doc, strings.Join(parts, ", "))
	total := candidates.Length()

	var (
		docs         []Document
		activeAnchor string
		firstLvl1    string
		textMatched  bool
		contentIndex int
		seq          int
	)

	candidates.Each(func(_ int, el *goquery.Selection) {
		level := classify(el, levelMatchers, textMatcher)
		if level != textLevel {
			heading := normalizeText(el)
			state.Set(level, heading)
			if anchor := elementAnchor(el); anchor != "" {
				activeAnchor = anchor
			}
			if level == 1 && firstLvl1 == "" {
				firstLvl1 = heading
			}
			return
		}

		textMatched = true
		content := normalizeText(el)
		if utf8.RuneCountInString(content) <= minContentLength {
			return
		}

		d := Document{
			URL:              pageURL,
			URLWithoutAnchor: pageURL,
			Content:          content,
			Type:             TypeContent,
			Product:          product,
			Breadcrumb:       breadcrumb,
			Tags:             tags,
			ItemPriority:     itemPriority(rank, state, total, contentIndex),
		}
		if activeAnchor != "" {
			d.Anchor = activeAnchor
			d.URL = pageURL + "#" + activeAnchor
		}
		d.setHierarchy(state)
		d.ObjectID = objectID(d.URL, seq)

		docs = append(docs, d)
		contentIndex++
		seq++
	})

	// A page with no text candidates at all is still worth one record
	// when it has a resolvable lvl1, so the page itself is findable.
	if !textMatched {
		lvl1 := state[1]
		if lvl1 == "" {
			lvl1 = firstLvl1
		}
		if lvl1 != "" {
			pageState := Hierarchy{state[0], lvl1}
			d := Document{
				ObjectID:         objectID(pageURL, 0),
				URL:              pageURL,
				URLWithoutAnchor: pageURL,
				Type:             TypeLvl1,
				Product:          product,
				Breadcrumb:       breadcrumb,
				Tags:             tags,
				ItemPriority:     itemPriority(rank, pageState, total, 0),
			}
			d.setHierarchy(pageState)
			docs = append(docs, d)
		}
	}

	return docs
}

// classify resolves which selector an element matched: a heading level
// (shallowest wins when selectors overlap) or the text selector.
func classify(el *goquery.Selection, levels []cascadia.Selector, text cascadia.Selector) int {
	for level, matcher := range levels {
		if matcher != nil && el.IsMatcher(matcher) {
			return level
		}
	}
	return textLevel
}

// elementAnchor returns the element's identifier attribute used to
// build fragment URLs for subsequent text blocks.
func elementAnchor(el *goquery.Selection) string {
	if id := el.AttrOr("id", ""); id != "" {
		return id
	}
	if name := el.AttrOr("name", ""); name != "" {
		return name
	}
	// Headings frequently carry a named child anchor instead.
	return el.Find("a[name]").First().AttrOr("name", "")
}

// pageTags returns the ordered union of metadata-tag values and
// tag-selector text, falling back to the configuration's global tags
// when the page carries none.
func pageTags(doc *goquery.Document, tagSelector string, globalTags []string) []string {
	var tags []string
	seen := make(map[string]bool)

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	doc.Find(tagsMetaSelector).Each(func(_ int, meta *goquery.Selection) {
		for _, tag := range strings.Split(meta.AttrOr("content", ""), ",") {
			add(tag)
		}
	})
	findAll(doc, tagSelector).Each(func(_ int, el *goquery.Selection) {
		add(normalizeText(el))
	})

	if len(tags) == 0 {
		return append([]string(nil), globalTags...)
	}
	return tags
}
