// Package router maps crawled URLs to a ranking weight and a selector
// set using the ordered start-URL rules of a configuration.
package router

import (
	"regexp"
	"strings"

	"github.com/docscraper/docscraper/internal/config"
)

// pattern matches URLs either as a compiled regular expression or, when
// the raw string does not compile, by substring containment.
type pattern struct {
	raw string
	re  *regexp.Regexp
}

// compilePattern compiles the raw string. Compile failure degrades the
// pattern to substring containment instead of erroring.
func compilePattern(raw string) pattern {
	re, err := regexp.Compile(raw)
	if err != nil {
		return pattern{raw: raw}
	}
	return pattern{raw: raw, re: re}
}

// match tests the pattern against the full URL.
func (p pattern) match(url string) bool {
	if p.re != nil {
		return p.re.MatchString(url)
	}
	return strings.Contains(url, p.raw)
}

// rule is one compiled start-URL rule.
type rule struct {
	pattern
	rank         int
	selectorsKey string
}

// Router resolves URLs against the ordered start-URL rules.
type Router struct {
	rules []rule
}

// New compiles the start-URL rules in declaration order.
func New(startURLs []config.StartURL) *Router {
	rules := make([]rule, 0, len(startURLs))
	for _, u := range startURLs {
		rules = append(rules, rule{
			pattern:      compilePattern(u.URL),
			rank:         u.Rank(),
			selectorsKey: u.SelectorsKey,
		})
	}
	return &Router{rules: rules}
}

// Resolve returns the rank and selectors key for a URL. Evaluation
// stops at the first matching rule; no match yields rank 1 and no
// selectors key.
func (r *Router) Resolve(url string) (int, string) {
	for _, rule := range r.rules {
		if rule.match(url) {
			return rule.rank, rule.selectorsKey
		}
	}
	return 1, ""
}

// StopList excludes discovered URLs matching any stop-URL pattern.
type StopList struct {
	patterns []pattern
}

// NewStopList compiles the stop-URL patterns.
func NewStopList(stopURLs []string) StopList {
	patterns := make([]pattern, 0, len(stopURLs))
	for _, s := range stopURLs {
		patterns = append(patterns, compilePattern(s))
	}
	return StopList{patterns: patterns}
}

// Blocked reports whether a URL matches any stop-URL pattern.
func (s StopList) Blocked(url string) bool {
	for _, p := range s.patterns {
		if p.match(url) {
			return true
		}
	}
	return false
}

// Filter returns the URLs not blocked by the stop list, preserving
// order.
func (s StopList) Filter(urls []string) []string {
	if len(s.patterns) == 0 {
		return urls
	}
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if !s.Blocked(u) {
			kept = append(kept, u)
		}
	}
	return kept
}

// literalMeta are the characters that mark a start-URL entry as a
// routing pattern rather than a fetchable URL. Dots are allowed: every
// host name contains them.
const literalMeta = `*+?()[]{}|^$\`

// IsLiteral reports whether a start-URL entry is a plain URL that can
// seed the crawl set, as opposed to a pattern that only routes.
func IsLiteral(rawURL string) bool {
	return !strings.ContainsAny(rawURL, literalMeta)
}
