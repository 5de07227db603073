// Package config loads and validates docscraper configuration
// documents.
//
// A configuration document describes one index: where to discover
// pages, how to rank them, and which selectors turn a page into search
// records. Documents are JSON; YAML is accepted for files with a .yaml
// or .yml extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docscraper/docscraper/internal/engine"
	scraperrors "github.com/docscraper/docscraper/internal/errors"
)

// Config is one validated configuration document.
type Config struct {
	// IndexUID is the live index this configuration publishes to.
	IndexUID string

	// SitemapURLs are the sitemap locations URL discovery starts from.
	SitemapURLs []string

	// StartURLs are the ordered routing rules; literal entries also
	// seed the crawl set.
	StartURLs []StartURL

	// StopURLs exclude matching discovered URLs from the crawl set.
	StopURLs []string

	// Selectors maps set names to selector sets. A single anonymous
	// set is normalized under DefaultSelectorsKey.
	Selectors map[string]SelectorSet

	// SelectorsKeys holds the set names in declaration order.
	SelectorsKeys []string

	// SelectorsExclude are selectors removed from every page before
	// extraction.
	SelectorsExclude []string

	// Tags is the fallback tag list applied when a page carries none.
	Tags []string

	// CustomSettings are pushed to the index verbatim; only fields
	// present in the document are applied.
	CustomSettings *engine.Settings
}

// rawJSONConfig mirrors the JSON document shape before normalization.
type rawJSONConfig struct {
	IndexUID         string           `json:"index_uid"`
	SitemapURLs      []string         `json:"sitemap_urls"`
	StartURLs        []StartURL       `json:"start_urls"`
	StopURLs         []string         `json:"stop_urls"`
	Selectors        json.RawMessage  `json:"selectors"`
	SelectorsExclude []string         `json:"selectors_exclude"`
	Tags             []string         `json:"tags"`
	CustomSettings   *engine.Settings `json:"custom_settings"`
}

// rawYAMLConfig mirrors the YAML document shape before normalization.
type rawYAMLConfig struct {
	IndexUID         string           `yaml:"index_uid"`
	SitemapURLs      []string         `yaml:"sitemap_urls"`
	StartURLs        []StartURL       `yaml:"start_urls"`
	StopURLs         []string         `yaml:"stop_urls"`
	Selectors        yaml.Node        `yaml:"selectors"`
	SelectorsExclude []string         `yaml:"selectors_exclude"`
	Tags             []string         `yaml:"tags"`
	CustomSettings   *engine.Settings `yaml:"custom_settings"`
}

// LoadFile loads and validates one configuration document.
// JSON is the canonical format; .yaml and .yml files decode as YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scraperrors.ConfigError(fmt.Sprintf("cannot read config file %s", path), err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	default:
		cfg, err = parseJSON(data)
	}
	if err != nil {
		return nil, scraperrors.ConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseJSON decodes and normalizes a JSON configuration document.
func parseJSON(data []byte) (*Config, error) {
	var raw rawJSONConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		IndexUID:         raw.IndexUID,
		SitemapURLs:      raw.SitemapURLs,
		StartURLs:        raw.StartURLs,
		StopURLs:         raw.StopURLs,
		SelectorsExclude: raw.SelectorsExclude,
		Tags:             raw.Tags,
		CustomSettings:   raw.CustomSettings,
	}

	if len(raw.Selectors) > 0 {
		sets, order, err := parseSelectorsJSON(raw.Selectors)
		if err != nil {
			return nil, err
		}
		cfg.Selectors = sets
		cfg.SelectorsKeys = order
	}
	return cfg, nil
}

// parseYAML decodes and normalizes a YAML configuration document.
func parseYAML(data []byte) (*Config, error) {
	var raw rawYAMLConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		IndexUID:         raw.IndexUID,
		SitemapURLs:      raw.SitemapURLs,
		StartURLs:        raw.StartURLs,
		StopURLs:         raw.StopURLs,
		SelectorsExclude: raw.SelectorsExclude,
		Tags:             raw.Tags,
		CustomSettings:   raw.CustomSettings,
	}

	if raw.Selectors.Kind != 0 {
		sets, order, err := parseSelectorsYAML(&raw.Selectors)
		if err != nil {
			return nil, err
		}
		cfg.Selectors = sets
		cfg.SelectorsKeys = order
	}
	return cfg, nil
}

// Validate checks the required fields. Violations are config errors and
// abort before any network activity.
func (c *Config) Validate() error {
	if c.IndexUID == "" {
		return scraperrors.ConfigError("index_uid is required", nil)
	}
	if len(c.Selectors) == 0 {
		return scraperrors.ConfigError("selectors is required", nil)
	}
	if len(c.SitemapURLs) == 0 && len(c.StartURLs) == 0 {
		return scraperrors.ConfigError("at least one of sitemap_urls or start_urls is required", nil)
	}
	for i, u := range c.StartURLs {
		if u.URL == "" {
			return scraperrors.ConfigError(fmt.Sprintf("start_urls[%d] has no url", i), nil)
		}
	}
	for key, set := range c.Selectors {
		if set.Text.IsZero() && set.Lvl1.IsZero() {
			return scraperrors.ConfigError(fmt.Sprintf("selector set %q needs a text or lvl1 selector", key), nil)
		}
	}
	return nil
}

// SelectorSetFor resolves the selector set for a routed key: the key
// itself when declared, then the default set, then the first declared
// set.
func (c *Config) SelectorSetFor(key string) SelectorSet {
	if key != "" {
		if set, ok := c.Selectors[key]; ok {
			return set
		}
	}
	if set, ok := c.Selectors[DefaultSelectorsKey]; ok {
		return set
	}
	if len(c.SelectorsKeys) > 0 {
		return c.Selectors[c.SelectorsKeys[0]]
	}
	return SelectorSet{}
}
