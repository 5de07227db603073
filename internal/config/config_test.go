package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scraperrors "github.com/docscraper/docscraper/internal/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_SingleAnonymousSelectorSet(t *testing.T) {
	// Given: the common single-set document shape
	path := writeConfig(t, "docs.json", `{
		"index_uid": "docs",
		"sitemap_urls": ["https://docs.example.com/sitemap.xml"],
		"selectors": {
			"lvl0": "h1",
			"lvl1": {"selector": "h2"},
			"text": "p"
		}
	}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	// Then: the set is normalized under the default key
	require.Contains(t, cfg.Selectors, DefaultSelectorsKey)
	assert.Equal(t, []string{DefaultSelectorsKey}, cfg.SelectorsKeys)

	set := cfg.Selectors[DefaultSelectorsKey]
	assert.Equal(t, "h1", set.Lvl0.Selector)
	assert.Equal(t, "h2", set.Lvl1.Selector)
	assert.Equal(t, "p", set.Text.Selector)
}

func TestLoadFile_NamedSelectorSetsKeepDeclarationOrder(t *testing.T) {
	path := writeConfig(t, "docs.json", `{
		"index_uid": "docs",
		"start_urls": ["https://docs.example.com/"],
		"selectors": {
			"guides": {"lvl1": "h2", "text": "p"},
			"api": {"lvl1": "h3", "text": "li"}
		}
	}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"guides", "api"}, cfg.SelectorsKeys)
	assert.Equal(t, "h3", cfg.Selectors["api"].Lvl1.Selector)
}

func TestLoadFile_SelectorUnionForms(t *testing.T) {
	path := writeConfig(t, "docs.json", `{
		"index_uid": "docs",
		"start_urls": [
			"https://docs.example.com/",
			{"url": "https://docs.example.com/api/", "page_rank": 3, "selectors_key": "api"}
		],
		"selectors": {
			"default": {
				"lvl0": {"selector": ".sidebar", "global": true, "default_value": "Documentation"},
				"text": "p"
			},
			"api": {"lvl1": "h3", "text": "li"}
		}
	}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	require.Len(t, cfg.StartURLs, 2)
	assert.Equal(t, 1, cfg.StartURLs[0].Rank())
	assert.Equal(t, 3, cfg.StartURLs[1].Rank())
	assert.Equal(t, "api", cfg.StartURLs[1].SelectorsKey)

	lvl0 := cfg.Selectors["default"].Lvl0
	assert.True(t, lvl0.Global)
	assert.Equal(t, "Documentation", lvl0.DefaultValue)
}

func TestLoadFile_YAMLDocument(t *testing.T) {
	path := writeConfig(t, "docs.yaml", `
index_uid: docs
sitemap_urls:
  - https://docs.example.com/sitemap.xml
selectors:
  guides:
    lvl1: h2
    text: p
  api:
    lvl1: h3
    text: li
selectors_exclude:
  - nav
tags:
  - docs
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.IndexUID)
	assert.Equal(t, []string{"guides", "api"}, cfg.SelectorsKeys)
	assert.Equal(t, []string{"nav"}, cfg.SelectorsExclude)
	assert.Equal(t, []string{"docs"}, cfg.Tags)
}

func TestLoadFile_CustomSettingsPassThrough(t *testing.T) {
	path := writeConfig(t, "docs.json", `{
		"index_uid": "docs",
		"start_urls": ["https://docs.example.com/"],
		"selectors": {"lvl1": "h2", "text": "p"},
		"custom_settings": {
			"distinctAttribute": "url",
			"stopWords": ["the", "a"]
		}
	}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.CustomSettings)
	require.NotNil(t, cfg.CustomSettings.DistinctAttribute)
	assert.Equal(t, "url", *cfg.CustomSettings.DistinctAttribute)
	assert.Equal(t, []string{"the", "a"}, cfg.CustomSettings.StopWords)
}

func TestLoadFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing index_uid",
			content: `{
				"start_urls": ["https://docs.example.com/"],
				"selectors": {"lvl1": "h2", "text": "p"}
			}`,
		},
		{
			name: "missing selectors",
			content: `{
				"index_uid": "docs",
				"start_urls": ["https://docs.example.com/"]
			}`,
		},
		{
			name: "no discovery source",
			content: `{
				"index_uid": "docs",
				"selectors": {"lvl1": "h2", "text": "p"}
			}`,
		},
		{
			name: "selector set without text or lvl1",
			content: `{
				"index_uid": "docs",
				"start_urls": ["https://docs.example.com/"],
				"selectors": {"lvl0": "h1"}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "docs.json", tt.content)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Equal(t, scraperrors.KindConfig, scraperrors.KindOf(err))
		})
	}
}

func TestLoadFile_MalformedJSONIsConfigError(t *testing.T) {
	path := writeConfig(t, "docs.json", `{"index_uid": `)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, scraperrors.KindConfig, scraperrors.KindOf(err))
}

func TestLoadFile_MissingFileIsConfigError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, scraperrors.KindConfig, scraperrors.KindOf(err))
}

func TestSelectorSetFor_Resolution(t *testing.T) {
	cfg := &Config{
		Selectors: map[string]SelectorSet{
			"guides":  {Lvl1: Selector{Selector: "h2"}},
			"default": {Lvl1: Selector{Selector: "h1"}},
		},
		SelectorsKeys: []string{"guides", "default"},
	}

	// A declared key resolves directly.
	assert.Equal(t, "h2", cfg.SelectorSetFor("guides").Lvl1.Selector)

	// An unknown or empty key falls back to the default set.
	assert.Equal(t, "h1", cfg.SelectorSetFor("missing").Lvl1.Selector)
	assert.Equal(t, "h1", cfg.SelectorSetFor("").Lvl1.Selector)
}

func TestSelectorSetFor_FirstDeclaredWhenNoDefault(t *testing.T) {
	cfg := &Config{
		Selectors: map[string]SelectorSet{
			"guides": {Lvl1: Selector{Selector: "h2"}},
			"api":    {Lvl1: Selector{Selector: "h3"}},
		},
		SelectorsKeys: []string{"guides", "api"},
	}

	assert.Equal(t, "h2", cfg.SelectorSetFor("").Lvl1.Selector)
}

func TestLoadEnv(t *testing.T) {
	t.Run("missing host fails", func(t *testing.T) {
		t.Setenv(EnvHostURL, "")
		t.Setenv(EnvAPIKey, "key")

		_, err := LoadEnv()
		require.Error(t, err)
		assert.Equal(t, scraperrors.KindConfig, scraperrors.KindOf(err))
	})

	t.Run("missing api key fails", func(t *testing.T) {
		t.Setenv(EnvHostURL, "http://127.0.0.1:7700")
		t.Setenv(EnvAPIKey, "")

		_, err := LoadEnv()
		require.Error(t, err)
	})

	t.Run("complete environment loads", func(t *testing.T) {
		t.Setenv(EnvHostURL, "http://127.0.0.1:7700")
		t.Setenv(EnvAPIKey, "key")
		t.Setenv(EnvIndexUID, "override")
		t.Setenv(EnvBasicAuthUser, "user")
		t.Setenv(EnvBasicAuthPassword, "secret")

		env, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:7700", env.HostURL)
		assert.Equal(t, "override", env.IndexUIDOverride)
		assert.Equal(t, "user", env.BasicAuthUser)
		assert.Equal(t, "secret", env.BasicAuthPassword)
	})
}
