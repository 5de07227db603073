package config

import (
	"os"

	scraperrors "github.com/docscraper/docscraper/internal/errors"
)

// Environment variable names.
const (
	EnvHostURL           = "MEILISEARCH_HOST_URL"
	EnvAPIKey            = "MEILISEARCH_API_KEY"
	EnvIndexUID          = "MEILISEARCH_INDEX_UID"
	EnvBasicAuthUser     = "DOCSCRAPER_BASICAUTH_USERNAME"
	EnvBasicAuthPassword = "DOCSCRAPER_BASICAUTH_PASSWORD"
)

// Env holds the process-level settings read from the environment.
type Env struct {
	// HostURL is the search-engine endpoint.
	HostURL string

	// APIKey authenticates every engine call.
	APIKey string

	// IndexUIDOverride replaces the configuration's index_uid. Only
	// valid when exactly one configuration is processed.
	IndexUIDOverride string

	// BasicAuthUser and BasicAuthPassword, when set, are sent as an
	// Authorization: Basic header on every page fetch.
	BasicAuthUser     string
	BasicAuthPassword string
}

// LoadEnv reads the environment. Host URL and API key are required.
func LoadEnv() (Env, error) {
	env := Env{
		HostURL:           os.Getenv(EnvHostURL),
		APIKey:            os.Getenv(EnvAPIKey),
		IndexUIDOverride:  os.Getenv(EnvIndexUID),
		BasicAuthUser:     os.Getenv(EnvBasicAuthUser),
		BasicAuthPassword: os.Getenv(EnvBasicAuthPassword),
	}

	if env.HostURL == "" {
		return env, scraperrors.ConfigError(EnvHostURL+" is not set", nil)
	}
	if env.APIKey == "" {
		return env, scraperrors.ConfigError(EnvAPIKey+" is not set", nil)
	}
	return env, nil
}
