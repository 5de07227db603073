package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_IsNotEmpty(t *testing.T) {
	assert.NotEmpty(t, Version)
}

func TestString_ContainsBuildInfo(t *testing.T) {
	s := String()

	assert.Contains(t, s, "docscraper")
	assert.Contains(t, s, Version)
	assert.Contains(t, s, GoVersion)
}

func TestShort_ReturnsBareVersion(t *testing.T) {
	assert.Equal(t, Version, Short())
}

func TestUserAgent_IdentifiesTheCrawler(t *testing.T) {
	ua := UserAgent()

	assert.True(t, strings.HasPrefix(ua, "docscraper/"), "user agent %q", ua)
	assert.Contains(t, ua, Version)
	assert.Contains(t, ua, "+https://")
}

func TestGetInfo_MarshalsToJSON(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"go_version"`)
}
