package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"validate"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCmd_AcceptsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"index_uid": "docs",
		"start_urls": ["https://docs.example.com/"],
		"selectors": {"lvl1": "h2", "text": "p"}
	}`), 0o644))

	out, err := runValidate(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "index docs")
}

func TestValidateCmd_ReportsInvalidConfigs(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"index_uid": ""}`), 0o644))
	require.NoError(t, os.WriteFile(good, []byte(`{
		"index_uid": "docs",
		"start_urls": ["https://docs.example.com/"],
		"selectors": {"lvl1": "h2", "text": "p"}
	}`), 0o644))

	out, err := runValidate(t, bad, good)

	// Both files are checked; the invalid one fails the command.
	require.Error(t, err)
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, good)
}

func TestRootCmd_RequiresConfigArgument(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}
