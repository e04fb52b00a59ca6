package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readDraftID(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed struct {
		API struct {
			DraftID string `yaml:"draft_id"`
		} `yaml:"api"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	return parsed.API.DraftID
}

func TestSaveDraftID_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".regdraft", "config.yaml")

	require.NoError(t, SaveDraftID(path, "abc123"))
	require.Equal(t, "abc123", readDraftID(t, path))
}

func TestSaveDraftID_UpdatesExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	seed := `api:
  base_url: http://localhost:8711
  draft_id: old-draft
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	require.NoError(t, SaveDraftID(path, "new-draft"))
	require.Equal(t, "new-draft", readDraftID(t, path))

	// Unrelated keys survive.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "base_url: http://localhost:8711")
}

func TestSaveDraftID_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveDraftID(path, "d42"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Equal(t, "d42", readDraftID(t, path))
	require.Contains(t, text, "# Autosave tuning", "comments outside the api section must survive")
	require.True(t, strings.Contains(text, "autosave:"))
}

func TestSaveDraftID_NonMappingRootFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a\n- list\n"), 0o600))

	err := SaveDraftID(path, "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")
}
