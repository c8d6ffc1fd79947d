package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig.APIHost, config.APIHost)
	require.NotNil(t, config.Chat)
	assert.Equal(t, "gpt-4o-mini", config.Chat.Model)

	// The default config was materialized on disk.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestParseExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{"api_host": "http://example.com", "database": "state.db", "chat": {"model": "gpt-4o", "session_id": "s1"}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", config.APIHost)
	assert.Equal(t, "state.db", config.Database)
	assert.Equal(t, "gpt-4o", config.Chat.Model)
	assert.Equal(t, "s1", config.Chat.SessionID)
}

func TestParseMissingChatSectionFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_host": "http://example.com"}`), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.NotNil(t, config.Chat)
	assert.Equal(t, defaultConfig.Chat.Model, config.Chat.Model)
}

func TestParseMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0644))

	_, err := Parse(path)
	assert.Error(t, err)
}
