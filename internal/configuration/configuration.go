package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lioran/chatterm/internal/file"
)

var defaultConfig = Config{
	APIHost:  "http://localhost:8000",
	Database: "~/.config/chatterm/state.db",

	Chat: &ChatConfig{
		Model:        "gpt-4o-mini",
		Temperature:  0,
		SystemPrompt: "You are a helpful AI assistant.",
	},
}

// Config holds configuration for the chatterm tool.
type Config struct {
	// APIHost is the agent backend's base URL. The CHATTERM_API_URL
	// environment variable overrides it.
	APIHost string `json:"api_host"`
	// Database is the path of the local state file.
	Database string `json:"database"`

	Chat *ChatConfig `json:"chat"`
}

// ChatConfig holds the chat session defaults.
type ChatConfig struct {
	// SessionID pins the backend conversation. Generated when empty.
	SessionID string `json:"session_id"`
	// Model requested from the backend.
	Model string `json:"model"`
	// Temperature requested from the backend.
	Temperature float64 `json:"temperature"`
	// SystemPrompt sent ahead of the conversation.
	SystemPrompt string `json:"system_prompt"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if config.Chat == nil {
		config.Chat = defaultConfig.Chat
	}

	expandedDatabasePath, err := file.ExpandPath(config.Database)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Database = expandedDatabasePath
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	exists, err := file.Exists(path)
	if err != nil {
		return errors.Wrap(err, "checking config existence")
	}
	if exists {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
