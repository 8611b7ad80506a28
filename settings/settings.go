// Package settings persists user configuration under the home directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/RooCodeInc/RooVersation/api"
	"github.com/RooCodeInc/RooVersation/task"
)

type Settings struct {
	// Viewer
	BackendURL              string `json:"backendUrl"`
	Source                  string `json:"source"`
	Hybrid                  bool   `json:"hybrid"`
	TaskPollSeconds         int    `json:"taskPollSeconds"`
	ConversationPollSeconds int    `json:"conversationPollSeconds"`

	// Builder
	APIBaseURL    string   `json:"apiBaseUrl"`
	APIKey        string   `json:"apiKey"`
	Model         string   `json:"model"`
	SelectedTools []string `json:"selectedTools"`
}

func Default() Settings {
	return Settings{
		BackendURL:              api.DefaultBaseURL,
		Source:                  task.SourceNightly,
		TaskPollSeconds:         5,
		ConversationPollSeconds: 2,
		Model:                   "gpt-4o",
	}
}

func Path() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rooversation", "settings.json"), nil
}

// Load reads the settings file, falling back to defaults when it does not
// exist yet.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read settings: %w", err)
	}

	s := Default()
	if err := json.Unmarshal(raw, &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

func Save(s Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0600)
}
