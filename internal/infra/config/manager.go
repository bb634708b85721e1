package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/issuebot/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages the configuration file.
type Manager struct {
	path string
}

// NewManager creates a new Manager for the file the loader resolved.
func NewManager(loader *Loader) *Manager {
	return &Manager{path: loader.Path()}
}

// Info returns information about the config file.
func (m *Manager) Info() domain.ConfigInfo {
	content, err := os.ReadFile(m.path)
	if err != nil {
		return domain.ConfigInfo{Path: m.path}
	}
	return domain.ConfigInfo{
		Path:    m.path,
		Content: string(content),
		Exists:  true,
	}
}

// Init creates the config file from the commented template.
func (m *Manager) Init() error {
	if m.path == "" {
		return fmt.Errorf("config path not available")
	}
	if _, err := os.Stat(m.path); err == nil {
		return domain.ErrConfigExists
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	// The file holds tokens.
	return os.WriteFile(m.path, []byte(domain.ConfigTemplate()), 0o600)
}
