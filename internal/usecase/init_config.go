package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/issuebot/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct{}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig writes the configuration template to the config path.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{
		configManager: configManager,
	}
}

// Execute creates the configuration file. It fails with
// domain.ErrConfigExists rather than overwrite an existing file.
func (uc *InitConfig) Execute(_ context.Context, _ InitConfigInput) (*InitConfigOutput, error) {
	path := uc.configManager.Info().Path
	if err := uc.configManager.Init(); err != nil {
		return nil, fmt.Errorf("init config %s: %w", path, err)
	}
	return &InitConfigOutput{Path: path}, nil
}
