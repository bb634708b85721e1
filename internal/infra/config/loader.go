// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/issuebot/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables read by the loader.
const (
	EnvConfigPath    = "ISSUEBOT_CONFIG"
	EnvTelegramToken = "TELEGRAM_TOKEN"
	EnvGitHubToken   = "GITHUB_TOKEN"
)

// Loader loads configuration from a TOML file and the environment.
type Loader struct {
	getenv func(string) string
	path   string
}

// NewLoader creates a new Loader for the file at path.
// An empty path resolves to $ISSUEBOT_CONFIG, then the default location.
func NewLoader(path string) *Loader {
	return NewLoaderWithEnv(path, os.Getenv)
}

// NewLoaderWithEnv creates a new Loader with a custom environment lookup.
// This is useful for testing.
func NewLoaderWithEnv(path string, getenv func(string) string) *Loader {
	if path == "" {
		path = getenv(EnvConfigPath)
	}
	if path == "" {
		path = defaultConfigPath(getenv)
	}
	return &Loader{path: path, getenv: getenv}
}

// Path returns the resolved configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// defaultConfigPath returns $XDG_CONFIG_HOME/issuebot/config.toml.
func defaultConfigPath(getenv func(string) string) string {
	configHome := getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(domain.GlobalConfigDir(configHome), domain.ConfigFileName)
}

// Load returns the configuration: defaults <- file <- environment.
// A missing file is not an error.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	if l.path != "" {
		file, err := l.loadFile(l.path)
		switch {
		case err == nil:
			base = mergeConfigs(base, file)
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("load %s: %w", l.path, err)
		}
	}

	if v := l.getenv(EnvTelegramToken); v != "" {
		base.Telegram.Token = v
	}
	if v := l.getenv(EnvGitHubToken); v != "" {
		base.GitHub.Token = v
	}
	return base, nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string
	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "telegram":
			for k, v := range m {
				switch k {
				case "token":
					setString(&res.Telegram.Token, v)
				case "bot_username":
					setString(&res.Telegram.BotUsername, v)
				case "api_url":
					setString(&res.Telegram.APIURL, v)
				case "poll_timeout_sec":
					setInt(&res.Telegram.PollTimeoutSec, v)
				default:
					unknown(section, k)
				}
			}
		case "github":
			for k, v := range m {
				switch k {
				case "token":
					setString(&res.GitHub.Token, v)
				case "organization":
					setString(&res.GitHub.Organization, v)
				case "api_url":
					setString(&res.GitHub.APIURL, v)
				case "page_size":
					setInt(&res.GitHub.PageSize, v)
				default:
					unknown(section, k)
				}
			}
		case "triage":
			for k, v := range m {
				switch k {
				case "enabled":
					if b, ok := v.(bool); ok {
						res.Triage.Enabled = b
					}
				case "project_id":
					setString(&res.Triage.ProjectID, v)
				case "status_field_id":
					setString(&res.Triage.StatusFieldID, v)
				case "status_option_id":
					setString(&res.Triage.StatusOptionID, v)
				case "timeout_sec":
					setInt(&res.Triage.TimeoutSec, v)
				default:
					unknown(section, k)
				}
			}
		case "bot":
			for k, v := range m {
				switch k {
				case "workers":
					setInt(&res.Bot.Workers, v)
				case "data_dir":
					setString(&res.Bot.DataDir, v)
				case "answers_file":
					setString(&res.Bot.AnswersFile, v)
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					setString(&res.Log.Level, v)
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok {
		*dst = s
	}
}

// setInt accepts the int64 values the TOML decoder produces for integers.
func setInt(dst *int, v any) {
	switch n := v.(type) {
	case int64:
		*dst = int(n)
	case int:
		*dst = n
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	mergeString(&result.Telegram.Token, override.Telegram.Token)
	mergeString(&result.Telegram.BotUsername, override.Telegram.BotUsername)
	mergeString(&result.Telegram.APIURL, override.Telegram.APIURL)
	mergeInt(&result.Telegram.PollTimeoutSec, override.Telegram.PollTimeoutSec)

	mergeString(&result.GitHub.Token, override.GitHub.Token)
	mergeString(&result.GitHub.Organization, override.GitHub.Organization)
	mergeString(&result.GitHub.APIURL, override.GitHub.APIURL)
	mergeInt(&result.GitHub.PageSize, override.GitHub.PageSize)

	if override.Triage.Enabled {
		result.Triage.Enabled = true
	}
	mergeString(&result.Triage.ProjectID, override.Triage.ProjectID)
	mergeString(&result.Triage.StatusFieldID, override.Triage.StatusFieldID)
	mergeString(&result.Triage.StatusOptionID, override.Triage.StatusOptionID)
	mergeInt(&result.Triage.TimeoutSec, override.Triage.TimeoutSec)

	mergeInt(&result.Bot.Workers, override.Bot.Workers)
	mergeString(&result.Bot.DataDir, override.Bot.DataDir)
	mergeString(&result.Bot.AnswersFile, override.Bot.AnswersFile)

	mergeString(&result.Log.Level, override.Log.Level)
	return &result
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
