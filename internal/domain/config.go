package domain

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigTemplate returns the commented configuration template.
func ConfigTemplate() string {
	return configTemplateContent
}

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Telegram TelegramConfig `toml:"telegram"`
	GitHub   GitHubConfig   `toml:"github"`
	Triage   TriageConfig   `toml:"triage"`
	Bot      BotConfig      `toml:"bot"`
	Log      LogConfig      `toml:"log"`
}

// TelegramConfig holds messaging gateway settings from [telegram] section.
type TelegramConfig struct {
	Token          string `toml:"token,omitempty"`            // Bot API token (env TELEGRAM_TOKEN overrides)
	BotUsername    string `toml:"bot_username,omitempty"`     // Username without the leading @
	APIURL         string `toml:"api_url,omitempty"`          // Bot API base URL
	PollTimeoutSec int    `toml:"poll_timeout_sec,omitempty"` // Long-poll timeout for getUpdates
}

// GitHubConfig holds tracker settings from [github] section.
type GitHubConfig struct {
	Token        string `toml:"token,omitempty"`        // Account token (env GITHUB_TOKEN overrides)
	Organization string `toml:"organization,omitempty"` // Organization login
	APIURL       string `toml:"api_url,omitempty"`      // GraphQL endpoint
	PageSize     int    `toml:"page_size,omitempty"`    // Items per listing page
}

// TriageConfig holds project board placement settings from [triage] section.
type TriageConfig struct {
	ProjectID      string `toml:"project_id,omitempty"`       // Projects (v2) node id
	StatusFieldID  string `toml:"status_field_id,omitempty"`  // Single-select status field id
	StatusOptionID string `toml:"status_option_id,omitempty"` // Option to set on new items
	TimeoutSec     int    `toml:"timeout_sec,omitempty"`      // Deadline of the detached request
	Enabled        bool   `toml:"enabled,omitempty"`
}

// BotConfig holds dispatcher settings from [bot] section.
type BotConfig struct {
	DataDir     string `toml:"data_dir,omitempty"`     // Directory for log files; empty disables them
	AnswersFile string `toml:"answers_file,omitempty"` // YAML file overriding built-in answers
	Workers     int    `toml:"workers,omitempty"`      // Updates handled concurrently
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Defaults.
const (
	DefaultTelegramAPIURL = "https://api.telegram.org"
	DefaultGitHubAPIURL   = "https://api.github.com/graphql"
	DefaultPollTimeoutSec = 30
	DefaultPageSize       = 8
	DefaultWorkers        = 8
	DefaultTriageTimeout  = 30
	DefaultLogLevel       = "info"
)

// NewDefaultConfig returns a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			APIURL:         DefaultTelegramAPIURL,
			PollTimeoutSec: DefaultPollTimeoutSec,
		},
		GitHub: GitHubConfig{
			APIURL:   DefaultGitHubAPIURL,
			PageSize: DefaultPageSize,
		},
		Triage: TriageConfig{TimeoutSec: DefaultTriageTimeout},
		Bot:    BotConfig{Workers: DefaultWorkers},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// Validate checks the settings required to serve.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram: %w", ErrMissingToken)
	}
	if c.GitHub.Token == "" {
		return fmt.Errorf("github: %w", ErrMissingToken)
	}
	if c.GitHub.Organization == "" {
		return fmt.Errorf("github: organization is not configured")
	}
	if c.Telegram.BotUsername == "" {
		return fmt.Errorf("telegram: bot_username is not configured")
	}
	if c.Triage.Enabled && (c.Triage.ProjectID == "" || c.Triage.StatusFieldID == "" || c.Triage.StatusOptionID == "") {
		return fmt.Errorf("triage: project_id, status_field_id and status_option_id are required when enabled")
	}
	if c.GitHub.PageSize <= 0 || c.GitHub.PageSize > 100 {
		return fmt.Errorf("github: page_size must be between 1 and 100, got %d", c.GitHub.PageSize)
	}
	return nil
}

// Mention returns the mention string of the bot (with the leading @).
func (c *Config) Mention() string {
	return "@" + strings.TrimPrefix(c.Telegram.BotUsername, "@")
}

// Masked returns a copy of the configuration with secrets hidden.
func (c *Config) Masked() *Config {
	out := *c
	out.Warnings = append([]string(nil), c.Warnings...)
	out.Telegram.Token = maskSecret(c.Telegram.Token)
	out.GitHub.Token = maskSecret(c.GitHub.Token)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", 8)
}
