package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/testutil"
	"github.com/runoshun/issuebot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[telegram]
token = "123456:secret"
bot_username = "issue_bot"

[github]
token = "ghp_secret"
organization = "acme"

[triage]
enabled = true
project_id = "PVT_1"
status_field_id = "PVTSSF_1"
status_option_id = "opt"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearTokenEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
}

func TestNew(t *testing.T) {
	t.Run("loads config and answers", func(t *testing.T) {
		clearTokenEnv(t)
		path := writeConfig(t, testConfig)

		c, err := New(path)

		require.NoError(t, err)
		assert.Equal(t, "acme", c.AppCfg.GitHub.Organization)
		assert.Equal(t, path, c.ConfigManager.Info().Path)
		assert.NotEmpty(t, c.Answers.Outdated)
		assert.Nil(t, c.Tracker)
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		clearTokenEnv(t)

		c, err := New(filepath.Join(t.TempDir(), "absent.toml"))

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultPageSize, c.AppCfg.GitHub.PageSize)
	})

	t.Run("invalid toml fails", func(t *testing.T) {
		clearTokenEnv(t)

		_, err := New(writeConfig(t, "[github\n"))

		assert.Error(t, err)
	})
}

func TestContainer_Connect(t *testing.T) {
	t.Run("builds clients and triage", func(t *testing.T) {
		clearTokenEnv(t)
		c, err := New(writeConfig(t, testConfig))
		require.NoError(t, err)

		require.NoError(t, c.Connect())

		assert.NotNil(t, c.Tracker)
		assert.NotNil(t, c.Messenger)
		assert.NotNil(t, c.Updates)
		assert.NotNil(t, c.Triage)
		d, err := c.Dispatcher()
		require.NoError(t, err)
		assert.NotNil(t, d)
		assert.NoError(t, c.Close())
	})

	t.Run("rejects missing token", func(t *testing.T) {
		clearTokenEnv(t)
		c, err := New(writeConfig(t, "[github]\norganization = \"acme\"\n"))
		require.NoError(t, err)

		err = c.Connect()

		assert.ErrorIs(t, err, domain.ErrMissingToken)
	})
}

func TestContainer_Dispatcher(t *testing.T) {
	t.Run("requires connection", func(t *testing.T) {
		c := &Container{AppCfg: domain.NewDefaultConfig()}

		_, err := c.Dispatcher()

		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("wires test doubles", func(t *testing.T) {
		cfg := domain.NewDefaultConfig()
		cfg.Telegram.BotUsername = "issue_bot"
		cfg.GitHub.Organization = "acme"
		messenger := &testutil.MockMessenger{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		c := NewWithDeps(cfg, testutil.NewMockTracker(), messenger, nil, &testutil.MockLogger{}, logger)

		err := c.ShowGuideUseCase().Execute(context.Background(), usecase.ShowGuideInput{
			Guide: usecase.GuideStart,
			Chat:  domain.Chat{Type: "private", ID: 42},
		})

		require.NoError(t, err)
		sent, _, _ := messenger.Snapshot()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Text, "acme")
		assert.Nil(t, c.Triage)
		assert.NoError(t, c.Close())
	})
}
