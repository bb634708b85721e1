// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/runoshun/issuebot/internal/bot"
	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/infra/answers"
	"github.com/runoshun/issuebot/internal/infra/config"
	"github.com/runoshun/issuebot/internal/infra/github"
	"github.com/runoshun/issuebot/internal/infra/logging"
	"github.com/runoshun/issuebot/internal/infra/telegram"
	"github.com/runoshun/issuebot/internal/usecase"
	"github.com/runoshun/issuebot/internal/usecase/shared"
)

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations). Tracker, Messenger and
	// Updates stay nil until Connect.
	Tracker       domain.Tracker
	Messenger     domain.Messenger
	Updates       bot.UpdateSource
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	BotLogger     domain.Logger

	// Pointer fields
	Logger   *slog.Logger
	AppCfg   *domain.Config
	InFlight *shared.InFlight
	Triage   *usecase.Triage // nil when board placement is disabled

	Answers domain.Answers

	closeLogger func() error
}

// New creates a new Container from the configuration file at configPath.
// An empty path falls back to $ISSUEBOT_CONFIG and then the user config
// directory. No network client is created until Connect.
func New(configPath string) (*Container, error) {
	configLoader := config.NewLoader(configPath)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	catalogue, err := answers.Load(appConfig.Bot.AnswersFile)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(appConfig.Log.Level),
	}))

	return &Container{
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(configLoader),
		Logger:        logger,
		AppCfg:        appConfig,
		InFlight:      shared.NewInFlight(),
		Answers:       catalogue,
		BotLogger:     logging.New("", logging.ParseLevel(appConfig.Log.Level)).WithConsole(os.Stderr),
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, tracker domain.Tracker, messenger domain.Messenger, updates bot.UpdateSource, botLogger domain.Logger, logger *slog.Logger) *Container {
	c := &Container{
		Tracker:   tracker,
		Messenger: messenger,
		Updates:   updates,
		BotLogger: botLogger,
		Logger:    logger,
		AppCfg:    cfg,
		InFlight:  shared.NewInFlight(),
		Answers:   answers.Default(),
	}
	if cfg.Triage.Enabled {
		c.Triage = usecase.NewTriage(tracker, botLogger, time.Duration(cfg.Triage.TimeoutSec)*time.Second)
	}
	return c
}

// Connect validates the configuration and creates the tracker and chat
// clients, the file logger and the triage side effect.
func (c *Container) Connect() error {
	cfg := c.AppCfg
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	tracker, err := github.NewClient(github.Config{
		APIURL:       cfg.GitHub.APIURL,
		Token:        cfg.GitHub.Token,
		Organization: cfg.GitHub.Organization,
		Triage:       cfg.Triage,
		PageSize:     cfg.GitHub.PageSize,
	})
	if err != nil {
		return err
	}
	chat, err := telegram.NewClient(telegram.Config{
		APIURL: cfg.Telegram.APIURL,
		Token:  cfg.Telegram.Token,
	})
	if err != nil {
		return err
	}

	fileLogger := logging.New(cfg.Bot.DataDir, logging.ParseLevel(cfg.Log.Level)).WithConsole(os.Stderr)

	c.Tracker = tracker
	c.Messenger = chat
	c.Updates = chat
	c.BotLogger = fileLogger
	c.closeLogger = fileLogger.Close
	if cfg.Triage.Enabled {
		c.Triage = usecase.NewTriage(tracker, fileLogger, time.Duration(cfg.Triage.TimeoutSec)*time.Second)
	}
	return nil
}

// Close waits for detached triage requests and closes the log files.
func (c *Container) Close() error {
	c.Triage.Wait()
	if c.closeLogger == nil {
		return nil
	}
	return c.closeLogger()
}

// UseCase factory methods

// HandleMentionUseCase returns a new HandleMention use case.
func (c *Container) HandleMentionUseCase() *usecase.HandleMention {
	return usecase.NewHandleMention(c.Messenger, c.Answers, c.AppCfg.Mention(), c.BotLogger)
}

// HandleButtonUseCase returns a new HandleButton use case.
func (c *Container) HandleButtonUseCase() *usecase.HandleButton {
	return usecase.NewHandleButton(c.Tracker, c.Messenger, c.Triage, c.InFlight, c.Answers, c.BotLogger)
}

// ShowGuideUseCase returns a new ShowGuide use case.
func (c *Container) ShowGuideUseCase() *usecase.ShowGuide {
	return usecase.NewShowGuide(c.Messenger, c.Answers, c.AppCfg.GitHub.Organization, c.AppCfg.Mention())
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// RenderCardUseCase returns a new RenderCard use case.
func (c *Container) RenderCardUseCase() *usecase.RenderCard {
	return usecase.NewRenderCard()
}

// DecodeCardUseCase returns a new DecodeCard use case.
func (c *Container) DecodeCardUseCase() *usecase.DecodeCard {
	return usecase.NewDecodeCard()
}

// ErrNotConnected is returned by Dispatcher before Connect succeeded.
var ErrNotConnected = errors.New("container is not connected")

// Dispatcher returns the update loop wired to the use cases.
func (c *Container) Dispatcher() (*bot.Dispatcher, error) {
	if c.Updates == nil || c.Tracker == nil || c.Messenger == nil {
		return nil, ErrNotConnected
	}
	return bot.NewDispatcher(
		c.Updates,
		c.HandleMentionUseCase(),
		c.HandleButtonUseCase(),
		c.ShowGuideUseCase(),
		c.BotLogger,
		bot.Config{
			BotUsername:    c.AppCfg.Telegram.BotUsername,
			Workers:        c.AppCfg.Bot.Workers,
			PollTimeoutSec: c.AppCfg.Telegram.PollTimeoutSec,
		},
	), nil
}
