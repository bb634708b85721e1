// Package cli provides the command-line interface for issuebot.
package cli

import (
	"fmt"

	"github.com/runoshun/issuebot/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupBot   = "bot"
	groupSetup = "setup"
	groupDebug = "debug"
)

// NewRootCommand creates the root command for issuebot.
// It receives the container for dependency injection and version for display.
// The --config flag is declared here for help output; main resolves it
// before the container is built.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "issuebot",
		Short: "Telegram bot that files GitHub issues",
		Long: `issuebot turns chat messages that mention the bot into GitHub issues.

The reply to a mention is a card: a message holding the issue title, its
repository and assignee, with buttons to create, transfer, assign, close
and reopen the issue. The card text is the only state the bot keeps.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppCfg == nil {
				return nil
			}
			for _, w := range c.AppCfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default $ISSUEBOT_CONFIG or ~/.config/issuebot/config.toml)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupBot, Title: "Bot Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupDebug, Title: "Debug Commands:"},
	)

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupBot

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	cardCmd := newCardCommand(c)
	cardCmd.GroupID = groupDebug

	root.AddCommand(
		serveCmd,
		configCmd,
		cardCmd,
	)

	return root
}

// requireContainer reports a missing container as a command error.
func requireContainer(c *app.Container) error {
	if c == nil {
		return errNoContainer
	}
	return nil
}
