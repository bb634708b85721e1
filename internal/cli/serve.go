package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/issuebot/internal/app"
	"github.com/spf13/cobra"
)

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Long: `Run the bot: long-poll Telegram for updates and handle them until
SIGINT or SIGTERM.

On shutdown the bot stops polling, lets the updates in progress finish and
waits for pending project board placements before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c)
		},
	}
}

// runServe connects the container unless its ports are already wired, then
// runs the dispatcher until ctx is done.
func runServe(ctx context.Context, c *app.Container) error {
	if c.Updates == nil {
		if err := c.Connect(); err != nil {
			return err
		}
	}
	d, err := c.Dispatcher()
	if err != nil {
		return err
	}

	c.Logger.Info("serving",
		"bot", c.AppCfg.Mention(),
		"organization", c.AppCfg.GitHub.Organization,
		"workers", c.AppCfg.Bot.Workers,
		"triage", c.AppCfg.Triage.Enabled,
	)
	runErr := d.Run(ctx)
	c.Logger.Info("shutting down")
	return errors.Join(runErr, c.Close())
}
