// Package bot runs the update loop: it long-polls the chat gateway and
// dispatches each update to its use case.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/infra/telegram"
	"github.com/runoshun/issuebot/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// UpdateSource yields chat updates.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.Update, error)
}

// Config holds the dispatcher settings.
// Fields are ordered to minimize memory padding.
type Config struct {
	BotUsername    string
	Workers        int
	PollTimeoutSec int
	RetryDelay     time.Duration // pause after a failed poll
	HandlerTimeout time.Duration // deadline of one update
}

// Dispatcher routes updates to the use cases.
type Dispatcher struct {
	source  UpdateSource
	mention *usecase.HandleMention
	button  *usecase.HandleButton
	guide   *usecase.ShowGuide
	logger  domain.Logger
	cfg     Config
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	source UpdateSource,
	mention *usecase.HandleMention,
	button *usecase.HandleButton,
	guide *usecase.ShowGuide,
	logger domain.Logger,
	cfg Config,
) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = domain.DefaultWorkers
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 3 * time.Second
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = time.Minute
	}
	return &Dispatcher{
		source:  source,
		mention: mention,
		button:  button,
		guide:   guide,
		logger:  logger,
		cfg:     cfg,
	}
}

// Run polls until ctx is cancelled, then waits for the updates being
// handled. Handlers are detached from ctx so a shutdown does not cut a
// tracker call short.
func (d *Dispatcher) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	g.SetLimit(d.cfg.Workers)

	d.logger.Info(0, "poll", fmt.Sprintf("polling as @%s with %d workers", d.cfg.BotUsername, d.cfg.Workers))
	var offset int64
	for ctx.Err() == nil {
		updates, err := d.source.GetUpdates(ctx, offset, d.cfg.PollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			d.logger.Warn(0, "poll", fmt.Sprintf("get updates: %v", err))
			select {
			case <-ctx.Done():
			case <-time.After(d.cfg.RetryDelay):
			}
			continue
		}

		// Presses are claimed for the whole batch before any of them waits
		// for a worker, so a repeated press is answered busy at once.
		events := make([]telegram.Event, 0, len(updates))
		for _, u := range updates {
			if u.UpdateId >= offset {
				offset = u.UpdateId + 1
			}
			ev := telegram.Classify(u, d.cfg.BotUsername)
			if ev.Ignored() {
				continue
			}
			if ev.Button != nil && !d.claim(ctx, ev) {
				continue
			}
			events = append(events, ev)
		}

		for _, ev := range events {
			ev := ev
			// Blocks while all workers are busy.
			g.Go(func() error {
				hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.HandlerTimeout)
				defer cancel()
				d.handle(hctx, ev, ev.Button != nil)
				return nil
			})
		}
	}

	d.logger.Info(0, "poll", "stopping, waiting for running updates")
	return g.Wait()
}

// claim marks the pressed message in flight before the press waits for a
// worker, so a second press on a busy card is answered at once.
func (d *Dispatcher) claim(ctx context.Context, ev telegram.Event) bool {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), claimTimeout)
	defer cancel()

	err := d.button.Claim(cctx, *ev.Button)
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrBusy):
		d.logger.Debug(ev.Chat.ID, "dispatch", fmt.Sprintf("update %d: message %d busy, press rejected: %v", ev.UpdateID, ev.Button.MessageID, err))
	default:
		d.logger.Error(ev.Chat.ID, "dispatch", fmt.Sprintf("update %d: claim message %d: %v", ev.UpdateID, ev.Button.MessageID, err))
	}
	return false
}

// claimTimeout bounds the busy answer sent from the poll loop.
const claimTimeout = 10 * time.Second

// Handle runs the use case for one classified update. Failures are logged.
func (d *Dispatcher) Handle(ctx context.Context, ev telegram.Event) {
	d.handle(ctx, ev, false)
}

func (d *Dispatcher) handle(ctx context.Context, ev telegram.Event, claimed bool) {
	corr := uuid.NewString()[:8]
	chatID := ev.Chat.ID

	switch {
	case ev.Button != nil:
		d.logger.Debug(chatID, "dispatch", fmt.Sprintf("[%s] update %d: button %q on message %d", corr, ev.UpdateID, ev.Button.Tag, ev.Button.MessageID))
		out, err := d.button.Execute(ctx, usecase.HandleButtonInput{Event: *ev.Button, Claimed: claimed})
		switch {
		case errors.Is(err, domain.ErrBusy):
			d.logger.Debug(chatID, "dispatch", fmt.Sprintf("[%s] message %d busy, press rejected", corr, ev.Button.MessageID))
		case domain.IsTransient(err):
			d.logger.Warn(chatID, "dispatch", fmt.Sprintf("[%s] button %q: %v", corr, ev.Button.Tag, err))
		case err != nil:
			d.logger.Error(chatID, "dispatch", fmt.Sprintf("[%s] button %q: %v", corr, ev.Button.Tag, err))
		default:
			d.logger.Debug(chatID, "dispatch", fmt.Sprintf("[%s] %s done, edited=%t", corr, out.Verb, out.Edited))
		}

	case ev.Mention != nil:
		d.logger.Debug(chatID, "dispatch", fmt.Sprintf("[%s] update %d: mention in message %d", corr, ev.UpdateID, ev.Mention.MessageID))
		if _, err := d.mention.Execute(ctx, usecase.HandleMentionInput{Event: *ev.Mention}); err != nil {
			if domain.IsTransient(err) {
				d.logger.Warn(chatID, "dispatch", fmt.Sprintf("[%s] mention: %v", corr, err))
			} else {
				d.logger.Error(chatID, "dispatch", fmt.Sprintf("[%s] mention: %v", corr, err))
			}
		}

	case ev.Command != "":
		guide, ok := guideFor(ev.Command)
		if !ok {
			d.logger.Debug(chatID, "dispatch", fmt.Sprintf("[%s] update %d: unknown command /%s", corr, ev.UpdateID, ev.Command))
			return
		}
		d.logger.Debug(chatID, "dispatch", fmt.Sprintf("[%s] update %d: /%s", corr, ev.UpdateID, ev.Command))
		if err := d.guide.Execute(ctx, usecase.ShowGuideInput{Guide: guide, Chat: ev.Chat}); err != nil {
			d.logger.Error(chatID, "dispatch", fmt.Sprintf("[%s] /%s: %v", corr, ev.Command, err))
		}
	}
}

func guideFor(command string) (usecase.Guide, bool) {
	switch usecase.Guide(command) {
	case usecase.GuideStart, usecase.GuideHelp, usecase.GuideMarkdown:
		return usecase.Guide(command), true
	}
	return "", false
}
