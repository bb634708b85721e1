// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/usecase/shared"
)

// HandleButtonInput contains a button press on a card.
type HandleButtonInput struct {
	Event   domain.ButtonEvent
	Claimed bool // the message was already marked in flight by Claim
}

// HandleButtonOutput contains the state the card was moved to.
// Fields are ordered to minimize memory padding.
type HandleButtonOutput struct {
	Keyboard domain.Keyboard // nil removes the keyboard
	Text     string
	Notice   string      // shown to the presser, empty for none
	Verb     domain.Verb // verb of the pressed tag, empty if unrecognized
	Edited   bool        // false when the card was left as it was
}

// HandleButton is the use case that routes a button press to its transition.
// The card text and keyboard are the only state; every press decodes them,
// performs at most one tracker call and writes them back.
type HandleButton struct {
	tracker   domain.Tracker
	messenger domain.Messenger
	logger    domain.Logger
	triage    *Triage
	inFlight  *shared.InFlight
	answers   domain.Answers
}

// NewHandleButton creates a new HandleButton use case.
// triage may be nil when board placement is disabled.
func NewHandleButton(
	tracker domain.Tracker,
	messenger domain.Messenger,
	triage *Triage,
	inFlight *shared.InFlight,
	answers domain.Answers,
	logger domain.Logger,
) *HandleButton {
	return &HandleButton{
		tracker:   tracker,
		messenger: messenger,
		triage:    triage,
		inFlight:  inFlight,
		answers:   answers,
		logger:    logger,
	}
}

// transition computes the next card state for one verb.
type transition func(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error)

func (uc *HandleButton) route(verb domain.Verb) transition {
	switch verb {
	case domain.VerbSetup:
		return uc.setup
	case domain.VerbQuit:
		return uc.quit
	case domain.VerbListRepos:
		return uc.listRepos
	case domain.VerbChooseRepo:
		return uc.chooseRepo
	case domain.VerbListMembers:
		return uc.listMembers
	case domain.VerbAssign:
		return uc.assign
	case domain.VerbClose:
		return uc.closeIssue
	case domain.VerbReopen:
		return uc.reopenIssue
	}
	return nil
}

// Claim marks the pressed message as in flight. A press on a message whose
// previous transition is still running is answered with a busy notice and
// Claim returns domain.ErrBusy.
func (uc *HandleButton) Claim(ctx context.Context, ev domain.ButtonEvent) error {
	if uc.inFlight.TryAcquire(ev.Ref()) {
		return nil
	}
	if err := uc.messenger.AnswerButton(ctx, ev.PressID, domain.UserMessage(domain.ErrBusy)); err != nil {
		return fmt.Errorf("%w: answer busy press: %v", domain.ErrBusy, err)
	}
	return domain.ErrBusy
}

// Execute runs the transition for the pressed button, edits the card and
// answers the press. Unless in.Claimed is set, the message is claimed first.
func (uc *HandleButton) Execute(ctx context.Context, in HandleButtonInput) (*HandleButtonOutput, error) {
	ev := in.Event
	ref := ev.Ref()

	if !in.Claimed {
		if err := uc.Claim(ctx, ev); err != nil {
			return nil, err
		}
	}
	defer uc.inFlight.Release(ref)

	out := uc.transit(ctx, ev)
	if out.Edited && out.Text == ev.CurrentText && out.Keyboard.Equal(ev.Keyboard) {
		out.Edited = false
	}

	if out.Edited {
		if err := uc.messenger.EditMessage(ctx, ref, out.Text, out.Keyboard); err != nil {
			if answerErr := uc.messenger.AnswerButton(ctx, ev.PressID, domain.UserMessage(err)); answerErr != nil {
				uc.logger.Warn(ev.Chat.ID, "button", fmt.Sprintf("answer press after failed edit: %v", answerErr))
			}
			return nil, fmt.Errorf("edit card: %w", err)
		}
	}
	if err := uc.messenger.AnswerButton(ctx, ev.PressID, out.Notice); err != nil {
		return nil, fmt.Errorf("answer press: %w", err)
	}
	return out, nil
}

// transit never fails: every error is folded into an output that leaves the
// card in a valid state.
func (uc *HandleButton) transit(ctx context.Context, ev domain.ButtonEvent) *HandleButtonOutput {
	action, err := domain.ParseAction(ev.Tag)
	if err != nil {
		return uc.outdated(ev, err)
	}
	out, err := uc.route(action.Verb)(ctx, ev, action)
	if err != nil {
		out = uc.failed(ev, action, err)
	}
	out.Verb = action.Verb
	return out
}

// outdated replaces a card that can no longer be configured.
func (uc *HandleButton) outdated(ev domain.ButtonEvent, cause error) *HandleButtonOutput {
	uc.logger.Warn(ev.Chat.ID, "anomaly", fmt.Sprintf("message %d: %v", ev.MessageID, cause))
	return &HandleButtonOutput{Text: uc.answers.Outdated, Edited: true}
}

// failed maps a transition error to an output that keeps the prior card.
func (uc *HandleButton) failed(ev domain.ButtonEvent, action domain.ButtonAction, err error) *HandleButtonOutput {
	if errors.Is(err, domain.ErrMalformedCard) || errors.Is(err, domain.ErrInvalidCursor) {
		return uc.outdated(ev, err)
	}

	out := &HandleButtonOutput{
		Text:     ev.CurrentText,
		Keyboard: ev.Keyboard,
		Notice:   domain.UserMessage(err),
	}

	var trackerErr *domain.TrackerError
	var transportErr *domain.TransportError
	switch {
	case errors.As(err, &trackerErr):
		uc.logger.Warn(ev.Chat.ID, "tracker", fmt.Sprintf("%s failed: %v", action.Verb, err))
		if trackerErr.Reason == domain.ReasonNotFound && (action.Verb == domain.VerbClose || action.Verb == domain.VerbReopen) {
			out.Text = out.Notice
			out.Edited = true
		}
	case errors.As(err, &transportErr):
		uc.logger.Warn(ev.Chat.ID, "transport", fmt.Sprintf("%s failed: %v", action.Verb, err))
	case errors.Is(err, domain.ErrNoIssue):
		uc.logger.Info(ev.Chat.ID, "button", fmt.Sprintf("%s pressed before the issue exists", action.Verb))
	default:
		uc.logger.Error(ev.Chat.ID, "button", fmt.Sprintf("%s failed: %v", action.Verb, err))
	}
	return out
}

// decodeCard reads the current card text.
func decodeCard(ev domain.ButtonEvent) (*domain.IssueCard, error) {
	card, err := domain.ParseCard(domain.CardSource{Rendered: ev.CurrentText})
	if err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	return card, nil
}

// requireIssueID resolves the issue id or fails with domain.ErrNoIssue.
func requireIssueID(ev domain.ButtonEvent, action domain.ButtonAction) (string, error) {
	id, ok := shared.ResolveIssueID(action, ev.Keyboard)
	if !ok {
		return "", domain.ErrNoIssue
	}
	return id, nil
}

// keepText returns an output that only swaps the keyboard.
func keepText(ev domain.ButtonEvent, kb domain.Keyboard) *HandleButtonOutput {
	return &HandleButtonOutput{Text: ev.CurrentText, Keyboard: kb, Edited: true}
}
