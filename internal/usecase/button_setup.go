package usecase

import (
	"context"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/usecase/shared"
)

// setup expands the card into its action row.
func (uc *HandleButton) setup(_ context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	if id, ok := shared.ResolveIssueID(action, ev.Keyboard); ok {
		return keepText(ev, domain.ActionKeyboard(id)), nil
	}
	return keepText(ev, domain.DraftKeyboard()), nil
}

// quit collapses the card to a single button.
func (uc *HandleButton) quit(_ context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	if action.Argument == domain.StartArgument {
		return keepText(ev, domain.DraftKeyboard()), nil
	}
	if id, ok := shared.ResolveIssueID(action, ev.Keyboard); ok {
		return keepText(ev, domain.SetupKeyboard(id)), nil
	}
	return keepText(ev, domain.DraftKeyboard()), nil
}
