package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/usecase/shared"
)

// listMembers shows one page of organization members to assign.
func (uc *HandleButton) listMembers(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	cursor, err := domain.DecodeCursor(action.Argument)
	if err != nil {
		return nil, err
	}
	page, err := uc.tracker.ListMembers(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	rows := make(domain.Keyboard, 0, len(page.Items)+1)
	for _, member := range page.Items {
		rows = append(rows, []domain.Button{{Text: member.Login, Tag: domain.Tag(domain.VerbAssign, member.ID)}})
	}
	issueID, _ := shared.ResolveIssueID(action, ev.Keyboard)
	rows = append(rows, uc.navRow(ev.Chat.ID, domain.VerbListMembers, page.Page, issueID))
	return keepText(ev, rows), nil
}

// assign sets the chosen member as the issue assignee.
func (uc *HandleButton) assign(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	userID := action.Argument
	if userID == "" {
		return nil, fmt.Errorf("%w: member id missing", domain.ErrMalformedCard)
	}
	issueID, err := requireIssueID(ev, action)
	if err != nil {
		return nil, err
	}
	card, err := decodeCard(ev)
	if err != nil {
		return nil, err
	}

	login, err := uc.tracker.SetAssignee(ctx, issueID, userID)
	if err != nil {
		return nil, fmt.Errorf("set assignee: %w", err)
	}
	card.SetAssignee(login)
	uc.logger.Info(ev.Chat.ID, "issue", fmt.Sprintf("assigned %s to %s", login, card.IssueURL))

	return &HandleButtonOutput{
		Text:     card.Render(),
		Keyboard: domain.ActionKeyboard(issueID),
		Edited:   true,
	}, nil
}
