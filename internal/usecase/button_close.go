package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/runoshun/issuebot/internal/domain"
)

// closeIssue closes the issue and collapses the card to a reopen button.
func (uc *HandleButton) closeIssue(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	issueID, err := requireIssueID(ev, action)
	if err != nil {
		return nil, err
	}
	card, err := decodeCard(ev)
	if err != nil {
		return nil, err
	}
	if !card.HasIssue() {
		return nil, fmt.Errorf("%w: card has no issue link", domain.ErrMalformedCard)
	}

	if err := uc.tracker.CloseIssue(ctx, issueID); err != nil {
		return nil, fmt.Errorf("close issue: %w", err)
	}
	uc.logger.Info(ev.Chat.ID, "issue", fmt.Sprintf("closed: %s", card.IssueURL))

	return &HandleButtonOutput{
		Text:     card.CloseMessage(ev.Author.FullName),
		Keyboard: domain.ReopenKeyboard(issueID),
		Edited:   true,
	}, nil
}

// reopenIssue reopens the issue and rebuilds the card from the tracker,
// since the closed message no longer holds the card fields.
func (uc *HandleButton) reopenIssue(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	issueID, err := requireIssueID(ev, action)
	if err != nil {
		return nil, err
	}

	ref, err := uc.tracker.ReopenIssue(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("reopen issue: %w", err)
	}
	// The tracker holds plain text; the card is chat HTML.
	card, err := domain.ParseCard(domain.CardSource{
		Reopened: fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(ref.URL), html.EscapeString(ref.Title)),
	})
	if err != nil {
		return nil, fmt.Errorf("rebuild card: %w", err)
	}
	card.SetAssignee(ref.Assignee)
	card.Comment = html.EscapeString(strings.TrimSpace(domain.StripBodyFooter(ref.Body)))

	uc.logger.Info(ev.Chat.ID, "issue", fmt.Sprintf("reopened: %s", ref.URL))
	uc.triage.Fire(ctx, ev.Chat.ID, issueID)

	return &HandleButtonOutput{
		Text:     card.Render(),
		Keyboard: domain.SetupKeyboard(issueID),
		Edited:   true,
	}, nil
}
