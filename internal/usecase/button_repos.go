package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/usecase/shared"
)

// listRepos shows one page of repositories to create or transfer into.
func (uc *HandleButton) listRepos(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	cursor, err := domain.DecodeCursor(action.Argument)
	if err != nil {
		return nil, err
	}
	page, err := uc.tracker.ListRepositories(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	rows := make(domain.Keyboard, 0, len(page.Items)+1)
	for _, repo := range page.Items {
		rows = append(rows, []domain.Button{{Text: repo.Name, Tag: domain.Tag(domain.VerbChooseRepo, repo.ID)}})
	}
	issueID, _ := shared.ResolveIssueID(action, ev.Keyboard)
	rows = append(rows, uc.navRow(ev.Chat.ID, domain.VerbListRepos, page.Page, issueID))
	return keepText(ev, rows), nil
}

// chooseRepo creates the issue in the chosen repository, or transfers it
// there when it already exists.
func (uc *HandleButton) chooseRepo(ctx context.Context, ev domain.ButtonEvent, action domain.ButtonAction) (*HandleButtonOutput, error) {
	repoID := action.Argument
	if repoID == "" {
		return nil, fmt.Errorf("%w: repository id missing", domain.ErrMalformedCard)
	}
	card, err := decodeCard(ev)
	if err != nil {
		return nil, err
	}

	var issueID string
	if id, ok := shared.ResolveIssueID(action, ev.Keyboard); ok {
		ref, err := uc.tracker.TransferIssue(ctx, repoID, id)
		if err != nil {
			return nil, fmt.Errorf("transfer issue: %w", err)
		}
		card.SetIssueReference(ref.URL)
		card.SetAssignee(ref.Assignee)
		issueID = ref.ID
		uc.logger.Info(ev.Chat.ID, "issue", fmt.Sprintf("transferred: %s", ref.URL))
	} else {
		link, linked := domain.MessageLink(ev.Chat, ev.MessageID)
		if !linked {
			uc.logger.Warn(ev.Chat.ID, "issue", fmt.Sprintf("chat type %q has no message links", ev.Chat.Type))
		}
		ref, err := uc.tracker.CreateIssue(ctx, repoID, card.Title, card.TrackerBody(ev.Author.FullName, link))
		if err != nil {
			return nil, fmt.Errorf("create issue: %w", err)
		}
		card.SetIssueReference(ref.URL)
		issueID = ref.ID
		uc.logger.Info(ev.Chat.ID, "issue", fmt.Sprintf("opened: %s", ref.URL))
		uc.triage.Fire(ctx, ev.Chat.ID, issueID)
	}

	return &HandleButtonOutput{
		Text:     card.Render(),
		Keyboard: domain.ActionKeyboard(issueID),
		Edited:   true,
	}, nil
}

// navRow builds the previous/back/next row under a listing. Navigation
// buttons whose tag would not fit the callback limit are left out.
func (uc *HandleButton) navRow(chatID int64, verb domain.Verb, page domain.PageInfo, issueID string) []domain.Button {
	row := make([]domain.Button, 0, 3)
	if page.HasPreviousPage {
		if tag, ok := uc.pageTag(chatID, verb, domain.DirectionBefore, page.StartCursor); ok {
			row = append(row, domain.Button{Text: domain.LabelPrevious, Tag: tag})
		}
	}
	row = append(row, domain.Button{Text: domain.LabelBackText, Tag: domain.BackTag(issueID)})
	if page.HasNextPage {
		if tag, ok := uc.pageTag(chatID, verb, domain.DirectionAfter, page.EndCursor); ok {
			row = append(row, domain.Button{Text: domain.LabelNext, Tag: tag})
		}
	}
	return row
}

func (uc *HandleButton) pageTag(chatID int64, verb domain.Verb, dir domain.Direction, cursor string) (string, bool) {
	fragment, err := domain.EncodeCursor(dir, cursor)
	if err == nil {
		var tag string
		if tag, err = (domain.ButtonAction{Verb: verb, Argument: fragment}).Tag(); err == nil {
			return tag, true
		}
	}
	uc.logger.Warn(chatID, "anomaly", fmt.Sprintf("%s %s page button dropped: %v", verb, dir, err))
	return "", false
}
