package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/runoshun/issuebot/internal/domain"
)

// HandleMentionInput contains a message that mentions the bot.
type HandleMentionInput struct {
	Event domain.MentionEvent
}

// HandleMentionOutput contains the message posted in reply.
type HandleMentionOutput struct {
	Card    *domain.IssueCard // nil when no card was created
	Message domain.OutgoingMessage
}

// HandleMention is the use case for turning a mention into a draft card.
type HandleMention struct {
	messenger domain.Messenger
	logger    domain.Logger
	mention   *regexp.Regexp // nil when the bot has no username
	answers   domain.Answers
}

// NewHandleMention creates a new HandleMention use case.
// mention is the bot's "@username" to strip from the message.
func NewHandleMention(messenger domain.Messenger, answers domain.Answers, mention string, logger domain.Logger) *HandleMention {
	uc := &HandleMention{
		messenger: messenger,
		answers:   answers,
		logger:    logger,
	}
	if mention != "" && mention != "@" {
		// Telegram usernames are case-insensitive.
		uc.mention = regexp.MustCompile("(?i)" + regexp.QuoteMeta(mention))
	}
	return uc
}

// stripMention removes every mention of the bot from text.
func (uc *HandleMention) stripMention(text string) string {
	if uc.mention == nil {
		return text
	}
	return uc.mention.ReplaceAllLiteralString(text, "")
}

// Execute posts a draft card for the mention, or the no-title answer when
// the mention carries no text.
func (uc *HandleMention) Execute(ctx context.Context, in HandleMentionInput) (*HandleMentionOutput, error) {
	ev := in.Event
	text := strings.TrimSpace(uc.stripMention(ev.Text))

	out := &HandleMentionOutput{}
	card, err := domain.CardFromMention(text)
	switch {
	case err == nil:
		out.Card = card
		out.Message = domain.OutgoingMessage{
			Chat:     ev.Chat,
			Text:     card.Render(),
			Keyboard: domain.DraftKeyboard(),
			HTML:     true,
		}
	case errors.Is(err, domain.ErrEmptyTitle):
		out.Message = domain.OutgoingMessage{Chat: ev.Chat, Text: uc.answers.NoTitle}
	default:
		return nil, fmt.Errorf("build card: %w", err)
	}

	if err := uc.messenger.SendMessage(ctx, out.Message); err != nil {
		return nil, fmt.Errorf("send card: %w", err)
	}
	if out.Card != nil && uc.logger != nil {
		uc.logger.Info(ev.Chat.ID, "card", fmt.Sprintf("draft created by %s: %q", ev.Author.FullName, out.Card.Title))
	}
	return out, nil
}
