package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/issuebot/internal/domain"
)

// Guide identifies a fixed informational reply.
type Guide string

// Guides, keyed by the chat command that requests them.
const (
	GuideStart    Guide = "start"
	GuideHelp     Guide = "help"
	GuideMarkdown Guide = "md_guide"
)

// ShowGuideInput contains the parameters for replying with a guide.
type ShowGuideInput struct {
	Guide Guide
	Chat  domain.Chat
}

// ShowGuide is the use case for the start, help and markdown guide commands.
type ShowGuide struct {
	messenger    domain.Messenger
	answers      domain.Answers
	organization string
	mention      string
}

// NewShowGuide creates a new ShowGuide use case.
func NewShowGuide(messenger domain.Messenger, answers domain.Answers, organization, mention string) *ShowGuide {
	return &ShowGuide{
		messenger:    messenger,
		answers:      answers,
		organization: organization,
		mention:      mention,
	}
}

// Execute sends the requested guide.
func (uc *ShowGuide) Execute(ctx context.Context, in ShowGuideInput) error {
	var msgs []domain.OutgoingMessage
	switch in.Guide {
	case GuideStart:
		msgs = append(msgs, domain.OutgoingMessage{Chat: in.Chat, Text: uc.answers.StartText(uc.organization), HTML: true})
	case GuideHelp:
		msgs = append(msgs, domain.OutgoingMessage{Chat: in.Chat, Text: uc.answers.HelpText(uc.mention), HTML: true})
	case GuideMarkdown:
		// The second message is sent without markup so the syntax shows as typed.
		msgs = append(msgs,
			domain.OutgoingMessage{Chat: in.Chat, Text: uc.answers.MarkdownGuideChat, HTML: true},
			domain.OutgoingMessage{Chat: in.Chat, Text: uc.answers.MarkdownGuideMarkdown},
		)
	default:
		return fmt.Errorf("unknown guide %q", in.Guide)
	}

	for _, msg := range msgs {
		if err := uc.messenger.SendMessage(ctx, msg); err != nil {
			return fmt.Errorf("send %s guide: %w", in.Guide, err)
		}
	}
	return nil
}
