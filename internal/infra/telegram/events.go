package telegram

import (
	"strings"

	"github.com/runoshun/issuebot/internal/domain"
)

// Event is an update classified for dispatch. At most one of Command,
// Mention and Button is set; none means the update is ignored.
type Event struct {
	Mention  *domain.MentionEvent
	Button   *domain.ButtonEvent
	Command  string // name without the slash or bot suffix
	Chat     domain.Chat
	UpdateID int64
}

// Ignored reports whether the update needs no handling.
func (e Event) Ignored() bool {
	return e.Command == "" && e.Mention == nil && e.Button == nil
}

// Classify turns an update into an Event. botUsername is the bot's
// username without the leading @. Message text is read back as HTML.
func Classify(u Update, botUsername string) Event {
	ev := Event{UpdateID: u.UpdateId}

	if cq := u.CallbackQuery; cq != nil {
		msg := callbackMessage(cq)
		if msg == nil {
			return ev
		}
		ev.Chat = chatOf(msg)
		ev.Button = &domain.ButtonEvent{
			PressID:     cq.Id,
			Tag:         cq.Data,
			CurrentText: msg.OriginalHTML(),
			Keyboard:    fromMarkup(msg.ReplyMarkup),
			Author:      authorOf(&cq.From),
			Chat:        ev.Chat,
			MessageID:   msg.MessageId,
		}
		return ev
	}

	msg := u.Message
	if msg == nil || msg.Text == "" {
		return ev
	}
	ev.Chat = chatOf(msg)

	if name, ok := commandName(msg.Text, botUsername); ok {
		ev.Command = name
		return ev
	}
	if mentions(msg.Text, botUsername) {
		ev.Mention = &domain.MentionEvent{
			Text:      msg.OriginalHTML(),
			Author:    authorOf(msg.From),
			Chat:      ev.Chat,
			MessageID: msg.MessageId,
		}
	}
	return ev
}

// commandName extracts "help" from "/help" or "/help@bot args". Commands
// addressed to another bot are not ours.
func commandName(text, botUsername string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word, _, _ := strings.Cut(text[1:], " ")
	word, _, _ = strings.Cut(word, "\n")
	name, target, addressed := strings.Cut(word, "@")
	if addressed && !strings.EqualFold(target, strings.TrimPrefix(botUsername, "@")) {
		return "", false
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

func mentions(text, botUsername string) bool {
	handle := "@" + strings.ToLower(strings.TrimPrefix(botUsername, "@"))
	return handle != "@" && strings.Contains(strings.ToLower(text), handle)
}

func chatOf(msg *Message) domain.Chat {
	return domain.Chat{
		Type:     msg.Chat.Type,
		ID:       msg.Chat.Id,
		ThreadID: msg.MessageThreadId,
	}
}

func authorOf(u *User) domain.Author {
	if u == nil {
		return domain.Author{}
	}
	return domain.Author{FullName: fullName(*u), ID: u.Id}
}
