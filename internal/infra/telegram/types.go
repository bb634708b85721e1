package telegram

import "github.com/PaulSonOfLars/gotgbot/v2"

// Bot API types the update loop works with.
type (
	Update               = gotgbot.Update
	Message              = gotgbot.Message
	User                 = gotgbot.User
	Chat                 = gotgbot.Chat
	CallbackQuery        = gotgbot.CallbackQuery
	MessageEntity        = gotgbot.MessageEntity
	InlineKeyboardMarkup = gotgbot.InlineKeyboardMarkup
	InlineKeyboardButton = gotgbot.InlineKeyboardButton
)

// fullName returns the first and last name joined by a space.
func fullName(u User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// callbackMessage returns the message a button belongs to, or nil when the
// message is too old for the Bot API to include.
func callbackMessage(cq *CallbackQuery) *Message {
	switch m := cq.Message.(type) {
	case Message:
		return &m
	case *Message:
		return m
	}
	return nil
}
