// Package telegram implements domain.Messenger on the Telegram Bot API and
// converts incoming updates to domain events.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/runoshun/issuebot/internal/domain"
)

// Ensure Client implements domain.Messenger.
var _ domain.Messenger = (*Client)(nil)

const (
	parseModeHTML = "HTML"

	// pollGrace is added to the long-poll timeout for the request deadline.
	pollGrace = 10 * time.Second

	// maxDrainBytes bounds how much of a failed response body is discarded.
	maxDrainBytes = 64 << 10
)

// ErrMalformedToken is returned for a bot token without the "<id>:<secret>"
// shape.
var ErrMalformedToken = errors.New("telegram: bot token is malformed")

// Config holds the settings of a Client.
type Config struct {
	HTTPClient *http.Client // defaults to a client on http.DefaultTransport
	APIURL     string
	Token      string
}

// Client is a Bot API client.
type Client struct {
	bot    *gotgbot.Bot
	apiURL string
}

// NewClient creates a Client from the given configuration. No request is
// made until the first call.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram: %w", domain.ErrMissingToken)
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = domain.DefaultTelegramAPIURL
	}

	var httpClient http.Client
	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	}
	httpClient.Transport = &statusTransport{base: httpClient.Transport}

	bot, err := gotgbot.NewBot(cfg.Token, &gotgbot.BotOpts{
		BotClient: &gotgbot.BaseBotClient{
			Client: httpClient,
			DefaultRequestOpts: &gotgbot.RequestOpts{
				Timeout: gotgbot.DefaultTimeout,
				APIURL:  apiURL,
			},
		},
		DisableTokenCheck: true,
	})
	if err != nil {
		// The library error quotes the token.
		return nil, ErrMalformedToken
	}
	return &Client{bot: bot, apiURL: apiURL}, nil
}

// statusTransport fails server-side errors before the body reaches the Bot
// API decoder, which expects JSON.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) requestOpts(timeout time.Duration) *gotgbot.RequestOpts {
	return &gotgbot.RequestOpts{Timeout: timeout, APIURL: c.apiURL}
}

// callError maps a failed Bot API call. Network failures, rate limits and
// server errors become domain.TransportError.
func callError(method string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// The URL holds the token; report the method only.
		return &domain.TransportError{Op: "telegram " + method, Err: urlErr.Err}
	}
	var tgErr *gotgbot.TelegramError
	if errors.As(err, &tgErr) && (tgErr.Code == http.StatusTooManyRequests || tgErr.Code >= http.StatusInternalServerError) {
		return &domain.TransportError{Op: "telegram " + method, Err: tgErr}
	}
	return fmt.Errorf("telegram %s: %w", method, err)
}

// GetUpdates long-polls for updates with ids from offset on.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	updates, err := c.bot.GetUpdatesWithContext(ctx, &gotgbot.GetUpdatesOpts{
		Offset:         offset,
		Timeout:        int64(timeoutSec),
		AllowedUpdates: []string{"message", "callback_query"},
		RequestOpts:    c.requestOpts(time.Duration(timeoutSec)*time.Second + pollGrace),
	})
	if err != nil {
		return nil, callError("getUpdates", err)
	}
	return updates, nil
}

// SendMessage posts a message.
func (c *Client) SendMessage(ctx context.Context, msg domain.OutgoingMessage) error {
	opts := &gotgbot.SendMessageOpts{
		MessageThreadId:    msg.Chat.ThreadID,
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{IsDisabled: true},
		RequestOpts:        c.requestOpts(gotgbot.DefaultTimeout),
	}
	if msg.HTML {
		opts.ParseMode = parseModeHTML
	}
	if msg.Keyboard != nil {
		opts.ReplyMarkup = toMarkup(msg.Keyboard)
	}
	if _, err := c.bot.SendMessageWithContext(ctx, msg.Chat.ID, msg.Text, opts); err != nil {
		return callError("sendMessage", err)
	}
	return nil
}

// EditMessage replaces the text and keyboard of a message. A nil keyboard
// removes it. Edits that change nothing are not errors.
func (c *Client) EditMessage(ctx context.Context, ref domain.MessageRef, text string, keyboard domain.Keyboard) error {
	_, _, err := c.bot.EditMessageTextWithContext(ctx, text, &gotgbot.EditMessageTextOpts{
		ChatId:             ref.ChatID,
		MessageId:          ref.MessageID,
		ParseMode:          parseModeHTML,
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{IsDisabled: true},
		ReplyMarkup:        toMarkup(keyboard),
		RequestOpts:        c.requestOpts(gotgbot.DefaultTimeout),
	})
	if err == nil {
		return nil
	}
	var tgErr *gotgbot.TelegramError
	if errors.As(err, &tgErr) && strings.Contains(tgErr.Description, "message is not modified") {
		return nil
	}
	return callError("editMessageText", err)
}

// AnswerButton acknowledges a button press, showing notice if non-empty.
func (c *Client) AnswerButton(ctx context.Context, pressID, notice string) error {
	_, err := c.bot.AnswerCallbackQueryWithContext(ctx, pressID, &gotgbot.AnswerCallbackQueryOpts{
		Text:        notice,
		RequestOpts: c.requestOpts(gotgbot.DefaultTimeout),
	})
	if err != nil {
		return callError("answerCallbackQuery", err)
	}
	return nil
}

// toMarkup converts a keyboard. A nil keyboard becomes an empty markup,
// which removes the keyboard of an edited message.
func toMarkup(kb domain.Keyboard) InlineKeyboardMarkup {
	markup := InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(kb))}
	for _, row := range kb {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: b.Text, CallbackData: b.Tag})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}

func fromMarkup(markup *InlineKeyboardMarkup) domain.Keyboard {
	if markup == nil {
		return nil
	}
	kb := make(domain.Keyboard, 0, len(markup.InlineKeyboard))
	for _, row := range markup.InlineKeyboard {
		buttons := make([]domain.Button, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, domain.Button{Text: b.Text, Tag: b.CallbackData})
		}
		kb = append(kb, buttons)
	}
	return kb
}
