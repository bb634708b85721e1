package domain

import "context"

// Tracker is the remote issue tracker.
type Tracker interface {
	// ListRepositories returns one page of the organization's repositories.
	ListRepositories(ctx context.Context, page PageCursor) (*RepoPage, error)

	// ListMembers returns one page of the organization's members.
	ListMembers(ctx context.Context, page PageCursor) (*MemberPage, error)

	// CreateIssue opens an issue in the repository.
	CreateIssue(ctx context.Context, repoID, title, body string) (*IssueRef, error)

	// TransferIssue moves an issue to another repository.
	TransferIssue(ctx context.Context, repoID, issueID string) (*IssueRef, error)

	// SetAssignee replaces the issue assignees with the user and returns
	// the resulting assignee login.
	SetAssignee(ctx context.Context, issueID, userID string) (string, error)

	// CloseIssue closes the issue.
	CloseIssue(ctx context.Context, issueID string) error

	// ReopenIssue reopens the issue and returns its current state.
	ReopenIssue(ctx context.Context, issueID string) (*IssueRef, error)

	// AddToTriageBoard places the issue on the configured project board.
	AddToTriageBoard(ctx context.Context, issueID string) error
}

// IssueRef is the tracker's view of an issue.
type IssueRef struct {
	ID       string
	URL      string
	Title    string
	Body     string
	Assignee string // first assignee login, empty if none
}

// RepoRef is one repository in a listing.
type RepoRef struct {
	ID   string
	Name string
}

// MemberRef is one organization member in a listing.
type MemberRef struct {
	ID    string
	Login string
}

// PageInfo describes the position of a page in a listing.
type PageInfo struct {
	StartCursor     string
	EndCursor       string
	HasPreviousPage bool
	HasNextPage     bool
}

// RepoPage is one page of repositories.
type RepoPage struct {
	Items []RepoRef
	Page  PageInfo
}

// MemberPage is one page of members.
type MemberPage struct {
	Items []MemberRef
	Page  PageInfo
}

// Messenger sends and edits chat messages.
type Messenger interface {
	// SendMessage posts a new message into a chat.
	SendMessage(ctx context.Context, msg OutgoingMessage) error

	// EditMessage replaces the text and keyboard of an existing message.
	EditMessage(ctx context.Context, ref MessageRef, text string, keyboard Keyboard) error

	// AnswerButton acknowledges a button press, optionally with a notice.
	AnswerButton(ctx context.Context, pressID, notice string) error
}

// MessageRef addresses one chat message.
type MessageRef struct {
	ChatID    int64
	MessageID int64
}

// Chat describes where a message lives.
type Chat struct {
	Type     string // "private", "group", "supergroup", "channel"
	ID       int64
	ThreadID int64 // forum topic id, 0 if none
}

// ChatTypeSupergroup is the chat type that supports message links.
const ChatTypeSupergroup = "supergroup"

// Author is the chat user behind an event.
type Author struct {
	FullName string
	ID       int64
}

// OutgoingMessage is a new chat message.
type OutgoingMessage struct {
	Keyboard Keyboard
	Text     string
	Chat     Chat
	HTML     bool
}

// MentionEvent is a message that mentions the bot.
type MentionEvent struct {
	Text      string // chat markup of the message
	Author    Author
	Chat      Chat
	MessageID int64
}

// ButtonEvent is a button press on a card.
type ButtonEvent struct {
	PressID     string
	Tag         string
	CurrentText string // chat markup of the card
	Keyboard    Keyboard
	Author      Author
	Chat        Chat
	MessageID   int64
}

// Ref returns the address of the pressed message.
func (e ButtonEvent) Ref() MessageRef {
	return MessageRef{ChatID: e.Chat.ID, MessageID: e.MessageID}
}

// Logger writes categorized log entries, optionally scoped to a chat.
type Logger interface {
	Info(chatID int64, category, msg string)
	Debug(chatID int64, category, msg string)
	Warn(chatID int64, category, msg string)
	Error(chatID int64, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the configuration merged over defaults.
	Load() (*Config, error)
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and initializes the configuration file.
type ConfigManager interface {
	// Info returns the file path and, if it exists, its content.
	Info() ConfigInfo
	// Init writes the commented template. Returns ErrConfigExists if the
	// file is already there.
	Init() error
}
