// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"sync"

	"github.com/runoshun/issuebot/internal/domain"
)

// MockTracker is a test double for domain.Tracker.
// Fields are ordered to minimize memory padding.
type MockTracker struct {
	Repos    *domain.RepoPage
	Members  *domain.MemberPage
	Created  *domain.IssueRef
	Moved    *domain.IssueRef
	Reopened *domain.IssueRef

	// Gate, when set, blocks CreateIssue until it is closed.
	Gate chan struct{}
	// Entered receives a value when CreateIssue starts, if set.
	Entered chan struct{}

	ListReposErr   error
	ListMembersErr error
	CreateErr      error
	TransferErr    error
	AssignErr      error
	CloseErr       error
	ReopenErr      error
	TriageErr      error

	AssignedLogin string

	Calls       []string
	CreateCalls []CreateCall
	ReposPages  []domain.PageCursor
	TriageIDs   []string

	mu sync.Mutex
}

// CreateCall records the arguments of one CreateIssue call.
type CreateCall struct {
	RepoID string
	Title  string
	Body   string
}

// NewMockTracker creates a MockTracker with empty listings.
func NewMockTracker() *MockTracker {
	return &MockTracker{
		Repos:   &domain.RepoPage{},
		Members: &domain.MemberPage{},
	}
}

func (m *MockTracker) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many times the named method was called.
func (m *MockTracker) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// ListRepositories returns the configured page.
func (m *MockTracker) ListRepositories(_ context.Context, page domain.PageCursor) (*domain.RepoPage, error) {
	m.record("ListRepositories")
	m.mu.Lock()
	m.ReposPages = append(m.ReposPages, page)
	m.mu.Unlock()
	if m.ListReposErr != nil {
		return nil, m.ListReposErr
	}
	return m.Repos, nil
}

// ListMembers returns the configured page.
func (m *MockTracker) ListMembers(_ context.Context, _ domain.PageCursor) (*domain.MemberPage, error) {
	m.record("ListMembers")
	if m.ListMembersErr != nil {
		return nil, m.ListMembersErr
	}
	return m.Members, nil
}

// CreateIssue returns the configured issue.
func (m *MockTracker) CreateIssue(ctx context.Context, repoID, title, body string) (*domain.IssueRef, error) {
	m.record("CreateIssue")
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, CreateCall{RepoID: repoID, Title: title, Body: body})
	m.mu.Unlock()
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.Created, nil
}

// TransferIssue returns the configured issue.
func (m *MockTracker) TransferIssue(_ context.Context, _, _ string) (*domain.IssueRef, error) {
	m.record("TransferIssue")
	if m.TransferErr != nil {
		return nil, m.TransferErr
	}
	return m.Moved, nil
}

// SetAssignee returns the configured login.
func (m *MockTracker) SetAssignee(_ context.Context, _, _ string) (string, error) {
	m.record("SetAssignee")
	if m.AssignErr != nil {
		return "", m.AssignErr
	}
	return m.AssignedLogin, nil
}

// CloseIssue returns the configured error.
func (m *MockTracker) CloseIssue(_ context.Context, _ string) error {
	m.record("CloseIssue")
	return m.CloseErr
}

// ReopenIssue returns the configured issue.
func (m *MockTracker) ReopenIssue(_ context.Context, _ string) (*domain.IssueRef, error) {
	m.record("ReopenIssue")
	if m.ReopenErr != nil {
		return nil, m.ReopenErr
	}
	return m.Reopened, nil
}

// AddToTriageBoard records the issue id.
func (m *MockTracker) AddToTriageBoard(_ context.Context, issueID string) error {
	m.record("AddToTriageBoard")
	m.mu.Lock()
	m.TriageIDs = append(m.TriageIDs, issueID)
	m.mu.Unlock()
	return m.TriageErr
}

// Triaged returns the issue ids passed to AddToTriageBoard.
func (m *MockTracker) Triaged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.TriageIDs...)
}

// MockMessenger is a test double for domain.Messenger.
type MockMessenger struct {
	SendErr   error
	EditErr   error
	AnswerErr error

	Sent    []domain.OutgoingMessage
	Edits   []Edit
	Answers []Answer

	mu sync.Mutex
}

// Edit records one EditMessage call.
type Edit struct {
	Keyboard domain.Keyboard
	Text     string
	Ref      domain.MessageRef
}

// Answer records one AnswerButton call.
type Answer struct {
	PressID string
	Notice  string
}

// SendMessage records the message.
func (m *MockMessenger) SendMessage(_ context.Context, msg domain.OutgoingMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// EditMessage records the edit.
func (m *MockMessenger) EditMessage(_ context.Context, ref domain.MessageRef, text string, keyboard domain.Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Edits = append(m.Edits, Edit{Ref: ref, Text: text, Keyboard: keyboard})
	return nil
}

// AnswerButton records the answer.
func (m *MockMessenger) AnswerButton(_ context.Context, pressID, notice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AnswerErr != nil {
		return m.AnswerErr
	}
	m.Answers = append(m.Answers, Answer{PressID: pressID, Notice: notice})
	return nil
}

// Snapshot returns copies of the recorded calls.
func (m *MockMessenger) Snapshot() (sent []domain.OutgoingMessage, edits []Edit, answers []Answer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(sent, m.Sent...), append(edits, m.Edits...), append(answers, m.Answers...)
}

// MockLogger is a test double for domain.Logger that keeps entries in memory.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	ChatID   int64
}

func (m *MockLogger) add(level string, chatID int64, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, ChatID: chatID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(chatID int64, category, msg string) { m.add("INFO", chatID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(chatID int64, category, msg string) { m.add("DEBUG", chatID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(chatID int64, category, msg string) { m.add("WARN", chatID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(chatID int64, category, msg string) { m.add("ERROR", chatID, category, msg) }

// HasCategory reports whether an entry with the level and category was logged.
func (m *MockLogger) HasCategory(level, category string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && e.Category == category {
			return true
		}
	}
	return false
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr    error
	FileInfo   domain.ConfigInfo
	InitCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

// Info returns the configured file info.
func (m *MockConfigManager) Info() domain.ConfigInfo {
	return m.FileInfo
}

// Init records the call and returns InitErr.
func (m *MockConfigManager) Init() error {
	m.InitCalled = true
	return m.InitErr
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a MockConfigLoader returning default settings.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns Config or LoadErr.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}
