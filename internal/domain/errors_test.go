package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{nil, "nil", ""},
		{ErrBusy, "busy", "The previous request is not done yet.\nPlease wait..."},
		{fmt.Errorf("close issue: %w", &TrackerError{Reason: ReasonNotFound}), "not found", "Issue not found"},
		{&TrackerError{Reason: ReasonForbidden, Message: "x"}, "forbidden", "Issues are disabled for this repository"},
		{&TrackerError{Reason: ReasonRateLimited}, "rate limited", "GitHub rate limit exceeded, try again later"},
		{&TrackerError{Reason: ReasonOther, Message: "Title can't be blank"}, "other", "Title can't be blank"},
		{&TrackerError{Reason: ReasonOther}, "other without message", "Something went wrong, try again"},
		{&TransportError{Op: "graphql", Err: errors.New("EOF")}, "transport", "Still processing, try again"},
		{ErrNoIssue, "no issue", "Select a repository to create the issue first"},
		{errors.New("boom"), "unknown", "Something went wrong, try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestReasonOf(t *testing.T) {
	reason, ok := ReasonOf(fmt.Errorf("wrap: %w", &TrackerError{Reason: ReasonForbidden}))
	assert.True(t, ok)
	assert.Equal(t, ReasonForbidden, reason)

	_, ok = ReasonOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&TransportError{Op: "x", Err: errors.New("y")}))
	assert.True(t, IsTransient(&TrackerError{Reason: ReasonRateLimited}))
	assert.False(t, IsTransient(&TrackerError{Reason: ReasonNotFound}))
	assert.False(t, IsTransient(errors.New("z")))
}
