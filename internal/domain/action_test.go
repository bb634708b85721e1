package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		tag      string
		wantVerb Verb
		wantArg  string
	}{
		{"setup:I_kwDOA1", VerbSetup, "I_kwDOA1"},
		{"quit:start", VerbQuit, "start"},
		{"repos:start", VerbListRepos, "start"},
		{"repos:after:Y3Vyc29yOnYy:Ok", VerbListRepos, "after:Y3Vyc29yOnYy:Ok"},
		{"repo:R_kgDOB", VerbChooseRepo, "R_kgDOB"},
		{"members:before:abc", VerbListMembers, "before:abc"},
		{"assign:MDQ6VXNlcjE=", VerbAssign, "MDQ6VXNlcjE="},
		{"close:I_1", VerbClose, "I_1"},
		{"reopen:I_1", VerbReopen, "I_1"},
		{"reopen", VerbReopen, ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			action, err := ParseAction(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerb, action.Verb)
			assert.Equal(t, tt.wantArg, action.Argument)
		})
	}
}

func TestParseAction_Unknown(t *testing.T) {
	for _, tag := range []string{"", "quite_I_1", "repos_start", "bogus:1"} {
		_, err := ParseAction(tag)
		assert.ErrorIs(t, err, ErrUnknownAction, "tag %q", tag)
	}
}

func TestButtonAction_Tag(t *testing.T) {
	tag, err := ButtonAction{Verb: VerbClose, Argument: "I_1"}.Tag()
	require.NoError(t, err)
	assert.Equal(t, "close:I_1", tag)

	tag, err = ButtonAction{Verb: VerbReopen}.Tag()
	require.NoError(t, err)
	assert.Equal(t, "reopen", tag)

	_, err = ButtonAction{Verb: VerbListRepos, Argument: strings.Repeat("x", MaxTagLength)}.Tag()
	assert.ErrorIs(t, err, ErrTagTooLong)
}

func TestButtonAction_IssueID(t *testing.T) {
	tests := []struct {
		action ButtonAction
		wantID string
		wantOK bool
	}{
		{ButtonAction{Verb: VerbClose, Argument: "I_1"}, "I_1", true},
		{ButtonAction{Verb: VerbQuit, Argument: "start"}, "", false},
		{ButtonAction{Verb: VerbSetup, Argument: ""}, "", false},
		{ButtonAction{Verb: VerbListRepos, Argument: "start"}, "", false},
		{ButtonAction{Verb: VerbAssign, Argument: "U_1"}, "", false},
	}

	for _, tt := range tests {
		id, ok := tt.action.IssueID()
		assert.Equal(t, tt.wantID, id)
		assert.Equal(t, tt.wantOK, ok)
	}
}
