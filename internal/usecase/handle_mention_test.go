package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mention(text string) HandleMentionInput {
	return HandleMentionInput{Event: domain.MentionEvent{
		Text:      text,
		Author:    domain.Author{FullName: "Ann Lee", ID: 42},
		Chat:      domain.Chat{Type: domain.ChatTypeSupergroup, ID: -1001234567890},
		MessageID: 54,
	}}
}

func TestHandleMention_Execute_TitleOnly(t *testing.T) {
	// Setup
	messenger := &testutil.MockMessenger{}
	logger := &testutil.MockLogger{}
	uc := NewHandleMention(messenger, testAnswers, "@bot", logger)

	// Execute
	out, err := uc.Execute(context.Background(), mention("@bot Fix crash"))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, out.Card)
	assert.Equal(t, "Fix crash", out.Card.Title)
	assert.Equal(t, draftText, out.Message.Text)
	assert.Equal(t, domain.DraftKeyboard(), out.Message.Keyboard)
	assert.True(t, out.Message.HTML)
	assert.True(t, logger.HasCategory("INFO", "card"))

	sent, _, _ := messenger.Snapshot()
	require.Len(t, sent, 1)
	assert.Equal(t, out.Message, sent[0])
}

func TestHandleMention_Execute_WithComment(t *testing.T) {
	// Setup
	messenger := &testutil.MockMessenger{}
	uc := NewHandleMention(messenger, testAnswers, "@bot", &testutil.MockLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), mention("@bot Fix crash\nsteps <b>here</b>"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, draftText+"\nsteps <b>here</b>", out.Message.Text)
}

func TestHandleMention_Execute_MentionCaseIgnored(t *testing.T) {
	tests := []string{
		"@Bot Fix crash",
		"@BOT Fix crash",
		"Fix crash @bOt",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			// Setup
			uc := NewHandleMention(&testutil.MockMessenger{}, testAnswers, "@bot", &testutil.MockLogger{})

			// Execute
			out, err := uc.Execute(context.Background(), mention(text))

			// Assert
			require.NoError(t, err)
			require.NotNil(t, out.Card)
			assert.Equal(t, "Fix crash", out.Card.Title)
		})
	}
}

func TestHandleMention_Execute_NoTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"mention only", "@bot"},
		{"mention with blanks", "  @bot \n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			messenger := &testutil.MockMessenger{}
			uc := NewHandleMention(messenger, testAnswers, "@bot", &testutil.MockLogger{})

			// Execute
			out, err := uc.Execute(context.Background(), mention(tt.text))

			// Assert
			require.NoError(t, err)
			assert.Nil(t, out.Card)
			assert.Equal(t, testAnswers.NoTitle, out.Message.Text)
			assert.Nil(t, out.Message.Keyboard)
			assert.False(t, out.Message.HTML)
		})
	}
}

func TestHandleMention_Execute_SendError(t *testing.T) {
	// Setup
	messenger := &testutil.MockMessenger{SendErr: assert.AnError}
	uc := NewHandleMention(messenger, testAnswers, "@bot", &testutil.MockLogger{})

	// Execute
	_, err := uc.Execute(context.Background(), mention("@bot Fix crash"))

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
}
