package answers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	a := Default()

	assert.NotEmpty(t, a.Start)
	assert.NotEmpty(t, a.Help)
	assert.NotEmpty(t, a.NoTitle)
	assert.NotEmpty(t, a.MarkdownGuideChat)
	assert.NotEmpty(t, a.MarkdownGuideMarkdown)
	assert.Contains(t, a.Outdated, "outdated")
	assert.Contains(t, a.StartText("acme"), "<b>acme</b>")
	assert.Contains(t, a.HelpText("@issue_bot"), "Mention @issue_bot")
}

func TestLoad_EmptyPath(t *testing.T) {
	a, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), a)
}

func TestLoad_Override(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outdated: Too old\nno_title: Need a title\n"), 0o600))

	// Execute
	a, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Too old", a.Outdated)
	assert.Equal(t, "Need a title", a.NoTitle)
	assert.Equal(t, Default().Help, a.Help)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("start: [unclosed"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"invalid yaml", bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}
