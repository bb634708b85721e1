package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// getEditor returns the user's preferred editor from environment variables.
// It checks EDITOR, then VISUAL, and defaults to vi if neither is set.
func getEditor(getenv func(string) string) string {
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if editor := strings.TrimSpace(getenv(name)); editor != "" {
			return editor
		}
	}
	return "vi"
}

// openEditorFunc opens a file in the user's editor; tests replace it.
var openEditorFunc = openEditor

// openEditor opens the specified file in the user's editor.
// It returns an error if the editor cannot be started or exits with a non-zero status.
func openEditor(filePath string) error {
	editor := getEditor(os.Getenv)

	// EDITOR may carry arguments, e.g. "code --wait".
	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], filePath)...) // #nosec G204 - editor comes from the user's environment
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}

	return nil
}
