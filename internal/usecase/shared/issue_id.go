package shared

import "github.com/runoshun/issuebot/internal/domain"

// ResolveIssueID returns the issue id for a button press: the pressed tag's
// own id if it carries one, otherwise the first id found on the keyboard.
func ResolveIssueID(action domain.ButtonAction, keyboard domain.Keyboard) (string, bool) {
	if id, ok := action.IssueID(); ok {
		return id, true
	}
	return keyboard.IssueID()
}
