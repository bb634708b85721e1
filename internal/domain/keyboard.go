package domain

// Button is one inline keyboard button.
type Button struct {
	Text string
	Tag  string
}

// Keyboard is an inline keyboard, row by row. A nil Keyboard removes the
// keyboard from the message.
type Keyboard [][]Button

// Button labels.
const (
	LabelBack        = "↩️"
	LabelBackText    = "↩️ Back"
	LabelRepos       = "🗄 "
	LabelMembers     = "👤"
	LabelClose       = "❌"
	LabelReopen      = "🔄 Reopen"
	LabelSetup       = "Setup"
	LabelSelectRepo  = "⚠️ Select repo to create"
	LabelPrevious    = "⬅️"
	LabelNext        = "➡️"
	startReposTag    = string(VerbListRepos) + TagDelimiter + StartArgument
	startMembersTag  = string(VerbListMembers) + TagDelimiter + StartArgument
	quitStartWireTag = string(VerbQuit) + TagDelimiter + StartArgument
)

// DraftKeyboard is shown while no issue exists.
func DraftKeyboard() Keyboard {
	return Keyboard{{{Text: LabelSelectRepo, Tag: startReposTag}}}
}

// ActionKeyboard is the full action row of an existing issue.
func ActionKeyboard(issueID string) Keyboard {
	return Keyboard{{
		{Text: LabelBack, Tag: Tag(VerbQuit, issueID)},
		{Text: LabelRepos, Tag: startReposTag},
		{Text: LabelMembers, Tag: startMembersTag},
		{Text: LabelClose, Tag: Tag(VerbClose, issueID)},
	}}
}

// SetupKeyboard collapses an existing issue to a single setup button.
func SetupKeyboard(issueID string) Keyboard {
	return Keyboard{{{Text: LabelSetup, Tag: Tag(VerbSetup, issueID)}}}
}

// ReopenKeyboard is shown on a closed issue.
func ReopenKeyboard(issueID string) Keyboard {
	return Keyboard{{{Text: LabelReopen, Tag: Tag(VerbReopen, issueID)}}}
}

// BackTag returns the tag of the back button for an optional issue id.
func BackTag(issueID string) string {
	if issueID == "" {
		return quitStartWireTag
	}
	return Tag(VerbQuit, issueID)
}

// IssueID scans the keyboard for the first issue-scoped tag carrying a real
// id. This is how the issue id threads through multi-step flows.
func (k Keyboard) IssueID() (string, bool) {
	for _, row := range k {
		for _, b := range row {
			action, err := ParseAction(b.Tag)
			if err != nil {
				continue
			}
			if id, ok := action.IssueID(); ok {
				return id, true
			}
		}
	}
	return "", false
}

// Equal reports whether two keyboards have identical buttons.
func (k Keyboard) Equal(other Keyboard) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if len(k[i]) != len(other[i]) {
			return false
		}
		for j := range k[i] {
			if k[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}
