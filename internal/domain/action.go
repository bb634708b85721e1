package domain

import (
	"fmt"
	"strings"
)

// TagDelimiter separates the verb of a button tag from its argument. It is
// reserved: GitHub node ids and page cursors do not contain it.
const TagDelimiter = ":"

// MaxTagLength is the Telegram limit on callback data, in bytes.
const MaxTagLength = 64

// StartArgument marks a tag that carries no issue id yet.
const StartArgument = "start"

// Verb identifies what a button does.
type Verb string

// Button verbs as they appear on the wire.
const (
	VerbSetup       Verb = "setup"
	VerbQuit        Verb = "quit"
	VerbClose       Verb = "close"
	VerbReopen      Verb = "reopen"
	VerbListRepos   Verb = "repos"
	VerbListMembers Verb = "members"
	VerbChooseRepo  Verb = "repo"
	VerbAssign      Verb = "assign"
)

var knownVerbs = map[Verb]struct{}{
	VerbSetup:       {},
	VerbQuit:        {},
	VerbClose:       {},
	VerbReopen:      {},
	VerbListRepos:   {},
	VerbListMembers: {},
	VerbChooseRepo:  {},
	VerbAssign:      {},
}

// issueVerbs carry the issue id as their argument.
var issueVerbs = []Verb{VerbQuit, VerbClose, VerbSetup, VerbReopen}

// ButtonAction is a decoded button tag.
type ButtonAction struct {
	Verb     Verb
	Argument string
}

// ParseAction decodes a button tag by splitting on the first delimiter.
func ParseAction(tag string) (ButtonAction, error) {
	verb, arg, _ := strings.Cut(tag, TagDelimiter)
	action := ButtonAction{Verb: Verb(verb), Argument: arg}
	if _, ok := knownVerbs[action.Verb]; !ok {
		return action, fmt.Errorf("%w: %q", ErrUnknownAction, tag)
	}
	return action, nil
}

// Tag encodes the action as a button tag.
func (a ButtonAction) Tag() (string, error) {
	tag := string(a.Verb)
	if a.Argument != "" {
		tag += TagDelimiter + a.Argument
	}
	if len(tag) > MaxTagLength {
		return "", fmt.Errorf("%w: %d bytes", ErrTagTooLong, len(tag))
	}
	return tag, nil
}

// IssueID returns the issue id carried by the action, if it is an
// issue-scoped verb with a real id.
func (a ButtonAction) IssueID() (string, bool) {
	for _, v := range issueVerbs {
		if a.Verb == v {
			if a.Argument == "" || a.Argument == StartArgument {
				return "", false
			}
			return a.Argument, true
		}
	}
	return "", false
}

// Tag builds a tag string for verb and argument without a length check. It
// is meant for fixed-size arguments such as node ids.
func Tag(verb Verb, arg string) string {
	if arg == "" {
		return string(verb)
	}
	return string(verb) + TagDelimiter + arg
}
