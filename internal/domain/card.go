// Package domain contains the issue card, button actions and the ports to the
// chat and the tracker.
package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Card line markers. The rendered card is line-ordered: title, repo,
// assignee, then an optional comment block. ParseCard recovers fields by
// that fixed position, so any change here changes the card format.
const (
	TitleMarker    = "🏷 "
	RepoMarker     = "🗄 "
	NoRepoMarker   = "⚠️ "
	AssigneeMarker = "👤 "

	NoRepoText     = "No repo"
	NoAssignedText = "No assigned"

	// CardFormatVersion identifies the line schema above.
	CardFormatVersion = 1
)

// issueTitlePattern matches a title line that is exactly one link to an
// issue. Any other title line is kept verbatim, links included.
var issueTitlePattern = regexp.MustCompile(`^<a href="([^"]+/issues/[^"]+)">(.*)</a>$`)

const (
	lineTitle = iota
	lineRepo
	lineAssignee
	lineComment
)

// GitHubBaseURL is the prefix used to build profile links for assignees.
const GitHubBaseURL = "https://github.com"

// IssueCard is the structured state of one issue-in-progress. The chat
// message text is its only persisted form.
type IssueCard struct {
	Title       string
	IssueURL    string // empty until the issue is created or transferred
	RepoName    string
	RepoURL     string // empty until a repository is chosen
	Assignee    string
	AssigneeURL string // empty until a member is assigned
	Comment     string
}

// CardSource selects how a card is constructed. Exactly one field must be
// set.
type CardSource struct {
	Mention  string // user text with the bot mention stripped
	Rendered string // the bot's own prior card text
	Reopened string // a single title line holding the issue link
}

// ParseCard builds a card from exactly one source.
func ParseCard(src CardSource) (*IssueCard, error) {
	set := 0
	for _, s := range []string{src.Mention, src.Rendered, src.Reopened} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		return nil, ErrConflictingSources
	}
	switch {
	case src.Mention != "":
		return CardFromMention(src.Mention)
	case src.Rendered != "":
		return CardFromRendered(src.Rendered)
	case src.Reopened != "":
		return CardFromReopened(src.Reopened)
	default:
		return nil, ErrEmptyTitle
	}
}

// CardFromMention builds a draft card from user text. The first line is the
// title, the remaining lines are the comment.
func CardFromMention(text string) (*IssueCard, error) {
	text = Normalize(text)
	title, comment, _ := strings.Cut(text, "\n")
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	return &IssueCard{Title: title, Comment: comment}, nil
}

// CardFromRendered decodes a card previously produced by Render. Missing or
// undecorated lines leave the matching fields absent; only a card with no
// title at all is rejected.
func CardFromRendered(text string) (*IssueCard, error) {
	lines := strings.Split(Normalize(text), "\n")
	card := &IssueCard{}

	card.Title, card.IssueURL = splitTitleLine(strings.TrimPrefix(lines[lineTitle], TitleMarker))
	if strings.TrimSpace(card.Title) == "" {
		return nil, fmt.Errorf("%w: no title line", ErrMalformedCard)
	}

	if len(lines) > lineRepo {
		repo := strings.TrimPrefix(lines[lineRepo], RepoMarker)
		repo = strings.TrimPrefix(repo, NoRepoMarker)
		if url, label, ok := ExtractLink(repo); ok {
			card.RepoURL, card.RepoName = url, label
		}
	}
	if len(lines) > lineAssignee {
		assignee := strings.TrimPrefix(lines[lineAssignee], AssigneeMarker)
		if url, label, ok := ExtractLink(assignee); ok {
			card.AssigneeURL, card.Assignee = url, label
		}
	}
	if len(lines) > lineComment {
		card.Comment = strings.Join(lines[lineComment:], "\n")
	}
	return card, nil
}

// splitTitleLine separates the issue link from a rendered title line.
func splitTitleLine(line string) (title, issueURL string) {
	m := issueTitlePattern.FindStringSubmatch(line)
	if m == nil || strings.Contains(m[2], "</a>") {
		return line, ""
	}
	return m[2], m[1]
}

// CardFromReopened builds a card from a title fragment holding the issue
// link; the repository is derived from the issue URL.
func CardFromReopened(fragment string) (*IssueCard, error) {
	url, title, ok := ExtractLink(fragment)
	if !ok || title == "" {
		return nil, fmt.Errorf("%w: reopened title has no issue link", ErrMalformedCard)
	}
	card := &IssueCard{Title: title}
	card.SetIssueReference(url)
	return card, nil
}

// SetIssueReference records the issue URL and derives the repository from
// its path (.../<org>/<repo>/issues/<n>).
func (c *IssueCard) SetIssueReference(issueURL string) {
	c.IssueURL = issueURL
	c.RepoURL, c.RepoName = RepoFromIssueURL(issueURL)
}

// SetAssignee records the assignee login and its profile URL. An empty
// login clears the assignee.
func (c *IssueCard) SetAssignee(login string) {
	if login == "" {
		c.Assignee, c.AssigneeURL = "", ""
		return
	}
	c.Assignee = login
	c.AssigneeURL = GitHubBaseURL + "/" + login
}

// HasIssue reports whether the remote issue exists.
func (c *IssueCard) HasIssue() bool {
	return c.IssueURL != ""
}

// Render returns the canonical card text.
func (c *IssueCard) Render() string {
	var b strings.Builder
	b.WriteString(TitleMarker)
	if c.IssueURL != "" {
		b.WriteString(htmlLink(c.IssueURL, c.Title))
	} else {
		b.WriteString(c.Title)
	}

	b.WriteString("\n")
	if c.RepoURL != "" {
		b.WriteString(RepoMarker + htmlLink(c.RepoURL, c.RepoName))
	} else {
		b.WriteString(NoRepoMarker + NoRepoText)
	}

	b.WriteString("\n" + AssigneeMarker)
	if c.AssigneeURL != "" {
		b.WriteString(htmlLink(c.AssigneeURL, c.Assignee))
	} else {
		b.WriteString(NoAssignedText)
	}

	if c.Comment != "" {
		b.WriteString("\n" + c.Comment)
	}
	return b.String()
}

// CloseMessage returns the text that replaces the card once the issue is
// closed.
func (c *IssueCard) CloseMessage(closer string) string {
	return fmt.Sprintf("Issue %s closed by %s", htmlLink(c.IssueURL, c.Title), closer)
}

// TrackerBody returns the issue body sent to the tracker: the comment with
// code spans converted, followed by an attribution footer.
func (c *IssueCard) TrackerBody(author, messageLink string) string {
	return InlineCodeToFenced(c.Comment) + BodyFooterPrefix + author + " via " + messageLink
}

// BodyFooterPrefix starts the attribution footer of an issue body.
const BodyFooterPrefix = "\n> Issue open by "

// StripBodyFooter removes the attribution footer from an issue body.
func StripBodyFooter(body string) string {
	before, _, _ := strings.Cut(body, BodyFooterPrefix)
	return before
}

// RepoFromIssueURL derives the repository URL and name from an issue URL.
// Both are empty when the URL does not have the issues path shape.
func RepoFromIssueURL(issueURL string) (repoURL, repoName string) {
	repoURL, _, ok := strings.Cut(issueURL, "/issues/")
	if !ok {
		return "", ""
	}
	i := strings.LastIndex(repoURL, "/")
	if i < 0 {
		return "", ""
	}
	return repoURL, repoURL[i+1:]
}

func htmlLink(url, label string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, url, label)
}
