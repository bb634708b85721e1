package github

import (
	"context"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/shurcooL/githubv4"
)

type pageInfo struct {
	StartCursor     githubv4.String
	EndCursor       githubv4.String
	HasPreviousPage githubv4.Boolean
	HasNextPage     githubv4.Boolean
}

func (p pageInfo) toDomain() domain.PageInfo {
	return domain.PageInfo{
		StartCursor:     string(p.StartCursor),
		EndCursor:       string(p.EndCursor),
		HasPreviousPage: bool(p.HasPreviousPage),
		HasNextPage:     bool(p.HasNextPage),
	}
}

// issueFields is the selection shared by every issue mutation result.
type issueFields struct {
	ID        string `graphql:"id"`
	URL       string `graphql:"url"`
	Title     string
	Body      string
	Assignees struct {
		Nodes []struct {
			Login string
		}
	} `graphql:"assignees(first: 1)"`
}

func (i issueFields) ref(op string) (*domain.IssueRef, error) {
	if i.ID == "" {
		return nil, &domain.TrackerError{Reason: domain.ReasonNotFound, Message: op + " returned no issue"}
	}
	ref := &domain.IssueRef{ID: i.ID, URL: i.URL, Title: i.Title, Body: i.Body}
	if len(i.Assignees.Nodes) > 0 {
		ref.Assignee = i.Assignees.Nodes[0].Login
	}
	return ref, nil
}

// pageVariables builds the connection arguments for a cursor. Unset
// arguments are sent as null.
func (c *Client) pageVariables(page domain.PageCursor) map[string]any {
	size := githubv4.Int(c.pageSize)
	vars := map[string]any{
		"org":    githubv4.String(c.organization),
		"first":  (*githubv4.Int)(nil),
		"last":   (*githubv4.Int)(nil),
		"after":  (*githubv4.String)(nil),
		"before": (*githubv4.String)(nil),
	}
	switch {
	case page.IsStart():
		vars["first"] = &size
	case page.Direction == domain.DirectionBefore:
		vars["last"] = &size
		vars["before"] = githubv4.NewString(githubv4.String(page.Cursor))
	default:
		vars["first"] = &size
		vars["after"] = githubv4.NewString(githubv4.String(page.Cursor))
	}
	return vars
}

// ListRepositories returns one page of organization repositories in the
// API's default order, whose cursors are short enough to fit a button tag.
func (c *Client) ListRepositories(ctx context.Context, page domain.PageCursor) (*domain.RepoPage, error) {
	var q struct {
		Organization struct {
			Repositories struct {
				Nodes []struct {
					ID   string `graphql:"id"`
					Name string
				}
				PageInfo pageInfo
			} `graphql:"repositories(first: $first, last: $last, after: $after, before: $before)"`
		} `graphql:"organization(login: $org)"`
	}
	if err := c.gql.Query(ctx, &q, c.pageVariables(page)); err != nil {
		return nil, mapError("list repositories", err)
	}

	conn := q.Organization.Repositories
	out := &domain.RepoPage{Page: conn.PageInfo.toDomain()}
	for _, n := range conn.Nodes {
		out.Items = append(out.Items, domain.RepoRef{ID: n.ID, Name: n.Name})
	}
	return out, nil
}

// ListMembers returns one page of organization members.
func (c *Client) ListMembers(ctx context.Context, page domain.PageCursor) (*domain.MemberPage, error) {
	var q struct {
		Organization struct {
			Members struct {
				Nodes []struct {
					ID    string `graphql:"id"`
					Login string
				}
				PageInfo pageInfo
			} `graphql:"membersWithRole(first: $first, last: $last, after: $after, before: $before)"`
		} `graphql:"organization(login: $org)"`
	}
	if err := c.gql.Query(ctx, &q, c.pageVariables(page)); err != nil {
		return nil, mapError("list members", err)
	}

	conn := q.Organization.Members
	out := &domain.MemberPage{Page: conn.PageInfo.toDomain()}
	for _, n := range conn.Nodes {
		out.Items = append(out.Items, domain.MemberRef{ID: n.ID, Login: n.Login})
	}
	return out, nil
}

// CreateIssue opens an issue in the repository.
func (c *Client) CreateIssue(ctx context.Context, repoID, title, body string) (*domain.IssueRef, error) {
	var m struct {
		CreateIssue struct {
			Issue issueFields
		} `graphql:"createIssue(input: $input)"`
	}
	input := githubv4.CreateIssueInput{
		RepositoryID: githubv4.ID(repoID),
		Title:        githubv4.String(title),
	}
	if body != "" {
		input.Body = githubv4.NewString(githubv4.String(body))
	}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return nil, mapError("create issue", err)
	}
	return m.CreateIssue.Issue.ref("createIssue")
}

// TransferIssue moves the issue to another repository. The returned
// reference carries the new id and URL and the assignee kept by GitHub.
func (c *Client) TransferIssue(ctx context.Context, repoID, issueID string) (*domain.IssueRef, error) {
	var m struct {
		TransferIssue struct {
			Issue issueFields
		} `graphql:"transferIssue(input: $input)"`
	}
	input := githubv4.TransferIssueInput{
		IssueID:      githubv4.ID(issueID),
		RepositoryID: githubv4.ID(repoID),
	}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return nil, mapError("transfer issue", err)
	}
	return m.TransferIssue.Issue.ref("transferIssue")
}

// SetAssignee replaces the issue assignees with one user and returns the
// login GitHub reports.
func (c *Client) SetAssignee(ctx context.Context, issueID, userID string) (string, error) {
	var m struct {
		UpdateIssue struct {
			Issue issueFields
		} `graphql:"updateIssue(input: $input)"`
	}
	assignees := []githubv4.ID{githubv4.ID(userID)}
	input := githubv4.UpdateIssueInput{
		ID:          githubv4.ID(issueID),
		AssigneeIDs: &assignees,
	}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return "", mapError("set assignee", err)
	}
	ref, err := m.UpdateIssue.Issue.ref("updateIssue")
	if err != nil {
		return "", err
	}
	return ref.Assignee, nil
}

// CloseIssue closes the issue.
func (c *Client) CloseIssue(ctx context.Context, issueID string) error {
	var m struct {
		CloseIssue struct {
			Issue struct {
				ID string `graphql:"id"`
			}
		} `graphql:"closeIssue(input: $input)"`
	}
	input := githubv4.CloseIssueInput{IssueID: githubv4.ID(issueID)}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return mapError("close issue", err)
	}
	if m.CloseIssue.Issue.ID == "" {
		return &domain.TrackerError{Reason: domain.ReasonNotFound, Message: "closeIssue returned no issue"}
	}
	return nil
}

// ReopenIssue reopens the issue and returns its current title, body and
// assignee.
func (c *Client) ReopenIssue(ctx context.Context, issueID string) (*domain.IssueRef, error) {
	var m struct {
		ReopenIssue struct {
			Issue issueFields
		} `graphql:"reopenIssue(input: $input)"`
	}
	input := githubv4.ReopenIssueInput{IssueID: githubv4.ID(issueID)}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return nil, mapError("reopen issue", err)
	}
	return m.ReopenIssue.Issue.ref("reopenIssue")
}
