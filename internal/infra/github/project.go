package github

import (
	"context"
	"fmt"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/shurcooL/githubv4"
)

// AddToTriageBoard adds the issue to the configured project and sets its
// status column. Adding an issue that is already on the board returns the
// existing item, so the call is safe to repeat.
func (c *Client) AddToTriageBoard(ctx context.Context, issueID string) error {
	if c.triage.ProjectID == "" {
		return fmt.Errorf("github: triage project is not configured")
	}

	var added struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `graphql:"id"`
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	addInput := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(c.triage.ProjectID),
		ContentID: githubv4.ID(issueID),
	}
	if err := c.gql.Mutate(ctx, &added, addInput, nil); err != nil {
		return mapError("add project item", err)
	}
	itemID := added.AddProjectV2ItemByID.Item.ID
	if itemID == "" {
		return &domain.TrackerError{Reason: domain.ReasonNotFound, Message: "addProjectV2ItemById returned no item"}
	}

	var status struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string `graphql:"id"`
			} `graphql:"projectV2Item"`
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	statusInput := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(c.triage.ProjectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(c.triage.StatusFieldID),
		Value: githubv4.ProjectV2FieldValue{
			SingleSelectOptionID: githubv4.NewString(githubv4.String(c.triage.StatusOptionID)),
		},
	}
	if err := c.gql.Mutate(ctx, &status, statusInput, nil); err != nil {
		return mapError("set project status", err)
	}
	return nil
}
