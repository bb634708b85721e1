package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/issuebot/internal/domain"
)

// RenderCardInput contains the fields of the card to render.
type RenderCardInput struct {
	Title    string
	Comment  string
	IssueURL string // optional; the repository is derived from it
	Assignee string // optional login
}

// RenderCardOutput contains the rendered card.
type RenderCardOutput struct {
	Card *domain.IssueCard
	Text string
}

// RenderCard builds a card from fields and renders its chat text.
type RenderCard struct{}

// NewRenderCard creates a new RenderCard use case.
func NewRenderCard() *RenderCard {
	return &RenderCard{}
}

// Execute renders the card.
func (uc *RenderCard) Execute(_ context.Context, in RenderCardInput) (*RenderCardOutput, error) {
	if strings.Contains(in.Title, "\n") {
		return nil, fmt.Errorf("title must be a single line")
	}
	text := in.Title
	if in.Comment != "" {
		text += "\n" + in.Comment
	}
	card, err := domain.ParseCard(domain.CardSource{Mention: text})
	if err != nil {
		return nil, fmt.Errorf("build card: %w", err)
	}
	if in.IssueURL != "" {
		card.SetIssueReference(in.IssueURL)
	}
	card.SetAssignee(in.Assignee)
	return &RenderCardOutput{Card: card, Text: card.Render()}, nil
}

// DecodeCardInput contains a rendered card text.
type DecodeCardInput struct {
	Text string
}

// DecodeCardOutput contains the decoded card.
type DecodeCardOutput struct {
	Card *domain.IssueCard
}

// DecodeCard decodes a rendered card back into its fields.
type DecodeCard struct{}

// NewDecodeCard creates a new DecodeCard use case.
func NewDecodeCard() *DecodeCard {
	return &DecodeCard{}
}

// Execute decodes the card.
func (uc *DecodeCard) Execute(_ context.Context, in DecodeCardInput) (*DecodeCardOutput, error) {
	card, err := domain.ParseCard(domain.CardSource{Rendered: strings.TrimRight(in.Text, "\n")})
	if err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	return &DecodeCardOutput{Card: card}, nil
}
