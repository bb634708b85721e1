package cli

import (
	"fmt"
	"io"

	"github.com/runoshun/issuebot/internal/app"
	"github.com/runoshun/issuebot/internal/domain"
	"github.com/runoshun/issuebot/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newCardCommand creates the card command.
func newCardCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render and decode issue cards",
		Long: `Render and decode the card text the bot posts in chats.

Useful to check how a card looks before it is posted, or to see which
fields the bot reads back from a card copied out of a chat.`,
	}

	cmd.AddCommand(newCardRenderCommand(c))
	cmd.AddCommand(newCardParseCommand(c))

	return cmd
}

// newCardRenderCommand creates the card render subcommand.
func newCardRenderCommand(c *app.Container) *cobra.Command {
	var in usecase.RenderCardInput

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the card text for the given fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewRenderCard()
			if c != nil {
				uc = c.RenderCardUseCase()
			}
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Issue title (required)")
	cmd.Flags().StringVar(&in.Comment, "comment", "", "Comment shown below the card fields")
	cmd.Flags().StringVar(&in.IssueURL, "issue-url", "", "URL of the created issue")
	cmd.Flags().StringVar(&in.Assignee, "assignee", "", "Login of the assignee")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// cardFields is the printed form of a decoded card.
type cardFields struct {
	Format   int    `yaml:"format"`
	Title    string `yaml:"title"`
	IssueURL string `yaml:"issue_url,omitempty"`
	Repo     string `yaml:"repo,omitempty"`
	RepoURL  string `yaml:"repo_url,omitempty"`
	Assignee string `yaml:"assignee,omitempty"`
	Comment  string `yaml:"comment,omitempty"`
}

// newCardParseCommand creates the card parse subcommand.
func newCardParseCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Decode a card read from stdin",
		Long: `Decode a card read from stdin and print its fields as YAML.

The input is the card markup as the bot posted it (HTML).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read card: %w", err)
			}

			uc := usecase.NewDecodeCard()
			if c != nil {
				uc = c.DecodeCardUseCase()
			}
			out, err := uc.Execute(cmd.Context(), usecase.DecodeCardInput{Text: string(text)})
			if err != nil {
				return err
			}
			return writeCardFields(cmd.OutOrStdout(), out.Card)
		},
	}
}

func writeCardFields(w io.Writer, card *domain.IssueCard) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cardFields{
		Format:   domain.CardFormatVersion,
		Title:    card.Title,
		IssueURL: card.IssueURL,
		Repo:     card.RepoName,
		RepoURL:  card.RepoURL,
		Assignee: card.Assignee,
		Comment:  card.Comment,
	}); err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	return enc.Close()
}
