package domain

import "fmt"

// Answers is the catalogue of fixed texts the bot replies with.
type Answers struct {
	Start                 string `yaml:"start"`
	Help                  string `yaml:"help"`
	NoTitle               string `yaml:"no_title"`
	MarkdownGuideChat     string `yaml:"markdown_guide_tg"`
	MarkdownGuideMarkdown string `yaml:"markdown_guide_md"`
	Outdated              string `yaml:"outdated"`
}

// StartText returns the greeting for an organization.
func (a Answers) StartText(organization string) string {
	return fmt.Sprintf(a.Start, organization)
}

// HelpText returns the usage text for a bot mention.
func (a Answers) HelpText(mention string) string {
	return fmt.Sprintf(a.Help, mention)
}
