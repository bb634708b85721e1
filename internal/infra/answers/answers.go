// Package answers loads the catalogue of fixed reply texts.
package answers

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/runoshun/issuebot/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed answers.yaml
var builtin []byte

// Default returns the built-in catalogue.
func Default() domain.Answers {
	var a domain.Answers
	if err := yaml.Unmarshal(builtin, &a); err != nil {
		panic(fmt.Sprintf("built-in answers: %v", err))
	}
	return a
}

// Load returns the built-in catalogue with the entries of the YAML file at
// path laid over it. An empty path returns the built-in catalogue.
func Load(path string) (domain.Answers, error) {
	a := Default()
	if path == "" {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Answers{}, fmt.Errorf("read answers: %w", err)
	}
	var override domain.Answers
	if err := yaml.Unmarshal(data, &override); err != nil {
		return domain.Answers{}, fmt.Errorf("parse answers %s: %w", path, err)
	}

	overlay(&a.Start, override.Start)
	overlay(&a.Help, override.Help)
	overlay(&a.NoTitle, override.NoTitle)
	overlay(&a.MarkdownGuideChat, override.MarkdownGuideChat)
	overlay(&a.MarkdownGuideMarkdown, override.MarkdownGuideMarkdown)
	overlay(&a.Outdated, override.Outdated)
	return a, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
