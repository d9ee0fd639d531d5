// Package formatter renders the prompts sent to the text-generation provider
// and checks generated commit messages against the expected shape.
package formatter

import (
	"regexp"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/emoji"
)

// DefaultRepoURL is used in the changelog link when the repository has no
// origin remote.
const DefaultRepoURL = "https://github.com/leandrosilvaferreira/gitai"

var conventionalPattern = regexp.MustCompile(`^(` + emoji.GetCommitTypesRegexPattern() + `): .+`)

// Prompt is a rendered system and user message pair.
type Prompt struct {
	System string
	User   string
}

// BuildCommitPrompt renders the commit template. The diff is embedded
// verbatim. CommitTypes defaults to the full prefix set.
func BuildCommitPrompt(overridePath string, data CommitTemplateData) (Prompt, error) {
	if len(data.CommitTypes) == 0 {
		data.CommitTypes = emoji.GetCommitTypes()
	}
	return build(CommitTemplate, overridePath, data)
}

// BuildReleasePrompt renders the release template.
func BuildReleasePrompt(overridePath string, data ReleaseTemplateData) (Prompt, error) {
	if data.RepoURL == "" {
		data.RepoURL = DefaultRepoURL
	}
	return build(ReleaseTemplate, overridePath, data)
}

func build(name, overridePath string, data any) (Prompt, error) {
	tpl, err := GetPromptTemplate(name, overridePath)
	if err != nil {
		return Prompt{}, err
	}
	system, err := RenderTemplate(tpl.System, data)
	if err != nil {
		return Prompt{}, err
	}
	user, err := RenderTemplate(tpl.Template, data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: strings.TrimSpace(system), User: strings.TrimSpace(user)}, nil
}

// IsConventional reports whether the first line of message carries one of
// the accepted prefixes. Messages are used verbatim either way.
func IsConventional(message string) bool {
	firstLine, _, _ := strings.Cut(message, "\n")
	return conventionalPattern.MatchString(firstLine)
}

