package formatter

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/leandrosilvaferreira/gitai/internal/emoji"
	"gopkg.in/yaml.v3"
)

// Template names.
const (
	CommitTemplate  = "commit"
	ReleaseTemplate = "release"
)

// PromptTemplate is a system prompt plus a user prompt body rendered with
// text/template.
type PromptTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	System      string `yaml:"system"`
	Template    string `yaml:"template"`
}

// TemplateFile is the on-disk override format. Either section may be left
// out; missing fields keep their built-in values.
type TemplateFile struct {
	Commit  PromptTemplate `yaml:"commit"`
	Release PromptTemplate `yaml:"release"`
}

// CommitTemplateData feeds the commit template.
type CommitTemplateData struct {
	CommitTypes []emoji.CommitType
	Ecosystem   string
	BaseMessage string
	Diff        string
	Language    string
}

// ReleaseTemplateData feeds the release template.
type ReleaseTemplateData struct {
	OldTag     string
	NewVersion string
	Commits    string
	RepoURL    string
	Language   string
}

var builtinTemplates = map[string]PromptTemplate{
	CommitTemplate: {
		Name:        CommitTemplate,
		Description: "Conventional commit message from a diff and a short developer description",
		System: `You write commit messages for a Git repository.
Every message follows the Conventional Commits standard and uses ONLY these prefixes: feat, fix, docs, chore.
The description is concise and explains what changed, why it changed and, when relevant, the impact.
You work from the output of 'git diff' and a short description written by the developer.

Mandatory rules:
- Reply with the commit message and nothing else. No comments, no explanations.
- Do not wrap the message in ` + "```" + ` or any other markup.
- Do not start the reply with blank lines or whitespace.
- The first line starts with exactly one of: feat, fix, docs, chore.
- The second line is empty.
- From the third line on, explain the changes, the reason and the impact.

<output_format>
Line 1: [prefix]: [concise description]
Line 2: [empty line]
Line 3+: [detailed explanation]

Correct:
feat: add user authentication system

Implement JWT-based authentication with login and registration endpoints. Add middleware for route protection and session management. This improves application security and enables personalized user experiences.

Incorrect (all on one line):
feat: add user authentication system - Implement JWT-based authentication with login and registration endpoints...
</output_format>

Replies that do not follow these rules are rejected.`,
		Template: `Write a commit message for the changes below following the Conventional Commits standard.

The ONLY accepted prefixes for this project are:
{{- range .CommitTypes}}
    - {{.Name}}: {{.Description}}
{{- end}}

The project is written in {{.Ecosystem}}.

The developer described the change as: '{{.BaseMessage}}'
Use it as the starting point for the message.

Changes reported by 'git diff' (files touched and lines added, changed or removed):

` + "```" + `
{{.Diff}}
` + "```" + `

Turn the developer description into an objective commit message.

Mandatory rules:
- Follow the Conventional Commits standard.
- The first line starts with one of the EXACT prefixes above followed by a concise description of what was done.
- After the first line, explain the changes, the reason for them and, if applicable, their impact.
- Mention only the main modified files, by name and without their path.
- Do not add comments or explanations outside the commit message.
- Do not use ` + "```" + ` or any other formatting around the message.
- Do not add line breaks or whitespace before the message.
- Reply in the language '{{.Language}}'.

<output_format>
Line 1: [prefix]: [concise description]
Line 2: [empty line]
Line 3+: [detailed explanation of changes, reasons and impact]

Example:
feat: add defaultOrganizationName field to CreateUserDto

Add a defaultOrganizationName field to CreateUserDto so users can name their workspace. UserService uses the value as the workspace name, which gives users more control over personalization. Modified files include UserService.java and CreateUserDto.java.
</output_format>`,
	},
	ReleaseTemplate: {
		Name:        ReleaseTemplate,
		Description: "Markdown release notes from the commits since a tag",
		System: `You write release notes for a Git repository.
Commits are grouped into New, Fix and Other changes.
The output is markdown that follows the given model, with no comments or extra formatting.`,
		Template: `Below are the commits since the tag {{.OldTag}}.
Group them into these categories: New, Fix, Other changes.
Write release notes in markdown, in the language '{{.Language}}', using this model:

# Release {{.NewVersion}}
<SUMMARY/>

### New
- Description of the new features (commits).

### Fix
- Description of the fixes (commits).

### Other changes
- Description of the other changes (commits).

Thanks to everyone who contributed to this release! See the full changelog for details.

**Full Changelog:** [{{.NewVersion}} commits]({{.RepoURL}}/compare/{{.OldTag}}...{{.NewVersion}})

Commits:
{{if .Commits}}{{.Commits}}{{else}}(no commits since {{.OldTag}}){{end}}

Important rules:
- Write everything in the language '{{.Language}}'.
- Replace <SUMMARY/> with an objective and enthusiastic summary of the changes since {{.OldTag}}.
- Do not add comments or explanations.
- Do not wrap the notes in ` + "```" + `.
- Keep the notes clear, concise and well organized.
- Follow the model.

Replies that do not follow these rules are rejected.`,
	},
}

// GetPromptTemplate returns the named template. When overridePath is set,
// non-empty fields from that YAML file replace the built-in ones.
func GetPromptTemplate(name, overridePath string) (PromptTemplate, error) {
	tpl, ok := builtinTemplates[name]
	if !ok {
		return PromptTemplate{}, fmt.Errorf("unknown prompt template: %s", name)
	}
	if overridePath == "" {
		return tpl, nil
	}

	file, err := LoadTemplateFile(overridePath)
	if err != nil {
		return PromptTemplate{}, err
	}

	override := file.Commit
	if name == ReleaseTemplate {
		override = file.Release
	}
	if override.System != "" {
		tpl.System = override.System
	}
	if override.Template != "" {
		tpl.Template = override.Template
	}
	if override.Description != "" {
		tpl.Description = override.Description
	}
	return tpl, nil
}

// LoadTemplateFile reads a YAML override file.
func LoadTemplateFile(path string) (TemplateFile, error) {
	var file TemplateFile
	content, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("unable to read template file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, &file); err != nil {
		return file, fmt.Errorf("invalid template file %s: %w", path, err)
	}
	return file, nil
}

func RenderTemplate(templateContent string, data any) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("template parsing error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template rendering error: %w", err)
	}

	return buf.String(), nil
}

// GetBuiltinTemplates returns a copy of the built-in templates.
func GetBuiltinTemplates() map[string]PromptTemplate {
	templates := make(map[string]PromptTemplate, len(builtinTemplates))
	for name, tpl := range builtinTemplates {
		templates[name] = tpl
	}
	return templates
}
