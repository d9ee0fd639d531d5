package emoji

import (
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/project"
)

// CommitType is one of the prefixes a generated commit message may open with.
type CommitType struct {
	Name        string
	Description string
	Emoji       string
}

// commitTypes is the closed prefix taxonomy, in the order shown to the model.
var commitTypes = []CommitType{
	{Name: "feat", Description: "A new feature", Emoji: "✨"},
	{Name: "fix", Description: "A bug fix", Emoji: "🐛"},
	{Name: "docs", Description: "Documentation changes", Emoji: "📝"},
	{Name: "chore", Description: "Maintenance changes or minor fixes that do not alter functionality", Emoji: "🔧"},
}

var ecosystemEmojis = map[project.Ecosystem]string{
	project.NodeJS:     "🟢",
	project.Python:     "🐍",
	project.Java:       "☕",
	project.Go:         "🐹",
	project.PHP:        "🐘",
	project.Ruby:       "💎",
	project.Rust:       "🦀",
	project.Haskell:    "🎩",
	project.Swift:      "🍎",
	project.Elixir:     "💧",
	project.Dart:       "🎯",
	project.Scala:      "⚖️",
	project.Perl:       "🐪",
	project.R:          "📊",
	project.CSharp:     "🔷",
	project.Kotlin:     "🟣",
	project.CCpp:       "⚙️",
	project.JavaScript: "🟨",
	project.TypeScript: "🔷",
	project.Unknown:    "❓",
}

// GetCommitTypes returns the allowed commit types in display order.
func GetCommitTypes() []CommitType {
	types := make([]CommitType, len(commitTypes))
	copy(types, commitTypes)
	return types
}

// GetCommitTypeNames returns just the prefixes, e.g. "feat".
func GetCommitTypeNames() []string {
	names := make([]string, 0, len(commitTypes))
	for _, t := range commitTypes {
		names = append(names, t.Name)
	}
	return names
}

// GetCommitTypesRegexPattern returns an alternation matching every prefix.
func GetCommitTypesRegexPattern() string {
	return strings.Join(GetCommitTypeNames(), "|")
}

// GetEmojiForType returns the emoji for a commit type, or "" if unknown.
func GetEmojiForType(commitType string) string {
	for _, t := range commitTypes {
		if t.Name == strings.ToLower(commitType) {
			return t.Emoji
		}
	}
	return ""
}

// ForEcosystem returns the console emoji for a detected ecosystem.
func ForEcosystem(eco project.Ecosystem) string {
	if e, ok := ecosystemEmojis[eco]; ok {
		return e
	}
	return ecosystemEmojis[project.Unknown]
}
