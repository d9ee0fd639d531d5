// Package workflow holds the commit/pull/push state machine, the commit
// message synthesizer and the release notes generator.
package workflow

import (
	"context"

	"github.com/leandrosilvaferreira/gitai/internal/git"
)

// GitClient is the subset of the version-control gateway the sync flow uses.
type GitClient interface {
	StatusShort(ctx context.Context) (string, error)
	Diff(ctx context.Context) (string, error)
	AddAll(ctx context.Context) error
	CommitWithMessage(ctx context.Context, message string) error
	Pull(ctx context.Context) (git.PullResult, error)
	Upstream(ctx context.Context) (git.RepositoryState, error)
	Push(ctx context.Context) error
}

// HistoryClient is the subset of the gateway the release flow uses.
type HistoryClient interface {
	LogSince(ctx context.Context, tag string) ([]git.CommitInfo, error)
	RemoteURL(ctx context.Context) string
}

// MessageSynthesizer produces a commit message for a change set.
type MessageSynthesizer interface {
	Synthesize(ctx context.Context, req PromptRequest) (string, error)
}

// Reporter receives user-facing progress lines. *ui.Reporter implements it.
type Reporter interface {
	Success(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Git(format string, args ...any)
	AI(format string, args ...any)
	CommitMessage(message string)
}
