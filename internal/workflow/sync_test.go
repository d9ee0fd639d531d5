package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/formatter"
	"github.com/leandrosilvaferreira/gitai/internal/git"
	"github.com/leandrosilvaferreira/gitai/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generated = "fix: correct greeting\n\nAdds the missing line to README.md."

func newTestFlow(g *fakeGit, s *fakeSynth, opts SyncOptions) (*SyncFlow, *recordingReporter) {
	reporter := &recordingReporter{}
	flow := NewSyncFlow(g, s, reporter, opts)
	flow.SetClassifier(func(string) project.Ecosystem { return project.Go })
	return flow, reporter
}

func TestSyncCleanTreeWithoutPush(t *testing.T) {
	g := &fakeGit{statuses: []string{""}}
	s := &fakeSynth{message: generated}
	flow, _ := newTestFlow(g, s, SyncOptions{ProjectPath: "/repo", BaseMessage: "fix bug"})

	outcome, err := flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "pull", "status"}, g.calls)
	assert.Zero(t, g.count("commit"))
	assert.Zero(t, g.count("push"))
	assert.Empty(t, s.requests)
	assert.Equal(t, Outcome{}, outcome)
}

func TestSyncDirtyTreeCommitsBeforePull(t *testing.T) {
	g := &fakeGit{statuses: []string{" M README.md", ""}, diff: "+added line"}
	s := &fakeSynth{message: generated}
	flow, reporter := newTestFlow(g, s, SyncOptions{ProjectPath: "/repo", BaseMessage: "fix bug", Language: "en"})

	outcome, err := flow.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, s.requests, 1)
	req := s.requests[0]
	assert.Contains(t, req.ChangeSummary, "+added line")
	assert.Contains(t, req.ChangeSummary, " M README.md")
	assert.Equal(t, "fix bug", req.BaseMessage)
	assert.Equal(t, "Go", req.Ecosystem)
	assert.Equal(t, "en", req.Language)

	assert.Equal(t, []string{"status", "diff", "add", "commit", "pull", "status"}, g.calls)
	require.Len(t, g.commits, 1)
	assert.Equal(t, generated, g.commits[0])
	assert.True(t, formatter.IsConventional(g.commits[0]))
	assert.True(t, outcome.PreCommitted)
	assert.False(t, outcome.PostCommitted)
	assert.Equal(t, []string{generated}, reporter.messages)
	assert.Contains(t, reporter.lines, "info: 🐹 Detected language: Go")
}

func TestSyncPostPullChangesUseFixedBaseMessage(t *testing.T) {
	g := &fakeGit{statuses: []string{"", "UU main.go"}, diff: "<<<<<<< HEAD"}
	s := &fakeSynth{message: generated}
	flow, _ := newTestFlow(g, s, SyncOptions{ProjectPath: "/repo", BaseMessage: "fix bug"})

	outcome, err := flow.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, s.requests, 1)
	assert.Equal(t, PostPullMessage, s.requests[0].BaseMessage)
	assert.Equal(t, []string{"status", "pull", "status", "diff", "add", "commit"}, g.calls)
	assert.False(t, outcome.PreCommitted)
	assert.True(t, outcome.PostCommitted)
}

func TestSyncPullConflictHalts(t *testing.T) {
	conflict := "Auto-merging README.md\nCONFLICT (content): Merge conflict in README.md\nAutomatic merge failed; fix conflicts and then commit the result."
	g := &fakeGit{
		statuses: []string{"", "UU README.md"},
		pull:     git.PullResult{Output: conflict, ExitCode: 1},
	}
	s := &fakeSynth{message: generated}
	flow, _ := newTestFlow(g, s, SyncOptions{ProjectPath: "/repo", BaseMessage: "fix bug", Push: true})

	_, err := flow.Run(context.Background())
	require.Error(t, err)

	var conflictErr *errs.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, conflict, conflictErr.Output)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, errs.ExitFailure, errs.ExitCode(err))

	assert.Equal(t, []string{"status", "pull"}, g.calls)
	assert.Zero(t, g.count("add"))
	assert.Zero(t, g.count("commit"))
	assert.Zero(t, g.count("push"))
}

func TestSyncPullFailureWithoutConflictIsCommandError(t *testing.T) {
	g := &fakeGit{pull: git.PullResult{Output: "fatal: unable to access remote", ExitCode: 128}}
	flow, _ := newTestFlow(g, &fakeSynth{}, SyncOptions{ProjectPath: "/repo"})

	_, err := flow.Run(context.Background())

	var cmdErr *errs.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "git pull", cmdErr.Command)
	assert.Equal(t, 128, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Output(), "unable to access remote")
	assert.False(t, errs.IsConflict(err))
}

func TestSyncPushGate(t *testing.T) {
	tests := []struct {
		name       string
		upstream   git.RepositoryState
		wantPushes int
		wantReason string
	}{
		{
			name:       "ahead from status text",
			upstream:   git.RepositoryState{IsAhead: true, StatusText: "Your branch is ahead of 'origin/main' by 1 commit."},
			wantPushes: 1,
		},
		{
			name:       "ahead from rev-list counts",
			upstream:   git.RepositoryState{Structural: true, Ahead: 2, IsAhead: true},
			wantPushes: 1,
		},
		{
			name:       "up to date",
			upstream:   git.RepositoryState{StatusText: "Your branch is up to date with 'origin/main'."},
			wantReason: PushSkippedUpToDate,
		},
		{
			name:       "diverged",
			upstream:   git.RepositoryState{Structural: true, Ahead: 1, Behind: 1, Diverged: true},
			wantReason: PushSkippedDiverged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGit{upstream: tt.upstream}
			flow, _ := newTestFlow(g, &fakeSynth{}, SyncOptions{ProjectPath: "/repo", Push: true})

			outcome, err := flow.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantPushes, g.count("push"))
			assert.Equal(t, tt.wantPushes == 1, outcome.Pushed)
			assert.Equal(t, tt.wantReason, outcome.PushSkippedReason)
		})
	}
}

func TestSyncNoPushWithoutFlag(t *testing.T) {
	g := &fakeGit{upstream: git.RepositoryState{IsAhead: true}}
	flow, _ := newTestFlow(g, &fakeSynth{}, SyncOptions{ProjectPath: "/repo"})

	_, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, g.count("upstream"))
	assert.Zero(t, g.count("push"))
}

func TestSyncPushFailure(t *testing.T) {
	g := &fakeGit{
		upstream: git.RepositoryState{IsAhead: true},
		pushErr:  &errs.CommandError{Command: "git push", Stderr: "rejected", ExitCode: 1},
	}
	flow, _ := newTestFlow(g, &fakeSynth{}, SyncOptions{ProjectPath: "/repo", Push: true})

	outcome, err := flow.Run(context.Background())
	var cmdErr *errs.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "rejected", cmdErr.Stderr)
	assert.False(t, outcome.Pushed)
}

func TestSyncCommitRetriesWhenHooksModifyFiles(t *testing.T) {
	hookErr := &errs.CommandError{Command: "git commit -F msg", Stderr: "files were modified by this hook", ExitCode: 1}
	g := &fakeGit{
		// pre-pull dirty check, status after failed commit, post-pull check
		statuses:   []string{" M main.go", "M  main.go\n M main.go", ""},
		diff:       "+x",
		commitErrs: []error{hookErr},
	}
	flow, reporter := newTestFlow(g, &fakeSynth{message: generated}, SyncOptions{ProjectPath: "/repo"})

	outcome, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, g.count("commit"))
	assert.Equal(t, 2, g.count("add"))
	assert.True(t, outcome.PreCommitted)
	assert.Contains(t, reporter.lines, "warning: Commit hooks modified files, staging them and retrying (attempt 2 of 3).")
}

func TestSyncCommitRetryIsBounded(t *testing.T) {
	hookErr := &errs.CommandError{Command: "git commit", ExitCode: 1}
	g := &fakeGit{
		statuses:   []string{" M main.go"},
		diff:       "+x",
		commitErrs: []error{hookErr, hookErr, hookErr, hookErr},
	}
	flow, _ := newTestFlow(g, &fakeSynth{message: generated}, SyncOptions{ProjectPath: "/repo"})

	_, err := flow.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, MaxCommitAttempts, g.count("commit"))
	assert.Zero(t, g.count("pull"))
}

func TestSyncCommitFailureWithoutHookChangesIsFatal(t *testing.T) {
	commitErr := &errs.CommandError{Command: "git commit", Stderr: "gpg failed to sign the data", ExitCode: 128}
	g := &fakeGit{
		statuses:   []string{" M main.go", "M  main.go"},
		diff:       "+x",
		commitErrs: []error{commitErr},
	}
	flow, _ := newTestFlow(g, &fakeSynth{message: generated}, SyncOptions{ProjectPath: "/repo"})

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, 1, g.count("commit"))
	assert.Zero(t, g.count("pull"))
}

func TestSyncProviderFailureIsFatal(t *testing.T) {
	providerErr := &errs.ProviderError{Provider: "openai", Cause: errors.New("timeout")}
	g := &fakeGit{statuses: []string{" M main.go"}, diff: "+x"}
	flow, _ := newTestFlow(g, &fakeSynth{err: providerErr}, SyncOptions{ProjectPath: "/repo"})

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, providerErr)
	assert.Zero(t, g.count("add"))
	assert.Zero(t, g.count("commit"))
	assert.Zero(t, g.count("pull"))
}

func TestSyncNonConventionalMessageIsCommittedVerbatim(t *testing.T) {
	message := "Update things"
	g := &fakeGit{statuses: []string{" M main.go", ""}, diff: "+x"}
	flow, reporter := newTestFlow(g, &fakeSynth{message: message}, SyncOptions{ProjectPath: "/repo"})

	_, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{message}, g.commits)
	assert.Contains(t, reporter.lines,
		"warning: The generated message does not start with feat:, fix:, docs: or chore:, committing it as is.")
}

func TestSyncDryRun(t *testing.T) {
	g := &fakeGit{statuses: []string{" M main.go"}, diff: "+x"}
	s := &fakeSynth{message: generated}
	flow, _ := newTestFlow(g, s, SyncOptions{ProjectPath: "/repo", Push: true, DryRun: true})

	outcome, err := flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "diff"}, g.calls)
	assert.Equal(t, []string{generated}, outcome.Messages)
	assert.False(t, outcome.PreCommitted)
	assert.Equal(t, PushSkippedDryRun, outcome.PushSkippedReason)
}

func TestSyncStatusErrorIsFatal(t *testing.T) {
	statusErr := &errs.CommandError{Command: "git status --porcelain", Stderr: "fatal: not a git repository", ExitCode: 128}
	g := &fakeGit{statusErr: statusErr}
	flow, _ := newTestFlow(g, &fakeSynth{}, SyncOptions{ProjectPath: "/tmp"})

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, statusErr)
	assert.Equal(t, []string{"status"}, g.calls)
}

func TestChangeSummary(t *testing.T) {
	assert.Equal(t, "+a\n\ngit status --porcelain:\n M a.txt", changeSummary("+a\n", " M a.txt\n"))
	assert.Equal(t, "git status --porcelain:\n?? new.txt", changeSummary("", "?? new.txt"))
}
