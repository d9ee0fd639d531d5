package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/emoji"
	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/formatter"
	"github.com/leandrosilvaferreira/gitai/internal/git"
	"github.com/leandrosilvaferreira/gitai/internal/project"
	"go.uber.org/zap"
)

// PostPullMessage is the base message for changes found after a pull.
const PostPullMessage = "Resolving conflicts after git pull"

// MaxCommitAttempts bounds re-staging after commit hooks rewrite files.
const MaxCommitAttempts = 3

// Reasons a requested push did not happen.
const (
	PushSkippedUpToDate = "local branch is synchronized with the remote"
	PushSkippedDiverged = "local and remote branches have diverged"
	PushSkippedDryRun   = "dry run"
)

type SyncOptions struct {
	ProjectPath string
	BaseMessage string
	Language    string
	Push        bool
	DryRun      bool
}

// Outcome reports what a run did.
type Outcome struct {
	PreCommitted      bool
	PostCommitted     bool
	Pushed            bool
	PushSkippedReason string
	// Messages holds every synthesized message in order, including dry runs.
	Messages []string
}

// SyncFlow runs commit, pull, commit again and optionally push against one
// working tree.
type SyncFlow struct {
	git      GitClient
	synth    MessageSynthesizer
	reporter Reporter
	classify func(root string) project.Ecosystem
	logger   *zap.Logger
	opts     SyncOptions
}

func NewSyncFlow(gitClient GitClient, synth MessageSynthesizer, reporter Reporter, opts SyncOptions) *SyncFlow {
	return &SyncFlow{
		git:      gitClient,
		synth:    synth,
		reporter: reporter,
		classify: project.Classify,
		logger:   zap.NewNop(),
		opts:     opts,
	}
}

// SetLogger replaces the no-op diagnostic logger.
func (f *SyncFlow) SetLogger(logger *zap.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// SetClassifier replaces project.Classify.
func (f *SyncFlow) SetClassifier(classify func(root string) project.Ecosystem) {
	f.classify = classify
}

// Run executes the workflow. Every decision re-queries the repository.
// A pull conflict returns *errs.ConflictError and nothing further happens.
func (f *SyncFlow) Run(ctx context.Context) (Outcome, error) {
	var outcome Outcome

	committed, err := f.commitIfDirty(ctx, f.opts.BaseMessage, &outcome)
	if err != nil {
		return outcome, err
	}
	outcome.PreCommitted = committed
	if !committed && len(outcome.Messages) == 0 {
		f.reporter.Info("No local changes to commit before git pull.")
	} else if committed {
		f.reporter.Success("Gitai successfully committed local changes.")
	}

	if f.opts.DryRun {
		f.reporter.Info("Dry run: skipping git pull, commits and push.")
		if f.opts.Push {
			outcome.PushSkippedReason = PushSkippedDryRun
		}
		return outcome, nil
	}

	if err := f.pull(ctx); err != nil {
		return outcome, err
	}

	committed, err = f.commitIfDirty(ctx, PostPullMessage, &outcome)
	if err != nil {
		return outcome, err
	}
	outcome.PostCommitted = committed
	if committed {
		f.reporter.Success("Gitai successfully committed changes after pull.")
	} else {
		f.reporter.Info("No changes to commit after git pull.")
	}

	if f.opts.Push {
		if err := f.pushIfAhead(ctx, &outcome); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// commitIfDirty synthesizes and commits a message when the tree is dirty.
// In dry-run mode the message is recorded but nothing is committed.
func (f *SyncFlow) commitIfDirty(ctx context.Context, baseMessage string, outcome *Outcome) (bool, error) {
	porcelain, err := f.git.StatusShort(ctx)
	if err != nil {
		return false, err
	}
	dirty := strings.TrimSpace(porcelain) != ""
	f.logger.Debug("checked working tree", zap.Bool("dirty", dirty), zap.String("base_message", baseMessage))
	if !dirty {
		return false, nil
	}

	if baseMessage == PostPullMessage {
		f.reporter.Warning("Conflicts or uncommitted changes detected after pull.")
	} else {
		f.reporter.Warning("Uncommitted local changes detected.")
	}

	eco := f.classify(f.opts.ProjectPath)
	f.reporter.Info("%s Detected language: %s", emoji.ForEcosystem(eco), eco)

	diff, err := f.git.Diff(ctx)
	if err != nil {
		return false, err
	}

	f.reporter.AI("Generating commit message...")
	message, err := f.synth.Synthesize(ctx, PromptRequest{
		ChangeSummary: changeSummary(diff, porcelain),
		Ecosystem:     eco.String(),
		BaseMessage:   baseMessage,
		Language:      f.opts.Language,
	})
	if err != nil {
		return false, err
	}
	outcome.Messages = append(outcome.Messages, message)

	f.reporter.CommitMessage(message)
	if !formatter.IsConventional(message) {
		f.reporter.Warning("The generated message does not start with feat:, fix:, docs: or chore:, committing it as is.")
	}

	if f.opts.DryRun {
		f.reporter.Info("Dry run: the message above was not committed.")
		return false, nil
	}

	if err := f.commit(ctx, message); err != nil {
		return false, err
	}
	return true, nil
}

// commit stages everything and commits. When the commit fails and hooks
// left rewritten tracked files behind, it re-stages and tries again.
func (f *SyncFlow) commit(ctx context.Context, message string) error {
	for attempt := 1; ; attempt++ {
		if err := f.git.AddAll(ctx); err != nil {
			return fmt.Errorf("git add failed: %w", err)
		}

		err := f.git.CommitWithMessage(ctx, message)
		if err == nil {
			f.logger.Debug("committed", zap.Int("attempt", attempt))
			return nil
		}
		if attempt >= MaxCommitAttempts {
			return fmt.Errorf("git commit failed after %d attempts: %w", attempt, err)
		}

		porcelain, statusErr := f.git.StatusShort(ctx)
		if statusErr != nil || !git.HookModifiedFiles(porcelain) {
			return fmt.Errorf("git commit failed: %w", err)
		}
		f.logger.Debug("commit hooks modified files", zap.Int("attempt", attempt), zap.String("status", porcelain))
		f.reporter.Warning("Commit hooks modified files, staging them and retrying (attempt %d of %d).", attempt+1, MaxCommitAttempts)
	}
}

func (f *SyncFlow) pull(ctx context.Context) error {
	f.reporter.Git("Running git pull...")
	result, err := f.git.Pull(ctx)
	if err != nil {
		return err
	}
	f.logger.Debug("pulled", zap.Int("exit_code", result.ExitCode))

	if !result.Failed() {
		f.reporter.Success("Git pull executed successfully.")
		return nil
	}
	if git.HasConflictSignature(result.Output) {
		f.reporter.Warning("Conflicts detected during git pull:")
		return &errs.ConflictError{Output: result.Output}
	}
	return &errs.CommandError{Command: "git pull", Stdout: result.Output, ExitCode: result.ExitCode}
}

func (f *SyncFlow) pushIfAhead(ctx context.Context, outcome *Outcome) error {
	state, err := f.git.Upstream(ctx)
	if err != nil {
		return err
	}
	f.logger.Debug("checked upstream",
		zap.Bool("structural", state.Structural),
		zap.Int("ahead", state.Ahead),
		zap.Int("behind", state.Behind),
		zap.Bool("diverged", state.Diverged))

	switch {
	case state.Diverged:
		outcome.PushSkippedReason = PushSkippedDiverged
		f.reporter.Warning("Not pushing: %s. Pull or rebase and try again.", PushSkippedDiverged)
		return nil
	case !state.IsAhead:
		outcome.PushSkippedReason = PushSkippedUpToDate
		f.reporter.Info("No changes to push. The %s.", PushSkippedUpToDate)
		return nil
	}

	f.reporter.Git("Running git push...")
	if err := f.git.Push(ctx); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	outcome.Pushed = true
	f.reporter.Success("Gitai successfully pushed changes.")
	return nil
}

// changeSummary is the diff plus the porcelain status, so untracked files
// that the diff does not show still reach the prompt.
func changeSummary(diff, porcelain string) string {
	diff = strings.TrimSpace(diff)
	status := strings.TrimRight(porcelain, "\n")
	if diff == "" {
		return "git status --porcelain:\n" + status
	}
	return diff + "\n\ngit status --porcelain:\n" + status
}

