package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/formatter"
	"github.com/leandrosilvaferreira/gitai/internal/gitutil"
	"github.com/leandrosilvaferreira/gitai/internal/llm"
	"github.com/leandrosilvaferreira/gitai/internal/ui"
	"go.uber.org/zap"
)

// Release generation parameters.
const (
	ReleaseMaxTokens   = 1000
	ReleaseTemperature = 1.0
	DefaultReleaseDir  = "dist"
)

type ReleaseOptions struct {
	OldTag         string
	NewVersion     string
	OutputDir      string // defaults to DefaultReleaseDir
	Language       string
	Provider       string
	PromptTemplate string
}

// ReleaseFlow writes markdown release notes for the commits since a tag.
type ReleaseFlow struct {
	git       HistoryClient
	generator llm.Generator
	reporter  Reporter
	logger    *zap.Logger
	opts      ReleaseOptions
}

func NewReleaseFlow(history HistoryClient, generator llm.Generator, reporter Reporter, opts ReleaseOptions) *ReleaseFlow {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultReleaseDir
	}
	return &ReleaseFlow{
		git:       history,
		generator: generator,
		reporter:  reporter,
		logger:    zap.NewNop(),
		opts:      opts,
	}
}

// SetLogger replaces the no-op diagnostic logger.
func (f *ReleaseFlow) SetLogger(logger *zap.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// ReleaseFileName returns release_<version>.md.
func ReleaseFileName(version string) string {
	return "release_" + version + ".md"
}

// Run generates the notes and returns the path of the written file.
func (f *ReleaseFlow) Run(ctx context.Context) (string, error) {
	if err := gitutil.ValidateRefName(f.opts.OldTag); err != nil {
		return "", fmt.Errorf("invalid tag: %w", err)
	}
	if err := gitutil.ValidateVersionName(f.opts.NewVersion); err != nil {
		return "", fmt.Errorf("invalid version: %w", err)
	}

	f.reporter.Git("Collecting commits since %s...", f.opts.OldTag)
	commits, err := f.git.LogSince(ctx, f.opts.OldTag)
	if err != nil {
		return "", err
	}
	f.reporter.Info("%d commits since %s.", len(commits), f.opts.OldTag)

	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, c.Hash+" "+c.Subject)
	}

	repoURL := gitutil.RepoWebURL(f.git.RemoteURL(ctx))
	f.logger.Debug("release context",
		zap.Int("commits", len(commits)),
		zap.String("repo_url", repoURL))

	prompt, err := formatter.BuildReleasePrompt(f.opts.PromptTemplate, formatter.ReleaseTemplateData{
		OldTag:     f.opts.OldTag,
		NewVersion: f.opts.NewVersion,
		Commits:    strings.Join(lines, "\n"),
		RepoURL:    repoURL,
		Language:   f.opts.Language,
	})
	if err != nil {
		return "", err
	}

	f.reporter.AI("Generating release notes...")
	var notes string
	err = ui.NewSpinner("Generating release notes...").While(func() error {
		var genErr error
		notes, genErr = f.generator.Generate(ctx, llm.Request{
			System:      prompt.System,
			Prompt:      prompt.User,
			MaxTokens:   ReleaseMaxTokens,
			Temperature: ReleaseTemperature,
		})
		return genErr
	})
	if err != nil {
		return "", &errs.ProviderError{Provider: f.opts.Provider, Cause: err}
	}

	if err := os.MkdirAll(f.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", f.opts.OutputDir, err)
	}
	path := filepath.Join(f.opts.OutputDir, ReleaseFileName(f.opts.NewVersion))
	if err := os.WriteFile(path, []byte(strings.TrimSpace(notes)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	f.reporter.Success("Release notes generated successfully in %s.", path)
	return path, nil
}
