package cmd

import (
	"context"
	"fmt"

	"github.com/leandrosilvaferreira/gitai/internal/git"
	"github.com/leandrosilvaferreira/gitai/internal/llm"
	"github.com/leandrosilvaferreira/gitai/internal/ui"
	"github.com/leandrosilvaferreira/gitai/internal/version"
	"github.com/leandrosilvaferreira/gitai/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	releaseOutputDir string
	releaseProject   string
	releaseCmd       = &cobra.Command{
		Use:   "release <old_tag> [new_version]",
		Short: "Generate markdown release notes for the commits since a tag",
		Long: `Generate release notes for every commit since old_tag and write them to
<output>/release_<new_version>.md.

When new_version is omitted it is suggested from the commit subjects since
old_tag: a breaking change bumps the major version, a feat commit bumps the
minor version and anything else bumps the patch version.`,
		Example: `  gitai release v1.2.0 v1.3.0
  gitai release v1.2.0 --output notes`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runRelease,
	}
)

func init() {
	releaseCmd.Flags().StringVarP(&releaseOutputDir, "output", "o", workflow.DefaultReleaseDir, "Directory for the generated notes")
	releaseCmd.Flags().StringVarP(&releaseProject, "project", "C", ".", "Repository to read the history from")
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectPath, err := resolveProjectPath(releaseProject)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(projectPath)
	if err != nil {
		return err
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	generator, err := llm.New(cfg.LLMOptions())
	if err != nil {
		return err
	}
	client, err := openRepository(ctx, projectPath, logger)
	if err != nil {
		return err
	}

	reporter := ui.NewReporter(outWriter())
	oldTag := args[0]

	newVersion := ""
	if len(args) == 2 {
		newVersion = args[1]
	} else {
		newVersion, err = suggestVersion(ctx, client, oldTag)
		if err != nil {
			return err
		}
		reporter.Info("Suggested version: %s", newVersion)
	}

	flow := workflow.NewReleaseFlow(client, generator, reporter, workflow.ReleaseOptions{
		OldTag:         oldTag,
		NewVersion:     newVersion,
		OutputDir:      releaseOutputDir,
		Language:       cfg.Language,
		Provider:       cfg.Provider,
		PromptTemplate: cfg.PromptTemplate,
	})
	flow.SetLogger(logger)

	path, err := flow.Run(ctx)
	if err != nil {
		return err
	}
	logger.Debug("release notes written", zap.String("path", path))
	return nil
}

type commitLister interface {
	LogSince(ctx context.Context, tag string) ([]git.CommitInfo, error)
}

func suggestVersion(ctx context.Context, history commitLister, oldTag string) (string, error) {
	base, err := version.ParseSemVer(oldTag)
	if err != nil {
		return "", fmt.Errorf("cannot suggest a version from %s, pass new_version explicitly: %w", oldTag, err)
	}
	commits, err := history.LogSince(ctx, oldTag)
	if err != nil {
		return "", err
	}
	suggestion := version.Suggest(base, commits)
	if suggestion.BumpType == version.BumpNone {
		return "", fmt.Errorf("%s, pass new_version explicitly", suggestion.Reason)
	}
	return suggestion.Next.String(), nil
}
