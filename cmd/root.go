package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leandrosilvaferreira/gitai/internal/config"
	"github.com/leandrosilvaferreira/gitai/internal/git"
	"github.com/leandrosilvaferreira/gitai/internal/llm"
	"github.com/leandrosilvaferreira/gitai/internal/ui"
	"github.com/leandrosilvaferreira/gitai/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	envFile  string
	verbose  bool
	pushFlag bool
	dryRun   bool
	rootCmd  = &cobra.Command{
		Use:   "gitai <project_path> <base_message>",
		Short: "gitai - AI commit, pull and push assistant",
		Long: `gitai commits local changes with an LLM-written message, pulls from the remote,
commits whatever the pull left behind and optionally pushes.

The base message describes the intent of the change and is expanded by the
configured provider into a conventional commit message.`,
		Example: `  gitai . 'add login form validation'
  gitai ~/src/api 'bump dependencies' --push`,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		Args:          cobra.ExactArgs(2),
		RunE:          runSync,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute runs the command tree and renders a returned error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	// An interrupt is reported by the caller.
	if ctx := rootCmd.Context(); ctx != nil && ctx.Err() != nil {
		return err
	}
	renderError(errWriter(), err)
	return err
}

// SetContext sets the context handed to every command.
func SetContext(ctx context.Context) {
	rootCmd.SetContext(ctx)
}

// RootCmd returns the root command, used for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this .env file first")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Log every git command and workflow step on stderr")
	rootCmd.Flags().BoolVar(&pushFlag, "push", false, "Push when the local branch is ahead of its upstream")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate messages only, do not commit, pull or push")
}

func loadConfig(projectDir string) (*config.Config, error) {
	return config.Load(config.Options{
		EnvFile:    envFile,
		ConfigFile: cfgFile,
		ProjectDir: projectDir,
	})
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func resolveProjectPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("project path %s is not a directory", abs)
	}
	return abs, nil
}

// openRepository returns a client for path after checking it is a work tree.
func openRepository(ctx context.Context, path string, logger *zap.Logger) (*git.Client, error) {
	client := git.NewClient(git.Options{Dir: path, Logger: logger})
	if !client.IsRepository(ctx) {
		return nil, fmt.Errorf("%s is not a git repository", path)
	}
	return client, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectPath, err := resolveProjectPath(args[0])
	if err != nil {
		return err
	}

	// Configuration is validated before anything touches the repository.
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
	reporter.Header("Gitai %s", Version)

	synth := workflow.NewSynthesizer(generator, workflow.SynthesizerOptions{
		Provider:       cfg.Provider,
		PromptTemplate: cfg.PromptTemplate,
		Signature:      cfg.Signature,
		Logger:         logger,
	})
	flow := workflow.NewSyncFlow(client, synth, reporter, workflow.SyncOptions{
		ProjectPath: projectPath,
		BaseMessage: args[1],
		Language:    cfg.Language,
		Push:        pushFlag,
		DryRun:      dryRun,
	})
	flow.SetLogger(logger)

	outcome, err := flow.Run(ctx)
	if err != nil {
		return err
	}
	logger.Debug("sync finished",
		zap.Bool("pre_committed", outcome.PreCommitted),
		zap.Bool("post_committed", outcome.PostCommitted),
		zap.Bool("pushed", outcome.Pushed),
		zap.String("push_skipped", outcome.PushSkippedReason))
	return nil
}
