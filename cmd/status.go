package cmd

import (
	"fmt"
	"io"

	"github.com/leandrosilvaferreira/gitai/internal/git"
	"github.com/spf13/cobra"
)

var (
	statusFetch bool
	statusCmd   = &cobra.Command{
		Use:   "status [path]",
		Short: "Show the working tree and upstream state gitai acts on",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	}
)

func init() {
	statusCmd.Flags().BoolVar(&statusFetch, "fetch", false, "Fetch from the remote before comparing with the upstream")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	projectPath, err := resolveProjectPath(path)
	if err != nil {
		return err
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	client, err := openRepository(ctx, projectPath, logger)
	if err != nil {
		return err
	}
	if statusFetch {
		if err := client.Fetch(ctx); err != nil {
			return err
		}
	}

	state, err := client.State(ctx)
	if err != nil {
		return err
	}
	printState(outWriter(), state)
	return nil
}

func printState(w io.Writer, state git.RepositoryState) {
	fmt.Fprintf(w, "Dirty:    %t\n", state.Dirty)
	if state.Structural {
		fmt.Fprintf(w, "Ahead:    %d\n", state.Ahead)
		fmt.Fprintf(w, "Behind:   %d\n", state.Behind)
	} else {
		fmt.Fprintln(w, "Upstream: not configured, using git status text")
	}
	fmt.Fprintf(w, "Push:     %s\n", pushDecision(state))
}

func pushDecision(state git.RepositoryState) string {
	switch {
	case state.Diverged:
		return "skipped, branches have diverged"
	case state.IsAhead:
		return "would push"
	default:
		return "nothing to push"
	}
}
