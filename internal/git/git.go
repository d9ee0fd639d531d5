// Package git is the version-control gateway: a small fixed surface of git
// commands whose textual output and exit status are normalized for the
// workflow.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/gitcmd"
	"github.com/leandrosilvaferreira/gitai/internal/stringsutil"
	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	Dir    string
	Logger *zap.Logger
}

// Client issues the fixed set of git queries and mutations used by the
// workflow against a single working tree.
type Client struct {
	runner gitcmd.Runner
}

// CommitInfo is one line of history from LogSince.
type CommitInfo struct {
	Hash    string
	Subject string
}

// PullResult is the tolerant outcome of git pull.
type PullResult struct {
	Output   string
	ExitCode int
}

// Failed reports whether the pull exited non-zero.
func (p PullResult) Failed() bool {
	return p.ExitCode != 0
}

func NewClient(opts Options) *Client {
	return &Client{runner: gitcmd.Runner{Dir: opts.Dir, Logger: opts.Logger}}
}

// Dir returns the working directory used for every command.
func (c *Client) Dir() string {
	return c.runner.Dir
}

// run executes a command in fail-fast mode: a non-zero exit becomes a
// *errs.CommandError carrying both captured streams.
func (c *Client) run(ctx context.Context, args ...string) (gitcmd.Result, error) {
	result, err := c.runner.Run(ctx, args...)
	if err != nil {
		return result, commandError(result, err)
	}
	return result, nil
}

func commandError(result gitcmd.Result, cause error) *errs.CommandError {
	return &errs.CommandError{
		Command:  result.CommandLine(),
		Stdout:   result.StdoutString(false),
		Stderr:   result.StderrString(false),
		ExitCode: result.ExitCode,
		Cause:    cause,
	}
}

// IsRepository reports whether Dir is inside a git work tree.
func (c *Client) IsRepository(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && result.StdoutString(true) == "true"
}

// StatusShort returns the porcelain status, used as the dirty signal.
func (c *Client) StatusShort(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	// Leading spaces are part of the XY status columns.
	return strings.TrimRight(result.StdoutString(false), "\n"), nil
}

// HasUncommittedChanges reports whether the working tree is dirty.
func (c *Client) HasUncommittedChanges(ctx context.Context) (bool, error) {
	status, err := c.StatusShort(ctx)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(status) != "", nil
}

// StatusVerbose returns the human-readable status without untracked files.
func (c *Client) StatusVerbose(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "status", "-uno")
	if err != nil {
		return "", err
	}
	return result.Output(), nil
}

// Diff returns unstaged and staged changes relative to HEAD. On a repository
// without commits it falls back to the working tree and index diffs.
func (c *Client) Diff(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "diff", "HEAD")
	if err == nil {
		return result.StdoutString(true), nil
	}
	if c.hasHead(ctx) {
		return "", commandError(result, err)
	}

	unstaged, err := c.run(ctx, "diff")
	if err != nil {
		return "", err
	}
	staged, err := c.run(ctx, "diff", "--cached")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(unstaged.StdoutString(true) + "\n" + staged.StdoutString(true)), nil
}

func (c *Client) hasHead(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// AddAll stages every change in the working tree.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", ".")
	return err
}

// CommitWithMessage commits the index. The message is handed to git through
// a temporary file so its length and characters never touch the command line.
func (c *Client) CommitWithMessage(ctx context.Context, message string) error {
	tmpFile, err := os.CreateTemp("", "gitai-commit-")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpFileName := tmpFile.Name()
	defer os.Remove(tmpFileName)

	if _, err := tmpFile.WriteString(message); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	_, err = c.run(ctx, "commit", "-F", tmpFileName)
	return err
}

// Pull runs git pull in tolerant mode: a non-zero exit is reported in the
// result, not as an error. Only a failure to start git is an error.
func (c *Client) Pull(ctx context.Context) (PullResult, error) {
	result, err := c.runner.Run(ctx, "pull")
	if err != nil && result.ExitCode < 0 {
		return PullResult{}, commandError(result, err)
	}
	return PullResult{Output: result.Output(), ExitCode: result.ExitCode}, nil
}

func (c *Client) Fetch(ctx context.Context) error {
	_, err := c.run(ctx, "fetch")
	return err
}

func (c *Client) Push(ctx context.Context) error {
	_, err := c.run(ctx, "push")
	return err
}

// AheadBehind counts commits on HEAD missing upstream (ahead) and commits on
// the upstream missing locally (behind). ok is false when the branch has no
// upstream or the counts cannot be read.
func (c *Client) AheadBehind(ctx context.Context) (ahead, behind int, ok bool) {
	result, err := c.runner.Run(ctx, "rev-list", "--left-right", "--count", "@{upstream}...HEAD")
	if err != nil {
		return 0, 0, false
	}
	return parseAheadBehind(result.StdoutString(true))
}

// parseAheadBehind reads "<behind>\t<ahead>" as printed for @{upstream}...HEAD.
func parseAheadBehind(output string) (ahead, behind int, ok bool) {
	fields := strings.Fields(output)
	if len(fields) != 2 {
		return 0, 0, false
	}
	behind, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	ahead, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	return ahead, behind, true
}

// LogSince lists commits reachable from HEAD but not from tag, newest first.
func (c *Client) LogSince(ctx context.Context, tag string) ([]CommitInfo, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, errors.New("tag must not be empty")
	}
	result, err := c.run(ctx, "log", tag+"..HEAD", "--pretty=format:%h %s")
	if err != nil {
		return nil, err
	}
	return parseLogOutput(result.StdoutString(true)), nil
}

func parseLogOutput(output string) []CommitInfo {
	lines := stringsutil.SplitNonEmpty(output, "\n")
	commits := make([]CommitInfo, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, " ")
		commits = append(commits, CommitInfo{Hash: hash, Subject: strings.TrimSpace(subject)})
	}
	return commits
}

// RemoteURL returns the fetch URL of origin, or "" when there is none.
func (c *Client) RemoteURL(ctx context.Context) string {
	result, err := c.runner.Run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return result.StdoutString(true)
}
