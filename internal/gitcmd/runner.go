package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner executes git commands with shared logging and output handling.
type Runner struct {
	Dir    string
	Env    []string
	Logger *zap.Logger
}

// Result contains captured stdout/stderr and the exit status of a git command.
type Result struct {
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

// Output is the normalized text of a command: trimmed stdout, a newline,
// then trimmed stderr. Callers match signatures against this text.
func (r Result) Output() string {
	return r.StdoutString(true) + "\n" + r.StderrString(true)
}

// CommandLine renders the invocation for messages.
func (r Result) CommandLine() string {
	return "git " + strings.Join(r.Args, " ")
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

// Run executes a git command and captures stdout/stderr. A non-zero exit
// returns the populated Result together with the *exec.ExitError; a command
// that could not be started reports ExitCode -1.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	log := r.logger()
	log.Debug("running git", zap.Strings("args", args), zap.String("dir", r.Dir))

	cmd := r.command(ctx, args...)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	result := Result{Args: args, Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}

	log.Debug("git finished", zap.Strings("args", args), zap.Int("exit_code", result.ExitCode))
	return result, err
}
