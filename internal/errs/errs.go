// Package errs defines the error taxonomy shared by the gitai commands and
// maps it onto process exit codes.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes.
// 0 = Success
// 1 = Configuration error, command failure, provider failure or pull conflict
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ConfigError reports a missing, blank or unsupported setting.
type ConfigError struct {
	Key    string // environment variable or setting name
	Reason string
	Source string // file the user should edit, if known
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
	if e.Source != "" {
		msg += fmt.Sprintf(" (set the value in %s)", e.Source)
	}
	return msg
}

// NewMissingSetting creates a ConfigError for an unset or blank variable.
func NewMissingSetting(key, source string) *ConfigError {
	return &ConfigError{Key: key, Reason: "is not set or is blank", Source: source}
}

// CommandError is a non-zero exit of a git invocation.
type CommandError struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Cause    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("error executing command: %s (exit status %d)", e.Command, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Output joins both captured streams the way they are shown to the user.
func (e *CommandError) Output() string {
	return strings.TrimSpace(strings.TrimSpace(e.Stdout) + "\n" + strings.TrimSpace(e.Stderr))
}

// ConflictError halts a run when git pull reports merge conflicts.
type ConflictError struct {
	Output string
}

func (e *ConflictError) Error() string {
	return "git pull failed due to conflicts, please resolve the conflicts manually"
}

// ProviderError wraps a failed generation call.
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ExitCode extracts the process exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// IsConflict reports whether err is, or wraps, a ConflictError.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
