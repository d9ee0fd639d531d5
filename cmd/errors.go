package cmd

import (
	"errors"
	"io"

	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/ui"
)

// renderError prints err and, for git failures, the captured output that
// explains it.
func renderError(w io.Writer, err error) {
	reporter := ui.NewReporter(w)

	var conflict *errs.ConflictError
	var command *errs.CommandError
	switch {
	case errors.As(err, &conflict):
		reporter.Error("Error: %v", err)
		if conflict.Output != "" {
			reporter.Info("Details:\n%s", conflict.Output)
		}
	case errors.As(err, &command):
		reporter.Error("Error: %v", err)
		if out := command.Output(); out != "" {
			reporter.Info("Output:\n%s", out)
		}
	default:
		reporter.Error("Error: %v", err)
	}
}
