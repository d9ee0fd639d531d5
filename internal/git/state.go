package git

import (
	"context"
	"strings"
)

// RepositoryState is a point-in-time snapshot of the working tree and its
// relation to the upstream branch. It is never reused across decisions; call
// State again after anything that may have changed the repository.
type RepositoryState struct {
	Dirty      bool
	StatusText string
	DiffText   string
	Ahead      int
	Behind     int
	// Structural is true when Ahead/Behind come from rev-list rather than
	// from matching the status text.
	Structural bool
	IsAhead    bool
	Diverged   bool
}

var (
	conflictSignatures = []string{"CONFLICT", "CONFLITO", "Automatic merge failed"}

	aheadPhrases = []string{
		"Your branch is ahead",
		"Seu branch está à frente",
		"Sua ramificação está à frente",
		"Tu rama está adelantada",
	}

	divergedPhrases = []string{
		"have diverged",
		"divergiram",
		"han divergido",
	}
)

// HasConflictSignature reports whether git output signals an unmerged pull.
func HasConflictSignature(output string) bool {
	return containsAny(output, conflictSignatures)
}

// IsAheadText matches the localized "branch is ahead" sentence of git status.
func IsAheadText(status string) bool {
	return containsAny(status, aheadPhrases)
}

// IsDivergedText matches the localized "have diverged" sentence of git status.
func IsDivergedText(status string) bool {
	return containsAny(status, divergedPhrases)
}

// HookModifiedFiles reports whether porcelain status shows tracked files with
// worktree changes, which is what a rewriting commit hook leaves behind.
func HookModifiedFiles(porcelain string) bool {
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 2 || strings.HasPrefix(line, "??") {
			continue
		}
		switch line[1] {
		case 'M', 'D':
			return true
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// Upstream resolves the ahead/diverged flags, preferring rev-list counts and
// falling back to the status text when no upstream is configured.
func (c *Client) Upstream(ctx context.Context) (RepositoryState, error) {
	var state RepositoryState
	if ahead, behind, ok := c.AheadBehind(ctx); ok {
		state.Ahead = ahead
		state.Behind = behind
		state.Structural = true
		state.Diverged = ahead > 0 && behind > 0
		state.IsAhead = ahead > 0 && behind == 0
		return state, nil
	}

	status, err := c.StatusVerbose(ctx)
	if err != nil {
		return state, err
	}
	state.StatusText = status
	state.Diverged = IsDivergedText(status)
	state.IsAhead = !state.Diverged && IsAheadText(status)
	return state, nil
}

// State queries the live repository for a full snapshot.
func (c *Client) State(ctx context.Context) (RepositoryState, error) {
	state, err := c.Upstream(ctx)
	if err != nil {
		return state, err
	}

	porcelain, err := c.StatusShort(ctx)
	if err != nil {
		return state, err
	}
	state.Dirty = strings.TrimSpace(porcelain) != ""

	if state.StatusText == "" {
		if state.StatusText, err = c.StatusVerbose(ctx); err != nil {
			return state, err
		}
	}
	if state.Dirty {
		if state.DiffText, err = c.Diff(ctx); err != nil {
			return state, err
		}
	}
	return state, nil
}
