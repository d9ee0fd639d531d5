package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/leandrosilvaferreira/gitai/internal/git"
	"github.com/leandrosilvaferreira/gitai/internal/llm"
)

// fakeGit scripts the gateway. statuses are returned in order by StatusShort
// and the last one repeats.
type fakeGit struct {
	statuses   []string
	statusIdx  int
	statusErr  error
	diff       string
	diffErr    error
	addErr     error
	commitErrs []error
	pull       git.PullResult
	pullErr    error
	upstream   git.RepositoryState
	pushErr    error

	calls   []string
	commits []string
}

func (f *fakeGit) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeGit) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeGit) StatusShort(context.Context) (string, error) {
	f.record("status")
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if len(f.statuses) == 0 {
		return "", nil
	}
	s := f.statuses[f.statusIdx]
	if f.statusIdx < len(f.statuses)-1 {
		f.statusIdx++
	}
	return s, nil
}

func (f *fakeGit) Diff(context.Context) (string, error) {
	f.record("diff")
	return f.diff, f.diffErr
}

func (f *fakeGit) AddAll(context.Context) error {
	f.record("add")
	return f.addErr
}

func (f *fakeGit) CommitWithMessage(_ context.Context, message string) error {
	f.record("commit")
	attempt := len(f.commits)
	f.commits = append(f.commits, message)
	if attempt < len(f.commitErrs) {
		return f.commitErrs[attempt]
	}
	return nil
}

func (f *fakeGit) Pull(context.Context) (git.PullResult, error) {
	f.record("pull")
	return f.pull, f.pullErr
}

func (f *fakeGit) Upstream(context.Context) (git.RepositoryState, error) {
	f.record("upstream")
	return f.upstream, nil
}

func (f *fakeGit) Push(context.Context) error {
	f.record("push")
	return f.pushErr
}

// fakeSynth returns canned messages and records requests.
type fakeSynth struct {
	message  string
	err      error
	requests []PromptRequest
}

func (s *fakeSynth) Synthesize(_ context.Context, req PromptRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.message, nil
}

// fakeGenerator records llm requests.
type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	requests []llm.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.response, g.err
}

// recordingReporter keeps every line for assertions.
type recordingReporter struct {
	lines    []string
	messages []string
}

func (r *recordingReporter) add(kind, format string, args ...any) {
	r.lines = append(r.lines, kind+": "+fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Success(format string, args ...any) { r.add("success", format, args...) }
func (r *recordingReporter) Info(format string, args ...any)    { r.add("info", format, args...) }
func (r *recordingReporter) Warning(format string, args ...any) { r.add("warning", format, args...) }
func (r *recordingReporter) Error(format string, args ...any)   { r.add("error", format, args...) }
func (r *recordingReporter) Git(format string, args ...any)     { r.add("git", format, args...) }
func (r *recordingReporter) AI(format string, args ...any)      { r.add("ai", format, args...) }
func (r *recordingReporter) CommitMessage(message string)       { r.messages = append(r.messages, message) }

type fakeHistory struct {
	commits []git.CommitInfo
	err     error
	remote  string
	tags    []string
}

func (h *fakeHistory) LogSince(_ context.Context, tag string) ([]git.CommitInfo, error) {
	h.tags = append(h.tags, tag)
	return h.commits, h.err
}

func (h *fakeHistory) RemoteURL(context.Context) string {
	return h.remote
}
