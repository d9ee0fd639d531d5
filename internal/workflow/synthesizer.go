package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/formatter"
	"github.com/leandrosilvaferreira/gitai/internal/llm"
	"github.com/leandrosilvaferreira/gitai/internal/ui"
	"go.uber.org/zap"
)

// Signature is appended to every generated commit message unless disabled.
const Signature = "\n\n🤖 Commit generated with [Gitai](https://github.com/leandrosilvaferreira/gitai)"

// Commit generation parameters.
const (
	CommitMaxTokens   = 500
	CommitTemperature = 0.5
)

var errEmptyMessage = errors.New("provider returned an empty message")

// PromptRequest is everything the provider is told about one change set.
type PromptRequest struct {
	ChangeSummary string
	Ecosystem     string
	BaseMessage   string
	Language      string
}

type SynthesizerOptions struct {
	Provider       string // used in error messages
	PromptTemplate string // optional YAML override file
	Signature      bool
	Logger         *zap.Logger
}

// Synthesizer builds the commit prompt and delegates to a Generator.
type Synthesizer struct {
	generator llm.Generator
	opts      SynthesizerOptions
	logger    *zap.Logger
}

func NewSynthesizer(generator llm.Generator, opts SynthesizerOptions) *Synthesizer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{generator: generator, opts: opts, logger: logger}
}

// Synthesize returns the provider's message as-is apart from trimming, plus
// the signature. A provider failure is returned as *errs.ProviderError.
func (s *Synthesizer) Synthesize(ctx context.Context, req PromptRequest) (string, error) {
	prompt, err := formatter.BuildCommitPrompt(s.opts.PromptTemplate, formatter.CommitTemplateData{
		Ecosystem:   req.Ecosystem,
		BaseMessage: req.BaseMessage,
		Diff:        req.ChangeSummary,
		Language:    req.Language,
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("synthesizing commit message",
		zap.String("provider", s.opts.Provider),
		zap.String("ecosystem", req.Ecosystem),
		zap.Int("prompt_bytes", len(prompt.User)))

	var message string
	err = ui.NewSpinner("Generating commit message...").While(func() error {
		var genErr error
		message, genErr = s.generator.Generate(ctx, llm.Request{
			System:      prompt.System,
			Prompt:      prompt.User,
			MaxTokens:   CommitMaxTokens,
			Temperature: CommitTemperature,
		})
		return genErr
	})
	if err != nil {
		return "", &errs.ProviderError{Provider: s.opts.Provider, Cause: err}
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", &errs.ProviderError{Provider: s.opts.Provider, Cause: errEmptyMessage}
	}
	if s.opts.Signature {
		message += Signature
	}
	return message, nil
}
