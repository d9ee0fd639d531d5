// Package llm provides the text-generation providers behind a single
// Generator interface.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/errs"
)

// Provider identifies a text-generation backend.
type Provider string

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderGroq      Provider = "groq"
	ProviderAnthropic Provider = "anthropic"
)

// Request defaults.
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.5
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	anthropicBaseURL = "https://api.anthropic.com/v1"
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int     // 0 uses DefaultMaxTokens
	Temperature float32 // 0 uses DefaultTemperature
}

func (r Request) withDefaults() Request {
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// HTTPDoer is the HTTP surface the providers need. Tests inject doubles.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider   string
	Model      string
	APIKey     string
	APIBase    string   // endpoint override, empty for the provider default
	HTTPClient HTTPDoer // nil uses http.DefaultClient
}

// ParseProvider normalizes a provider name. Unknown names are a
// *errs.ConfigError.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, supported := range SupportedProviders() {
		if string(p) == supported {
			return p, nil
		}
	}
	return "", &errs.ConfigError{
		Key:    "PROVIDER",
		Reason: fmt.Sprintf("%q is not supported (use one of: %s)", name, strings.Join(SupportedProviders(), ", ")),
	}
}

// SupportedProviders lists the accepted provider names.
func SupportedProviders() []string {
	return []string{string(ProviderOpenAI), string(ProviderGroq), string(ProviderAnthropic)}
}

// New builds the Generator for opts.Provider. Selection happens once, here;
// an unsupported provider never reaches generation time.
func New(opts Options) (Generator, error) {
	provider, err := ParseProvider(opts.Provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderGroq:
		if opts.APIBase == "" {
			opts.APIBase = groqBaseURL
		}
		return newOpenAIClient(provider, opts), nil
	case ProviderAnthropic:
		return newAnthropicClient(opts), nil
	default:
		return newOpenAIClient(provider, opts), nil
	}
}
