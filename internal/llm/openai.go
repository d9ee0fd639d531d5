package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// openAIClient serves every provider that speaks the OpenAI chat
// completions wire format.
type openAIClient struct {
	provider Provider
	model    string
	client   *openai.Client
}

func newOpenAIClient(provider Provider, opts Options) *openAIClient {
	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.APIBase != "" {
		clientConfig.BaseURL = opts.APIBase
	}
	if opts.HTTPClient != nil {
		clientConfig.HTTPClient = opts.HTTPClient
	}

	return &openAIClient{
		provider: provider,
		model:    opts.Model,
		client:   openai.NewClientWithConfig(clientConfig),
	}
}

func (c *openAIClient) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", c.provider, err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
