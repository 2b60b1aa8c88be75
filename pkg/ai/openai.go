package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/johnquangdev/interview-segmenter/pkg/config"
)

// OpenAIClient generates replies through any OpenAI-compatible chat completions API
type OpenAIClient struct {
	client *openai.Client
	model  string
	opts   GenerationOptions
}

// NewOpenAIClient creates a go-openai backed generator
func NewOpenAIClient(cfg *config.LLMConfig, opts GenerationOptions) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai: model must not be empty")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		opts:   opts,
	}, nil
}

// Name implements Generator
func (c *OpenAIClient) Name() string {
	return "openai/" + c.model
}

// Generate implements Generator
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: float32(c.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
