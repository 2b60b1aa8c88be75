package ai

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"

	"github.com/johnquangdev/interview-segmenter/pkg/config"
)

// AnyLLMClient generates replies through github.com/mozilla-ai/any-llm-go.
// Ollama is the default local backend.
type AnyLLMClient struct {
	provider string
	model    string
	opts     GenerationOptions
	complete func(ctx context.Context, params anyllmlib.CompletionParams) (string, error)
	models   *OllamaModels
}

// NewAnyLLMClient creates a client for cfg.Provider, one of
// "ollama", "anthropic", "gemini", "deepseek", "mistral" or "llamacpp".
func NewAnyLLMClient(cfg *config.LLMConfig, opts GenerationOptions) (*AnyLLMClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	var libOpts []anyllmlib.Option
	if cfg.APIKey != "" {
		libOpts = append(libOpts, anyllmlib.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		libOpts = append(libOpts, anyllmlib.WithBaseURL(cfg.BaseURL))
	}

	provider := strings.ToLower(cfg.Provider)
	backend, err := createBackend(provider, libOpts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", provider, err)
	}

	c := &AnyLLMClient{
		provider: provider,
		model:    cfg.Model,
		opts:     opts,
		complete: func(ctx context.Context, params anyllmlib.CompletionParams) (string, error) {
			resp, err := backend.Completion(ctx, params)
			if err != nil {
				return "", err
			}
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("empty choices in response")
			}
			return resp.Choices[0].Message.ContentString(), nil
		},
	}
	if provider == "ollama" {
		c.models = NewOllamaModels(cfg.BaseURL, cfg.Model, cfg.PullModel, cfg.Timeout)
	}
	return c, nil
}

func createBackend(provider string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch provider {
	case "ollama":
		return ollama.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: ollama, openai, groq, anthropic, gemini, deepseek, mistral, llamacpp", provider)
	}
}

// Name implements Generator
func (c *AnyLLMClient) Name() string {
	return c.provider + "/" + c.model
}

// Generate implements Generator
func (c *AnyLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	content, err := c.complete(ctx, c.buildParams(prompt))
	if err != nil {
		return "", fmt.Errorf("anyllm: completion: %w", err)
	}
	return content, nil
}

// EnsureModel implements ModelChecker. Only the Ollama backend manages local models.
func (c *AnyLLMClient) EnsureModel(ctx context.Context) error {
	if c.models == nil {
		return nil
	}
	return c.models.Ensure(ctx)
}

func (c *AnyLLMClient) buildParams(prompt string) anyllmlib.CompletionParams {
	params := anyllmlib.CompletionParams{
		Model: c.model,
		Messages: []anyllmlib.Message{
			{Role: "user", Content: prompt},
		},
	}
	if c.opts.Temperature != 0 {
		t := c.opts.Temperature
		params.Temperature = &t
	}
	if c.opts.MaxTokens > 0 {
		mt := c.opts.MaxTokens
		params.MaxTokens = &mt
	}
	return params
}
