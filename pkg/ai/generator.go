package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnquangdev/interview-segmenter/pkg/config"
)

// Generator is the text generation collaborator: one prompt in, one reply out
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend and model, e.g. "ollama/qwen2.5:3b"
	Name() string
}

// ModelChecker is implemented by backends able to verify (and fetch) their model before use
type ModelChecker interface {
	EnsureModel(ctx context.Context) error
}

// GenerationOptions are the sampling settings shared by every backend
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// NewGenerator builds the generator selected by cfg.Provider
func NewGenerator(cfg *config.LLMConfig, opts GenerationOptions) (Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is nil")
	}
	switch strings.ToLower(cfg.Provider) {
	case "groq":
		return NewGroqClient(cfg, opts), nil
	case "openai":
		return NewOpenAIClient(cfg, opts)
	case "":
		return nil, fmt.Errorf("llm provider must not be empty")
	default:
		return NewAnyLLMClient(cfg, opts)
	}
}
