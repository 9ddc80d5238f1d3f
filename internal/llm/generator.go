// Package llm talks to the text-generation backends used for entity
// extraction and narrative generation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/octobees/place-finder/internal/config"
)

// ErrEmptyResponse is returned when a backend answers without any text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// Request is a single non-streaming generation call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSON asks the backend to constrain its output to a JSON object where
	// supported.
	JSON bool
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Name implements Generator.
func (f GeneratorFunc) Name() string { return "func" }

// New builds the backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama", "":
		client := NewHTTPClient(ctx, cfg.BaseURL, cfg.UseIDToken, cfg.Timeout)
		return NewOllama(client, cfg.BaseURL, cfg.Model), nil
	case "llamacpp":
		client := NewHTTPClient(ctx, cfg.BaseURL, cfg.UseIDToken, cfg.Timeout)
		return NewLlamaCpp(client, cfg.BaseURL, cfg.Model), nil
	case "gemini":
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
