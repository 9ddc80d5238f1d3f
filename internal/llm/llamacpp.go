package llm

import (
	"context"
	"net/http"
	"strings"
)

const defaultLlamaCppURL = "http://localhost:8080"

// LlamaCpp calls the native /completion endpoint of a llama.cpp server.
// The server hosts a single model; model is only used for naming.
type LlamaCpp struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewLlamaCpp creates a llama.cpp backend.
func NewLlamaCpp(client *http.Client, baseURL, model string) *LlamaCpp {
	if client == nil {
		client = &http.Client{}
	}
	if baseURL == "" {
		baseURL = defaultLlamaCppURL
	}
	if model == "" {
		model = "default"
	}
	return &LlamaCpp{client: client, baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

type llamaCompletionRequest struct {
	Prompt      string         `json:"prompt"`
	NPredict    int            `json:"n_predict,omitempty"`
	Temperature float64        `json:"temperature"`
	Stream      bool           `json:"stream"`
	CachePrompt bool           `json:"cache_prompt"`
	JSONSchema  map[string]any `json:"json_schema,omitempty"`
}

type llamaCompletionResponse struct {
	Content string `json:"content"`
}

// Generate implements Generator.
func (l *LlamaCpp) Generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}

	payload := llamaCompletionRequest{
		Prompt:      prompt,
		NPredict:    req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
		CachePrompt: true,
	}
	if req.JSON {
		payload.JSONSchema = map[string]any{"type": "object"}
	}

	var out llamaCompletionResponse
	if err := postJSON(ctx, l.client, l.baseURL+"/completion", payload, &out); err != nil {
		return "", err
	}
	text := strings.TrimSpace(out.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Name implements Generator.
func (l *LlamaCpp) Name() string { return "llamacpp:" + l.model }
