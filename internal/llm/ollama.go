package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.1"
)

// Ollama calls the /api/generate endpoint of an Ollama server.
type Ollama struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewOllama creates an Ollama backend, defaulting the endpoint and model.
func NewOllama(client *http.Client, baseURL, model string) *Ollama {
	if client == nil {
		client = &http.Client{}
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{client: client, baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate implements Generator.
func (o *Ollama) Generate(ctx context.Context, req Request) (string, error) {
	payload := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	if req.JSON {
		payload.Format = "json"
	}

	var out ollamaGenerateResponse
	if err := postJSON(ctx, o.client, o.baseURL+"/api/generate", payload, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New("ollama: " + out.Error)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Name implements Generator.
func (o *Ollama) Name() string { return "ollama:" + o.model }
