package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// NewHTTPClient builds the client used to reach a self-hosted backend. When
// useIDToken is set and Google credentials are available, requests carry an
// ID token for audience baseURL, which private Cloud Run services require.
func NewHTTPClient(ctx context.Context, baseURL string, useIDToken bool, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if useIDToken && baseURL != "" {
		idc, err := idtoken.NewClient(ctx, strings.TrimRight(baseURL, "/"))
		if err == nil {
			idc.Timeout = timeout
			return idc
		}
	}
	return &http.Client{Timeout: timeout}
}

// postJSON posts payload to url and decodes the JSON answer into out.
func postJSON(ctx context.Context, client *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("llm error (status %d): %s", resp.StatusCode, extractAPIError(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("could not decode llm response: %w", err)
	}
	return nil
}

func extractAPIError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "backend returned an error"
	}

	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		switch v := payload.Error.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(data))
}
