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

	"missionforge-backend/internal/apperror"
)

// LLMClient defines the interface for interacting with LLM services.
type LLMClient interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ollamaClient implements LLMClient for Ollama.
type ollamaClient struct {
	url    string
	model  string
	client *http.Client
}

// NewOllamaClient initializes an LLM client against an Ollama instance.
func NewOllamaClient(url, model string, timeout time.Duration) LLMClient {
	return &ollamaClient{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate calls the Ollama generate API and returns the aggregated response
// text. Transport errors and non-2xx statuses surface as UpstreamUnavailable.
func (c *ollamaClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  c.model,
		"system": system,
		"prompt": prompt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperror.UpstreamUnavailable("text generation service unreachable", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.UpstreamUnavailable("failed to read generation response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperror.UpstreamUnavailable(
			fmt.Sprintf("text generation service returned status %d", resp.StatusCode), nil)
	}

	fullBody := string(bodyBytes)

	// Ollama streams multiple JSON objects separated by newlines; aggregate
	// their "response" fields into one string.
	if strings.Contains(strings.TrimSpace(fullBody), "\n") {
		return AggregateStreamedResponse(fullBody), nil
	}

	var result LLMResponseChunk
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", apperror.UpstreamUnavailable("undecodable generation response", err)
	}
	return result.Response, nil
}

type LLMResponseChunk struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// AggregateStreamedResponse takes the full raw response body (multiple JSON
// objects separated by newlines) and concatenates the "response" fields into
// one final string.
func AggregateStreamedResponse(body string) string {
	lines := strings.Split(body, "\n")
	var builder strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var chunk LLMResponseChunk
		if err := json.Unmarshal([]byte(trimmed), &chunk); err != nil {
			continue
		}
		builder.WriteString(chunk.Response)
	}
	return builder.String()
}
