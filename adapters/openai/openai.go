// Package openai is a minimal client for the OpenAI chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FrenchMajesty/text-analyzer/internal/retry"
)

const openaiBaseURL = "https://api.openai.com/v1"

// NewClient creates a new OpenAIClient
func NewClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		APIKey:      apiKey,
		HTTPClient:  http.DefaultClient,
		RetryConfig: retry.DefaultConfig(),
		BaseURL:     openaiBaseURL,
		Logger:      slog.Default(),
	}
}

var _ LanguageModelClient = (*OpenAIClient)(nil)

// ChatCompletion sends a chat completion request with retry logic
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	url := c.BaseURL + "/chat/completions"

	bodyBytes, err := c.createAndRunRetryableRequest(ctx, url, req, "chat")
	if err != nil {
		return nil, err
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, &ChatCompletionError{
			Message: fmt.Sprintf("failed to parse chat completion response: %v", err),
			RawBody: json.RawMessage(bodyBytes),
		}
	}

	return &chatResp, nil
}

// SetBaseURL points the client at an OpenAI-compatible endpoint
func (c *OpenAIClient) SetBaseURL(baseUrl string) {
	c.BaseURL = baseUrl
}
