package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/FrenchMajesty/text-analyzer/internal/retry"
)

// isRetryableError determines if a response should trigger a retry
func (c *OpenAIClient) isRetryableError(err error, statusCode int, responseBody []byte) bool {
	// Network errors
	if err != nil && statusCode == 0 {
		return true
	}

	if statusCode >= 500 || statusCode == http.StatusTooManyRequests {
		return true
	}

	// failed_generation can arrive with 200 OK
	if statusCode == http.StatusOK && responseBody != nil {
		var errorResp ChatCompletionResponseError
		if json.Unmarshal(responseBody, &errorResp) == nil && errorResp.Error.FailedGeneration != "" {
			return true
		}
		if strings.Contains(string(responseBody), `"failed_generation"`) {
			return true
		}
	}

	return false
}

// createAndRunRetryableRequest executes an HTTP request with retry logic
func (c *OpenAIClient) createAndRunRetryableRequest(ctx context.Context, url string, requestBody any, apiName string) ([]byte, error) {
	opts := retry.Options{
		Config:       c.RetryConfig,
		ErrorChecker: c.isRetryableError,
		Logger:       c.Logger,
		APIName:      "OpenAI " + apiName,
	}

	return retry.Execute(ctx, opts, c.buildRetryableFn(ctx, url, requestBody, apiName))
}

// buildRetryableFn builds a single attempt for the given request body
func (c *OpenAIClient) buildRetryableFn(ctx context.Context, url string, requestBody any, apiName string) retry.RetryableFunc[[]byte] {
	return func(attempt int) ([]byte, int, []byte, error) {
		body, err := json.Marshal(requestBody)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to marshal %s request: %w", apiName, err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to create HTTP request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(httpReq)
		if err != nil {
			return nil, 0, nil, err
		}
		defer resp.Body.Close()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, nil, fmt.Errorf("failed to read %s response body: %w", apiName, err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, bodyBytes, &ChatCompletionError{
				Message:    fmt.Sprintf("openai %s API error %d", apiName, resp.StatusCode),
				StatusCode: resp.StatusCode,
				RawBody:    json.RawMessage(bodyBytes),
			}
		}

		return bodyBytes, resp.StatusCode, bodyBytes, nil
	}
}
