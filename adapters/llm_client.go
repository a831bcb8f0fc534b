package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/FrenchMajesty/text-analyzer/adapters/openai"
)

// DefaultLLMClient implements LLMClient using OpenAI
type DefaultLLMClient struct {
	client       openai.LanguageModelClient
	systemPrompt string
	model        string
	temperature  *float32 // Optional temperature. If nil, omit from request.
}

const (
	defaultModel     = "gpt-4.1-mini"
	defaultGroqModel = "llama-3.1-8b-instant"

	// GroqBaseURL is Groq's OpenAI compatible endpoint
	GroqBaseURL = "https://api.groq.com/openai/v1"
)

// PlatformSystemPrompt builds the instruction that restricts the LLM to the
// given platforms, answering unknown when none fits
func PlatformSystemPrompt(platforms []string, unknown string) string {
	return fmt.Sprintf(`You identify which social media platform a piece of text was written for.

Rules:
- Answer with exactly one of: %s
- If none of them fits, answer: %s
- Return ONLY the platform name in lowercase, nothing else`, strings.Join(platforms, ", "), unknown)
}

// NewDefaultLLMClient creates a new LLM client using OpenAI with API key from environment
func NewDefaultLLMClient(apiKey *string, systemPrompt string, model string, baseUrl string, temperature *float32) (*DefaultLLMClient, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	return newLLMClient(openai.NewClient(*key), systemPrompt, model, baseUrl, temperature)
}

// NewGroqLLMClient creates an LLM client that talks to Groq, reading
// GROQ_API_KEY when apiKey is nil
func NewGroqLLMClient(apiKey *string, systemPrompt string, model string, temperature *float32) (*DefaultLLMClient, error) {
	key, err := loadEnvVar(apiKey, "GROQ_API_KEY")
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = defaultGroqModel
	}

	return newLLMClient(openai.NewClient(*key), systemPrompt, model, GroqBaseURL, temperature)
}

func newLLMClient(client openai.LanguageModelClient, systemPrompt string, model string, baseUrl string, temperature *float32) (*DefaultLLMClient, error) {
	if systemPrompt == "" {
		return nil, fmt.Errorf("system prompt is required")
	}

	if baseUrl != "" {
		client.SetBaseURL(baseUrl)
	}

	instance := DefaultLLMClient{
		client:       client,
		systemPrompt: systemPrompt,
		model:        defaultModel,
		temperature:  temperature,
	}

	if model != "" {
		instance.model = model
	}

	return &instance, nil
}

// Classify asks the LLM for a label and returns it trimmed and lowercased
func (c *DefaultLLMClient) Classify(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatMessage{
			{
				Role:    openai.MessageRoleSystem,
				Content: &c.systemPrompt,
			},
			{
				Role:    openai.MessageRoleUser,
				Content: &text,
			},
		},
		MaxCompletionTokens: 20,
	}

	// Some models reject an explicit temperature
	if c.temperature != nil {
		req.Temperature = *c.temperature
	}

	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to get LLM response: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	label := strings.TrimSpace(*resp.Choices[0].Message.Content)
	return strings.ToLower(label), nil
}
