package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/marcus/resume-pilot/internal/config"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, cfg *config.Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &Error{Provider: "gemini", Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &Error{Provider: "gemini", Message: "failed to create client", Cause: err}
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.TemperatureValue(),
	}, nil
}

// GenerateJSON sends the prompts with a JSON response MIME type and
// returns the model output.
func (c *GeminiClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(c.temperature))
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", &Error{Provider: "gemini", Message: "failed to generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return cleanJSONBlock(text), nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &Error{Provider: "gemini", Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &Error{Provider: "gemini", Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &Error{Provider: "gemini", Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
