package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"

	"github.com/marcus/resume-pilot/internal/config"
)

// OpenAIClient implements Client for the OpenAI chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg *config.Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, &Error{Provider: "openai", Message: "API key is required"}
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client:      &client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.TemperatureValue(),
	}, nil
}

// GenerateJSON sends the prompts with a JSON object response format and
// returns the model output.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model: c.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", &Error{Provider: "openai", Message: "chat completion failed", Cause: err}
	}

	if len(completion.Choices) == 0 {
		return "", &Error{Provider: "openai", Message: "no choices in response"}
	}

	return cleanJSONBlock(completion.Choices[0].Message.Content), nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Close is a no-op for the OpenAI client.
func (c *OpenAIClient) Close() error {
	return nil
}
