package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/gepeto/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// Sampling settings for the fallback completion.
const (
	openAITemperature = 0.7
	openAIMaxTokens   = 1000
	openAITopP        = 1
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIProvider) Name() string { return KindOpenAI.String() }

func (o *OpenAIProvider) Send(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: openAITemperature,
		MaxTokens:   openAIMaxTokens,
		TopP:        openAITopP,
	})
	if err != nil {
		return "", &models.ProviderError{Provider: o.Name(), StatusCode: statusOf(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &models.ProviderError{Provider: o.Name(), Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// statusOf digs the HTTP status out of a go-openai error, or returns 0.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
