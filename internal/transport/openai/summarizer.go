package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
)

// ChatModel is a summary generator using the OpenAI-compatible chat API.
// It implements usecase/summary.ChatModel.
type ChatModel struct {
	client *openai.Client
	model  string
}

// NewChatModel creates an OpenAI-compatible chat completion client.
func NewChatModel(apiKey, baseURL, model string) *ChatModel {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &ChatModel{client: openai.NewClientWithConfig(clientCfg), model: model}
}

// Complete generates a completion for the given prompts.
func (c *ChatModel) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", parseChatError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrSummaryProviderError)
	}
	return resp.Choices[0].Message.Content, nil
}

func parseChatError(err error) error {
	wrap := domain.ErrSummaryProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat completion failed: %w", wrap)
}
