package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"market-advisor/internal/advisory"
	"market-advisor/internal/interfaces"
	"market-advisor/internal/types"
)

// Completer sends chat completions to the OpenAI API.
type Completer struct {
	client *openai.Client
}

var _ interfaces.Completer = (*Completer)(nil)

// New creates a completer. An empty baseURL uses the public API endpoint.
func New(apiKey, baseURL string) *Completer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Completer{client: openai.NewClientWithConfig(cfg)}
}

func (c *Completer) Complete(ctx context.Context, req types.CompletionRequest) (types.Completion, error) {
	temperature := req.Temperature
	// go-openai drops a zero temperature from the request body.
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return types.Completion{}, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return types.Completion{}, advisory.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	return types.Completion{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
	}, nil
}

func mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", advisory.ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", advisory.ErrRateLimited, err)
	}
	return fmt.Errorf("openai completion failed: %w", err)
}
