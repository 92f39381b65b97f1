// Package advisory performs the single LLM round trip of a pipeline run.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/types"
)

// Client turns a PromptPayload into raw advisory text through a Completer.
// It never retries; see WithRetry.
type Client struct {
	completer interfaces.Completer
}

var _ interfaces.Advisor = (*Client)(nil)

func NewClient(completer interfaces.Completer) *Client {
	return &Client{completer: completer}
}

// ValidateOptions rejects options the provider call cannot honour.
func ValidateOptions(opts types.AdviceOptions) error {
	switch {
	case strings.TrimSpace(opts.Model) == "":
		return errors.New("model must not be empty")
	case opts.Temperature < 0 || opts.Temperature > 1:
		return fmt.Errorf("temperature must be between 0.0-1.0, got %.2f", opts.Temperature)
	case opts.MaxTokens <= 0:
		return fmt.Errorf("max tokens must be positive, got %d", opts.MaxTokens)
	case opts.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", opts.Timeout)
	}
	return nil
}

// Advise performs one bounded completion call.
func (c *Client) Advise(ctx context.Context, payload types.PromptPayload, opts types.AdviceOptions) (types.RawAdvisoryText, error) {
	if err := ValidateOptions(opts); err != nil {
		return types.RawAdvisoryText{}, &types.AdvisoryError{Kind: types.AdvisoryInvalidOptions, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return types.RawAdvisoryText{}, contextFailure(err)
	}

	callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	completion, err := c.completer.Complete(callCtx, types.CompletionRequest{
		System:      payload.System,
		User:        payload.User,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	latency := time.Since(start)
	if err != nil {
		return types.RawAdvisoryText{}, classify(ctx, callCtx, err)
	}
	if strings.TrimSpace(completion.Text) == "" {
		return types.RawAdvisoryText{}, &types.AdvisoryError{Kind: types.AdvisoryEmptyResponse, Err: ErrEmptyResponse}
	}

	model := completion.Model
	if model == "" {
		model = opts.Model
	}
	return types.RawAdvisoryText{
		Text:      completion.Text,
		Model:     model,
		Truncated: completion.FinishReason == types.FinishLength,
		Latency:   latency,
	}, nil
}

func classify(parent, call context.Context, err error) *types.AdvisoryError {
	kind := types.AdvisoryNetwork
	switch {
	case errors.Is(err, ErrUnauthorized):
		kind = types.AdvisoryAuth
	case errors.Is(err, ErrRateLimited):
		kind = types.AdvisoryRateLimit
	case errors.Is(err, ErrEmptyResponse):
		kind = types.AdvisoryEmptyResponse
	case errors.Is(parent.Err(), context.Canceled):
		kind = types.AdvisoryCancelled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(call.Err(), context.DeadlineExceeded):
		kind = types.AdvisoryTimeout
	case errors.Is(err, context.Canceled):
		kind = types.AdvisoryCancelled
	}
	return &types.AdvisoryError{Kind: kind, Err: err}
}

func contextFailure(err error) *types.AdvisoryError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &types.AdvisoryError{Kind: types.AdvisoryTimeout, Err: err}
	}
	return &types.AdvisoryError{Kind: types.AdvisoryCancelled, Err: err}
}
