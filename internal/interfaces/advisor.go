package interfaces

import (
	"context"

	"market-advisor/internal/types"
)

// Completer is the LLM provider boundary.
type Completer interface {
	Complete(ctx context.Context, req types.CompletionRequest) (types.Completion, error)
}

// Advisor performs one advisory call. Failures are returned as *types.AdvisoryError.
type Advisor interface {
	Advise(ctx context.Context, payload types.PromptPayload, opts types.AdviceOptions) (types.RawAdvisoryText, error)
}
