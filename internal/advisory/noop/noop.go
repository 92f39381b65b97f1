package noop

import (
	"context"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/types"
)

const cannedAdvice = `RECOMMENDATION: HOLD
CONFIDENCE: Low
KEY ARGUMENTS:
- No advisory model is configured, so no analysis was performed
- Holding avoids acting on unreviewed market data
RISK FACTORS:
- This answer ignores the supplied market report
TIME HORIZON: Short-term
SUMMARY: Offline advisor fallback. Configure an LLM provider for a real recommendation.`

// Completer is a fallback used when no LLM provider is configured. It always advises HOLD.
type Completer struct{}

var _ interfaces.Completer = (*Completer)(nil)

func New() *Completer {
	return &Completer{}
}

func (c *Completer) Complete(ctx context.Context, req types.CompletionRequest) (types.Completion, error) {
	logger.Debug(ctx, "Noop completer called - always returns HOLD", "model", req.Model)
	if err := ctx.Err(); err != nil {
		return types.Completion{}, err
	}
	return types.Completion{Text: cannedAdvice, FinishReason: "stop", Model: "noop"}, nil
}
