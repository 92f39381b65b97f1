package advisoryobs

import (
	"context"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/trace"
	"market-advisor/internal/types"
)

// observableAdvisor wraps an Advisor with observability (logging & tracing)
type observableAdvisor struct {
	advisor interfaces.Advisor
}

var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap wraps an advisor with observability middleware
func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{advisor: advisor}
}

func (o *observableAdvisor) Advise(ctx context.Context, payload types.PromptPayload, opts types.AdviceOptions) (types.RawAdvisoryText, error) {
	ctx, span := trace.StartSpan(ctx, "advisory.Advise")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting advisory",
		"schema", payload.SchemaVersion,
		"model", opts.Model,
		"prompt_chars", len(payload.User),
		"timeout", opts.Timeout.String(),
	)

	out, err := o.advisor.Advise(ctx, payload, opts)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Advisory call failed", err, "model", opts.Model)
		return out, err
	}

	logger.InfoSkip(ctx, 1, "Advisory received",
		"model", out.Model,
		"chars", len(out.Text),
		"truncated", out.Truncated,
		"latency_ms", out.Latency.Milliseconds(),
	)
	if out.Truncated {
		logger.WarnSkip(ctx, 1, "Advisory output hit the token limit", "max_tokens", opts.MaxTokens)
	}
	return out, nil
}
