package advisory

import (
	"context"
	"errors"
	"math"
	"time"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/types"
)

// RetryPolicy bounds resubmission of a failed advisory call.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy makes a single attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 1,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// Backoff is the delay before the attempt following attempt n (1-based).
func (p RetryPolicy) Backoff(n int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(mult, float64(n-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	return time.Duration(delay)
}

type retryingAdvisor struct {
	next   interfaces.Advisor
	policy RetryPolicy
}

// WithRetry resubmits TIMEOUT, NETWORK and RATE_LIMIT failures with exponential backoff.
func WithRetry(next interfaces.Advisor, policy RetryPolicy) interfaces.Advisor {
	if policy.MaxAttempts <= 1 {
		return next
	}
	return &retryingAdvisor{next: next, policy: policy}
}

func (r *retryingAdvisor) Advise(ctx context.Context, payload types.PromptPayload, opts types.AdviceOptions) (types.RawAdvisoryText, error) {
	for attempt := 1; ; attempt++ {
		out, err := r.next.Advise(ctx, payload, opts)
		if err == nil {
			return out, nil
		}

		var ae *types.AdvisoryError
		if !errors.As(err, &ae) || !ae.Retryable() || attempt >= r.policy.MaxAttempts {
			return out, err
		}

		delay := r.policy.Backoff(attempt)
		logger.Warn(ctx, "Retrying advisory call",
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"kind", string(ae.Kind),
			"delay_ms", delay.Milliseconds(),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return types.RawAdvisoryText{}, contextFailure(ctx.Err())
		case <-timer.C:
		}
	}
}
