package advisory

import (
	"context"
	"testing"
	"time"

	"market-advisor/internal/types"
)

type scriptedAdvisor struct {
	errs  []error
	calls int
}

func (s *scriptedAdvisor) Advise(ctx context.Context, p types.PromptPayload, o types.AdviceOptions) (types.RawAdvisoryText, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return types.RawAdvisoryText{}, s.errs[s.calls-1]
	}
	return types.RawAdvisoryText{Text: "ok"}, nil
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func TestWithRetryRecoversTransientFailures(t *testing.T) {
	s := &scriptedAdvisor{errs: []error{
		&types.AdvisoryError{Kind: types.AdvisoryNetwork},
		&types.AdvisoryError{Kind: types.AdvisoryRateLimit},
	}}
	out, err := WithRetry(s, fastPolicy(3)).Advise(context.Background(), payload, validOptions())
	if err != nil {
		t.Fatalf("Expected recovery, got %v", err)
	}
	if out.Text != "ok" || s.calls != 3 {
		t.Errorf("Expected 3 calls ending in ok, got %d calls and %+v", s.calls, out)
	}
}

func TestWithRetryStopsOnPermanentFailure(t *testing.T) {
	s := &scriptedAdvisor{errs: []error{&types.AdvisoryError{Kind: types.AdvisoryAuth}}}
	_, err := WithRetry(s, fastPolicy(3)).Advise(context.Background(), payload, validOptions())
	expectAdvisoryKind(t, err, types.AdvisoryAuth)
	if s.calls != 1 {
		t.Errorf("Expected a single call for AUTH, got %d", s.calls)
	}
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	timeout := &types.AdvisoryError{Kind: types.AdvisoryTimeout}
	s := &scriptedAdvisor{errs: []error{timeout, timeout, timeout, timeout}}
	_, err := WithRetry(s, fastPolicy(2)).Advise(context.Background(), payload, validOptions())
	expectAdvisoryKind(t, err, types.AdvisoryTimeout)
	if s.calls != 2 {
		t.Errorf("Expected 2 calls, got %d", s.calls)
	}
}

func TestWithRetrySingleAttemptIsPassthrough(t *testing.T) {
	s := &scriptedAdvisor{}
	if WithRetry(s, DefaultRetryPolicy()) != s {
		t.Error("Expected the advisor itself for a single-attempt policy")
	}
}

func TestWithRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &scriptedAdvisor{errs: []error{&types.AdvisoryError{Kind: types.AdvisoryNetwork}}}
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	go cancel()
	_, err := WithRetry(s, policy).Advise(ctx, payload, validOptions())
	expectAdvisoryKind(t, err, types.AdvisoryCancelled)
}

func TestBackoff(t *testing.T) {
	p := RetryPolicy{BaseDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}
	tests := map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 4 * time.Second, 4: 5 * time.Second}
	for n, want := range tests {
		if got := p.Backoff(n); got != want {
			t.Errorf("Backoff(%d) = %v, want %v", n, got, want)
		}
	}
}
