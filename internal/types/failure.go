package types

import (
	"errors"
	"fmt"
)

// FailureKind classifies a market data fetch failure.
type FailureKind string

const (
	FailureNetwork        FailureKind = "NETWORK"
	FailureAuth           FailureKind = "AUTH"
	FailureNotFound       FailureKind = "NOT_FOUND"
	FailureRateLimit      FailureKind = "RATE_LIMIT"
	FailureInvalidRequest FailureKind = "INVALID_REQUEST"
	FailureMalformed      FailureKind = "MALFORMED"
)

var failureReasons = map[FailureKind]string{
	FailureNetwork:        "network error",
	FailureAuth:           "authentication failed",
	FailureNotFound:       "not found",
	FailureRateLimit:      "rate limit exceeded",
	FailureInvalidRequest: "invalid request",
	FailureMalformed:      "malformed response",
}

// FetchError is returned by a MarketDataSource when one fetch fails.
type FetchError struct {
	Source string // quote, profile or news
	Kind   FailureKind
	Status int // HTTP status, 0 when not applicable
	Err    error
}

// Reason is the short human text rendered into a failed report section.
func (e *FetchError) Reason() string {
	reason, ok := failureReasons[e.Kind]
	if !ok {
		reason = string(e.Kind)
	}
	if e.Status != 0 {
		reason = fmt.Sprintf("%s (HTTP %d)", reason, e.Status)
	}
	if e.reasonHasCause() {
		reason = fmt.Sprintf("%s: %v", reason, e.Err)
	}
	return reason
}

// reasonHasCause reports whether Reason already carries Err.
func (e *FetchError) reasonHasCause() bool {
	return e.Status == 0 && e.Err != nil && e.Kind != FailureNetwork
}

func (e *FetchError) Error() string {
	if e.Err != nil && !e.reasonHasCause() {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError builds a FetchError for the given source.
func NewFetchError(source string, kind FailureKind, status int, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Status: status, Err: err}
}

// FailureReason returns the report reason for any error.
func FailureReason(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// AdvisoryKind classifies an advisory call failure.
type AdvisoryKind string

const (
	AdvisoryTimeout        AdvisoryKind = "TIMEOUT"
	AdvisoryNetwork        AdvisoryKind = "NETWORK"
	AdvisoryAuth           AdvisoryKind = "AUTH"
	AdvisoryRateLimit      AdvisoryKind = "RATE_LIMIT"
	AdvisoryEmptyResponse  AdvisoryKind = "EMPTY_RESPONSE"
	AdvisoryInvalidOptions AdvisoryKind = "INVALID_OPTIONS"
	AdvisoryCancelled      AdvisoryKind = "CANCELLED"
)

// AdvisoryError is the single fatal failure of a pipeline run.
type AdvisoryError struct {
	Kind AdvisoryKind
	Err  error
}

func (e *AdvisoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("advisory call failed: %s", e.Kind)
	}
	return fmt.Sprintf("advisory call failed: %s: %v", e.Kind, e.Err)
}

func (e *AdvisoryError) Unwrap() error {
	return e.Err
}

// Retryable reports whether resubmitting the same request may succeed.
func (e *AdvisoryError) Retryable() bool {
	switch e.Kind {
	case AdvisoryTimeout, AdvisoryNetwork, AdvisoryRateLimit:
		return true
	}
	return false
}
