package types

import "time"

// PromptPayload is the instruction pair sent to the advisory provider.
type PromptPayload struct {
	SchemaVersion string `json:"schema_version"`
	System        string `json:"system"`
	User          string `json:"user"`
}

// AdviceOptions bound a single advisory call.
type AdviceOptions struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`
}

// RawAdvisoryText is the untrusted model output.
type RawAdvisoryText struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	// Truncated is set when the provider stopped at the output length limit.
	Truncated bool          `json:"truncated"`
	Latency   time.Duration `json:"latency"`
}

// CompletionRequest is what an advisory provider receives.
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// FinishLength is the finish reason reported when the output limit was hit.
const FinishLength = "length"

// Completion is what an advisory provider returns.
type Completion struct {
	Text         string
	FinishReason string
	Model        string
}
