package types

import "time"

// State is a pipeline run state.
type State string

const (
	StateIdle            State = "IDLE"
	StateFetchingData    State = "FETCHING_DATA"
	StateBuildingReport  State = "BUILDING_REPORT"
	StateComposingPrompt State = "COMPOSING_PROMPT"
	StateAwaitingAdvice  State = "AWAITING_ADVICE"
	StateParsingResult   State = "PARSING_RESULT"
	StateDone            State = "DONE"
	StateFailed          State = "FAILED"
	StateCancelled       State = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCancelled
}

// Outcome is the user-visible classification of a finished run.
type Outcome string

const (
	OutcomeComplete    Outcome = "COMPLETE"
	OutcomeRawFallback Outcome = "RAW_FALLBACK"
	OutcomeFailed      Outcome = "FAILED"
	OutcomeCancelled   Outcome = "CANCELLED"
)

// RunResult is everything one pipeline run produced.
type RunResult struct {
	Symbol         string           `json:"symbol"`
	State          State            `json:"state"`
	Transitions    []State          `json:"transitions"`
	Outcome        Outcome          `json:"outcome"`
	Report         *MarketReport    `json:"report,omitempty"`
	Payload        *PromptPayload   `json:"-"`
	Advice         *RawAdvisoryText `json:"advice,omitempty"`
	Recommendation *Recommendation  `json:"recommendation,omitempty"`
	Failure        *AdvisoryError   `json:"-"`
	FailureText    string           `json:"failure,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
	Duration       time.Duration    `json:"duration"`
}
