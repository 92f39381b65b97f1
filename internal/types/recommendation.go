package types

// Action is the recommended position. The zero value means unset.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// Confidence is the advisor's stated certainty. The zero value means unset.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Horizon is the investment time frame. The zero value means unset.
type Horizon string

const (
	HorizonShort  Horizon = "SHORT_TERM"
	HorizonMedium Horizon = "MEDIUM_TERM"
	HorizonLong   Horizon = "LONG_TERM"
)

// Upper bounds on the extracted lists.
const (
	MaxKeyArguments = 6
	MaxRiskFactors  = 6
)

// Recommendation is the structured result extracted from the advisor's text.
type Recommendation struct {
	Symbol       string     `json:"symbol"`
	Action       Action     `json:"action,omitempty"`
	Confidence   Confidence `json:"confidence,omitempty"`
	KeyArguments []string   `json:"key_arguments"`
	RiskFactors  []string   `json:"risk_factors"`
	Horizon      Horizon    `json:"horizon,omitempty"`
	Summary      string     `json:"summary"`
	// Parsed is false when structured extraction fell back to raw text.
	Parsed bool   `json:"parsed"`
	Raw    string `json:"-"`
}
