package recommendation

import (
	"strings"
	"testing"

	"market-advisor/internal/types"
)

const markdownAnswer = `### 1. OVERALL RECOMMENDATION: **BUY**

### 2. CONFIDENCE LEVEL: Medium

### 3. KEY ARGUMENTS
- **Strong earnings:** iPhone sales up 15% YoY
- New AI features should drive an upgrade cycle
  that lasts into next year
- Services revenue keeps growing

### 4. RISK FACTORS (2-3 potential concerns)
1. Regulatory pressure in the EU
2. Valuation is stretched, and the stock is at risk of a pullback

### 5. TIME HORIZON: Long-term

### 6. BRIEF SUMMARY
Apple remains a quality compounder.
Buy on weakness.`

func TestParseMarkdownAnswer(t *testing.T) {
	r := Parse("AAPL", markdownAnswer)

	if !r.Parsed {
		t.Fatalf("Expected parsed recommendation, got %+v", r)
	}
	if r.Action != types.ActionBuy {
		t.Errorf("Expected BUY, got %s", r.Action)
	}
	if r.Confidence != types.ConfidenceMedium {
		t.Errorf("Expected MEDIUM, got %s", r.Confidence)
	}
	if r.Horizon != types.HorizonLong {
		t.Errorf("Expected LONG_TERM, got %s", r.Horizon)
	}
	if len(r.KeyArguments) != 3 {
		t.Fatalf("Expected 3 key arguments, got %q", r.KeyArguments)
	}
	if r.KeyArguments[0] != "Strong earnings: iPhone sales up 15% YoY" {
		t.Errorf("Expected emphasis removed, got %q", r.KeyArguments[0])
	}
	if r.KeyArguments[1] != "New AI features should drive an upgrade cycle that lasts into next year" {
		t.Errorf("Expected continuation line joined, got %q", r.KeyArguments[1])
	}
	if len(r.RiskFactors) != 2 || r.RiskFactors[0] != "Regulatory pressure in the EU" {
		t.Errorf("Unexpected risk factors %q", r.RiskFactors)
	}
	if r.Summary != "Apple remains a quality compounder. Buy on weakness." {
		t.Errorf("Unexpected summary %q", r.Summary)
	}
	if r.Raw != markdownAnswer {
		t.Error("Expected raw text preserved")
	}
}

func TestParsePlainLabels(t *testing.T) {
	text := "Recommendation - sell\nConfidence: low\nArguments:\n* Margins are shrinking\nRisks: Short squeeze\nHorizon: short term\nSummary: Trim the position."
	r := Parse("X", text)
	if !r.Parsed {
		t.Fatalf("Expected parsed recommendation, got %+v", r)
	}
	if r.Action != types.ActionSell || r.Confidence != types.ConfidenceLow || r.Horizon != types.HorizonShort {
		t.Errorf("Unexpected enums %s %s %s", r.Action, r.Confidence, r.Horizon)
	}
	if len(r.RiskFactors) != 1 || r.RiskFactors[0] != "Short squeeze" {
		t.Errorf("Expected heading remainder as an entry, got %q", r.RiskFactors)
	}
}

func TestParseFirstWordWins(t *testing.T) {
	r := Parse("X", "RECOMMENDATION: HOLD rather than BUY\nCONFIDENCE: High")
	if r.Action != types.ActionHold {
		t.Errorf("Expected first action word HOLD, got %s", r.Action)
	}
}

func TestParseFirstLabelWins(t *testing.T) {
	text := "RECOMMENDATION: BUY\nSUMMARY: first\nRECOMMENDATION: SELL"
	r := Parse("X", text)
	if r.Action != types.ActionBuy {
		t.Errorf("Expected first RECOMMENDATION to count, got %s", r.Action)
	}
	if r.Summary != "first" {
		t.Errorf("Expected repeated label to end the summary span, got %q", r.Summary)
	}
}

func TestParseKeyRisksHeading(t *testing.T) {
	text := `RECOMMENDATION: BUY
CONFIDENCE: High
KEY ARGUMENTS:
- Strong iPhone cycle
- Services growth
Key Risks:
- Regulation
- China exposure
TIME HORIZON: Long-term
SUMMARY: Buy the dip.`
	r := Parse("AAPL", text)
	if got := strings.Join(r.KeyArguments, "|"); got != "Strong iPhone cycle|Services growth" {
		t.Errorf("Expected two key arguments, got %q", r.KeyArguments)
	}
	if got := strings.Join(r.RiskFactors, "|"); got != "Regulation|China exposure" {
		t.Errorf("Expected risks under Key Risks, got %q", r.RiskFactors)
	}
	if !r.Parsed {
		t.Errorf("Expected parsed recommendation, got %+v", r)
	}
}

func TestParseNumberedEntryDoesNotTakeHeading(t *testing.T) {
	text := `RECOMMENDATION: BUY
CONFIDENCE: Medium
KEY ARGUMENTS:
1. Strong iPhone cycle
2. Risk: limited downside given buybacks
RISK FACTORS:
- Regulation
TIME HORIZON: Medium-term
SUMMARY: Accumulate slowly.`
	r := Parse("AAPL", text)
	if len(r.KeyArguments) != 2 || r.KeyArguments[1] != "Risk: limited downside given buybacks" {
		t.Errorf("Expected numbered risk line to stay an argument, got %q", r.KeyArguments)
	}
	if len(r.RiskFactors) != 1 || r.RiskFactors[0] != "Regulation" {
		t.Errorf("Expected only the real risk factors, got %q", r.RiskFactors)
	}
	if r.Horizon != types.HorizonMedium {
		t.Errorf("Expected MEDIUM_TERM, got %s", r.Horizon)
	}
}

func TestParseNumberedHeadingsInsideLists(t *testing.T) {
	text := `1. RECOMMENDATION: SELL
2. CONFIDENCE: Low
3. KEY ARGUMENTS:
1. Margins are shrinking
2. Demand is slowing
4. RISK FACTORS:
1. Short squeeze
5. TIME HORIZON: Short-term
6. SUMMARY: Reduce exposure.`
	r := Parse("X", text)
	if !r.Parsed {
		t.Fatalf("Expected parsed recommendation, got %+v", r)
	}
	if len(r.KeyArguments) != 2 {
		t.Errorf("Expected 2 key arguments, got %q", r.KeyArguments)
	}
	if len(r.RiskFactors) != 1 || r.RiskFactors[0] != "Short squeeze" {
		t.Errorf("Unexpected risk factors %q", r.RiskFactors)
	}
	if r.Horizon != types.HorizonShort || r.Summary != "Reduce exposure." {
		t.Errorf("Unexpected horizon %s or summary %q", r.Horizon, r.Summary)
	}
}

func TestParseLabelsSharingALine(t *testing.T) {
	text := "Recommendation: BUY. Confidence: High. Time Horizon: long-term.\nKey Arguments:\n- Cash flow\nSummary: Solid."
	r := Parse("X", text)
	if r.Action != types.ActionBuy {
		t.Errorf("Expected BUY, got %s", r.Action)
	}
	if r.Confidence != types.ConfidenceHigh {
		t.Errorf("Expected HIGH, got %s", r.Confidence)
	}
	if r.Horizon != types.HorizonLong {
		t.Errorf("Expected LONG_TERM, got %s", r.Horizon)
	}
	if !r.Parsed {
		t.Errorf("Expected parsed recommendation, got %+v", r)
	}
}

func TestParseUnmarkedListLines(t *testing.T) {
	text := "KEY ARGUMENTS:\nStrong iPhone cycle\nServices growth\nSolid balance sheet"
	r := Parse("X", text)
	if got := strings.Join(r.KeyArguments, "|"); got != "Strong iPhone cycle|Services growth|Solid balance sheet" {
		t.Errorf("Expected one entry per unmarked line, got %q", r.KeyArguments)
	}
}

func TestParseProseIsNotAHeading(t *testing.T) {
	text := "Our recommendation is to wait.\nThe risk is high, summary below."
	r := Parse("X", text)
	if r.Summary != text || r.Parsed || r.Action != "" {
		t.Errorf("Expected raw fallback for prose, got %+v", r)
	}
}

func TestParseBulletedLabelIsNotAHeading(t *testing.T) {
	text := "KEY ARGUMENTS:\n- Risk: supply chain\n- Demand is strong"
	r := Parse("X", text)
	if len(r.KeyArguments) != 2 {
		t.Errorf("Expected bulleted risk to remain an argument, got %q", r.KeyArguments)
	}
	if len(r.RiskFactors) != 0 {
		t.Errorf("Expected no risk factors, got %q", r.RiskFactors)
	}
}

func TestParseNoLabels(t *testing.T) {
	for _, text := range []string{"", "I cannot give financial advice.", "\n\n  \r\n"} {
		r := Parse("X", text)
		if r.Parsed || r.Summary != text || r.Action != "" || r.Confidence != "" || r.Horizon != "" {
			t.Errorf("Expected raw fallback for %q, got %+v", text, r)
		}
	}
}

func TestParsePartialKeepsFields(t *testing.T) {
	text := "RECOMMENDATION: BUY\nCONFIDENCE: sure"
	r := Parse("X", text)
	if r.Parsed {
		t.Error("Expected Parsed=false for a partial answer")
	}
	if r.Action != types.ActionBuy {
		t.Errorf("Expected extracted action kept, got %s", r.Action)
	}
	if r.Confidence != "" {
		t.Errorf("Expected unrecognized confidence left unset, got %s", r.Confidence)
	}
	if r.Summary != text {
		t.Errorf("Expected raw text as summary, got %q", r.Summary)
	}
}

func TestParseListCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("KEY ARGUMENTS:\n")
	for i := 0; i < 10; i++ {
		b.WriteString("- point\n")
	}
	r := Parse("X", b.String())
	if len(r.KeyArguments) != types.MaxKeyArguments {
		t.Errorf("Expected %d arguments, got %d", types.MaxKeyArguments, len(r.KeyArguments))
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	text := strings.ReplaceAll(markdownAnswer, "\n", "\r\n")
	r := Parse("AAPL", text)
	if !r.Parsed || r.Action != types.ActionBuy {
		t.Errorf("Expected CRLF answer to parse, got %+v", r)
	}
}
