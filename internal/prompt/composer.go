// Package prompt turns a MarketReport into the instruction pair for the advisor.
package prompt

import (
	"fmt"
	"strings"

	"market-advisor/internal/types"
)

// SchemaVersion identifies the output contract below. Bump it when the labels change.
const SchemaVersion = "v1"

const DefaultSystem = "You are an expert investment advisor providing clear, actionable recommendations."

// Field labels requested from the advisor, in order.
const (
	LabelRecommendation = "RECOMMENDATION"
	LabelConfidence     = "CONFIDENCE"
	LabelKeyArguments   = "KEY ARGUMENTS"
	LabelRiskFactors    = "RISK FACTORS"
	LabelTimeHorizon    = "TIME HORIZON"
	LabelSummary        = "SUMMARY"
)

const noDataNote = "NOTE: No market data could be obtained for this symbol. Every section above is unavailable. " +
	"Say so explicitly and keep the recommendation conservative."

// Composer builds prompt payloads. It performs no I/O.
type Composer struct {
	System string
}

func NewComposer(system string) *Composer {
	if strings.TrimSpace(system) == "" {
		system = DefaultSystem
	}
	return &Composer{System: system}
}

// Compose embeds the report text and the labeled output contract.
func (c *Composer) Compose(symbol string, report types.MarketReport) types.PromptPayload {
	system := c.System
	if system == "" {
		system = DefaultSystem
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following market data for %s and provide a clear investment recommendation.\n\n", symbol)
	b.WriteString("Market Data:\n")
	b.WriteString(report.Text())
	b.WriteString("\n")
	if report.AllFailed() {
		b.WriteString(noDataNote)
		b.WriteString("\n\n")
	}

	b.WriteString("Answer using exactly these labeled sections, each label at the start of its own line:\n")
	fmt.Fprintf(&b, "%s: BUY, HOLD, or SELL\n", LabelRecommendation)
	fmt.Fprintf(&b, "%s: High, Medium, or Low\n", LabelConfidence)
	fmt.Fprintf(&b, "%s: 3-4 bullet points, one per line starting with \"- \"\n", LabelKeyArguments)
	fmt.Fprintf(&b, "%s: 2-3 bullet points, one per line starting with \"- \"\n", LabelRiskFactors)
	fmt.Fprintf(&b, "%s: Short-term, Medium-term, or Long-term\n", LabelTimeHorizon)
	fmt.Fprintf(&b, "%s: 2-3 sentences\n", LabelSummary)

	return types.PromptPayload{
		SchemaVersion: SchemaVersion,
		System:        system,
		User:          b.String(),
	}
}
