// Package display renders a RunResult for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"market-advisor/internal/types"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	buy     lipgloss.Style
	hold    lipgloss.Style
	sell    lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1),
		header: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2),
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		buy:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		hold:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
		sell:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Render writes the header, the market report and the advisory outcome.
func Render(w io.Writer, res *types.RunResult) error {
	s := newStyles(w)
	var b strings.Builder

	generated := res.StartedAt
	if res.Report != nil {
		generated = res.Report.GeneratedAt
	}
	b.WriteString(s.title.Render("Market Advisor"))
	b.WriteString("\n")
	b.WriteString(s.header.Render(fmt.Sprintf("Analysis for: %s\nGenerated: %s",
		res.Symbol, generated.UTC().Format(time.RFC3339))))
	b.WriteString("\n\n")

	if res.Report != nil {
		b.WriteString(res.Report.Text())
		b.WriteString("\n")
	}

	switch res.Outcome {
	case types.OutcomeComplete:
		renderRecommendation(&b, s, res.Recommendation)
	case types.OutcomeRawFallback:
		renderFallback(&b, s, res)
	case types.OutcomeFailed:
		b.WriteString(s.failure.Render("Advisory failed"))
		b.WriteString("\n")
		b.WriteString(res.FailureText)
		b.WriteString("\n")
	case types.OutcomeCancelled:
		b.WriteString(s.warning.Render("Run cancelled before completion"))
		b.WriteString("\n")
	}

	if res.Advice != nil && res.Advice.Truncated {
		b.WriteString("\n")
		b.WriteString(s.warning.Render("Warning: advisory output was cut off at the token limit"))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderRecommendation(b *strings.Builder, s styles, rec *types.Recommendation) {
	if rec == nil {
		return
	}
	b.WriteString(s.label.Render("== Recommendation =="))
	b.WriteString("\n")
	fmt.Fprintf(b, "Recommendation: %s\n", s.action(rec.Action))
	fmt.Fprintf(b, "Confidence: %s\n", rec.Confidence)
	fmt.Fprintf(b, "Time Horizon: %s\n", rec.Horizon)
	writeList(b, "Key Arguments", rec.KeyArguments)
	writeList(b, "Risk Factors", rec.RiskFactors)
	fmt.Fprintf(b, "Summary: %s\n", rec.Summary)
}

func renderFallback(b *strings.Builder, s styles, res *types.RunResult) {
	b.WriteString(s.warning.Render("Structured parsing incomplete, showing the advisor's raw answer"))
	b.WriteString("\n")
	if rec := res.Recommendation; rec != nil && rec.Action != "" {
		fmt.Fprintf(b, "Detected recommendation: %s\n", s.action(rec.Action))
	}
	b.WriteString("\n")
	if res.Advice != nil {
		b.WriteString(res.Advice.Text)
	} else if res.Recommendation != nil {
		b.WriteString(res.Recommendation.Summary)
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(items) == 0 {
		b.WriteString("  - none given\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func (s styles) action(a types.Action) string {
	switch a {
	case types.ActionBuy:
		return s.buy.Render(string(a))
	case types.ActionSell:
		return s.sell.Render(string(a))
	case types.ActionHold:
		return s.hold.Render(string(a))
	}
	return s.muted.Render("N/A")
}

// RenderJSON writes the run result as indented JSON.
func RenderJSON(w io.Writer, res *types.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
