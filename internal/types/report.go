package types

import (
	"strings"
	"time"
)

// SectionName identifies a slot in a MarketReport.
type SectionName string

const (
	SectionQuote   SectionName = "Quote"
	SectionProfile SectionName = "Profile"
	SectionNews    SectionName = "News"

	// SectionSupplied holds market data provided by the caller instead of fetched.
	SectionSupplied SectionName = "Supplied Data"
)

// SectionOrder is the fixed order of report sections.
var SectionOrder = []SectionName{SectionQuote, SectionProfile, SectionNews}

// Section is either populated text or a failure marker with a reason.
type Section struct {
	Name   SectionName `json:"name"`
	Body   string      `json:"body"`
	Failed bool        `json:"failed"`
	Reason string      `json:"reason,omitempty"`
}

// MarketReport is the normalized input handed to the advisory step.
type MarketReport struct {
	Symbol      string    `json:"symbol"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Section returns the named section.
func (r MarketReport) Section(name SectionName) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// AllFailed reports whether no section carries data.
func (r MarketReport) AllFailed() bool {
	for _, s := range r.Sections {
		if !s.Failed {
			return false
		}
	}
	return true
}

// Text renders the report as plain text.
func (r MarketReport) Text() string {
	var b strings.Builder
	b.WriteString("Market Report: ")
	b.WriteString(r.Symbol)
	b.WriteString("\nGenerated: ")
	b.WriteString(r.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")
	for _, s := range r.Sections {
		b.WriteString("\n== ")
		b.WriteString(string(s.Name))
		b.WriteString(" ==\n")
		b.WriteString(s.Body)
		b.WriteString("\n")
	}
	return b.String()
}
