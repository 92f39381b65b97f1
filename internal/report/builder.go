// Package report normalizes fetched market data into a MarketReport.
package report

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"market-advisor/internal/types"
)

const (
	DefaultMaxArticles = 3
	notAvailable       = "N/A"
	noRecentNews       = "no recent news"
)

// Builder renders market data into report sections. It performs no I/O.
type Builder struct {
	// Now stamps GeneratedAt. Tests inject a fixed clock.
	Now         func() time.Time
	MaxArticles int
}

func NewBuilder(maxArticles int) *Builder {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	return &Builder{Now: time.Now, MaxArticles: maxArticles}
}

// Build always returns the three sections in order, marking failed inputs instead of omitting them.
func (b *Builder) Build(
	symbol string,
	quote types.Fetched[types.Quote],
	profile types.Fetched[types.CompanyProfile],
	news types.Fetched[[]types.NewsArticle],
) types.MarketReport {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	sections := make([]types.Section, 0, len(types.SectionOrder))

	if quote.OK() {
		sections = append(sections, section(types.SectionQuote, renderQuote(quote.Value)))
	} else {
		sections = append(sections, failed(types.SectionQuote, quote.Err))
	}

	if profile.OK() {
		sections = append(sections, section(types.SectionProfile, renderProfile(profile.Value)))
	} else {
		sections = append(sections, failed(types.SectionProfile, profile.Err))
	}

	if news.OK() {
		sections = append(sections, section(types.SectionNews, b.renderNews(news.Value)))
	} else {
		sections = append(sections, failed(types.SectionNews, news.Err))
	}

	return types.MarketReport{
		Symbol:      symbol,
		GeneratedAt: now().UTC().Truncate(time.Second),
		Sections:    sections,
	}
}

// FromText wraps market data supplied by the caller, such as the contents of a
// file, into a single-section report.
func (b *Builder) FromText(symbol, text string) types.MarketReport {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	sec := section(types.SectionSupplied, strings.TrimSpace(text))
	if sec.Body == "" {
		sec = failed(types.SectionSupplied, errors.New("no content"))
	}
	return types.MarketReport{
		Symbol:      symbol,
		GeneratedAt: now().UTC().Truncate(time.Second),
		Sections:    []types.Section{sec},
	}
}

func section(name types.SectionName, body string) types.Section {
	return types.Section{Name: name, Body: body}
}

func failed(name types.SectionName, err error) types.Section {
	reason := types.FailureReason(err)
	if reason == "" {
		reason = "unknown error"
	}
	return types.Section{
		Name:   name,
		Body:   fmt.Sprintf("%s unavailable: %s", name, reason),
		Failed: true,
		Reason: reason,
	}
}

func renderQuote(q types.Quote) string {
	lines := []string{
		"Current Price: " + money(q.Current),
		fmt.Sprintf("Change: %s (%s)", signedMoney(q.Change), signedPercent(q.ChangePercent)),
		"High: " + money(q.High),
		"Low: " + money(q.Low),
		"Open: " + money(q.Open),
		"Previous Close: " + money(q.PreviousClose),
	}
	return strings.Join(lines, "\n")
}

func renderProfile(p types.CompanyProfile) string {
	marketCap := notAvailable
	if p.MarketCap != nil {
		marketCap = "$" + humanize.Comma(int64(math.Round(*p.MarketCap))) + "M"
	}
	lines := []string{
		"Name: " + orNA(p.Name),
		"Industry: " + orNA(p.Industry),
		"Market Cap: " + marketCap,
		"Exchange: " + orNA(p.Exchange),
		"Website: " + orNA(p.Website),
	}
	return strings.Join(lines, "\n")
}

func (b *Builder) renderNews(articles []types.NewsArticle) string {
	if len(articles) == 0 {
		return noRecentNews
	}
	limit := b.MaxArticles
	if limit <= 0 {
		limit = DefaultMaxArticles
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}

	entries := make([]string, 0, len(articles))
	for i, a := range articles {
		entries = append(entries, fmt.Sprintf("%d. %s\n   Source: %s\n   URL: %s",
			i+1, a.Headline, orNA(types.StringPtr(a.Source)), orNA(types.StringPtr(a.URL))))
	}
	return strings.Join(entries, "\n\n")
}

func orNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return notAvailable
	}
	return *s
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}

func signedMoney(v float64) string {
	return fmt.Sprintf("%s$%.2f", sign(v), math.Abs(v))
}

func signedPercent(v float64) string {
	return fmt.Sprintf("%s%.2f%%", sign(v), math.Abs(v))
}
