package types

import "time"

// Quote is a point-in-time price snapshot in the provider's currency.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
}

// CompanyProfile describes the issuer. A nil field was not reported by the provider.
// MarketCap is expressed in millions of the listing currency.
type CompanyProfile struct {
	Symbol    string   `json:"symbol"`
	Name      *string  `json:"name,omitempty"`
	Industry  *string  `json:"industry,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
	Exchange  *string  `json:"exchange,omitempty"`
	Website   *string  `json:"website,omitempty"`
}

// NewsArticle is a single headline from the provider's news feed.
type NewsArticle struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	ID          *int64    `json:"id,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Fetched carries either a payload or the failure that prevented fetching it.
type Fetched[T any] struct {
	Value T
	Err   error
}

// OK reports whether the fetch succeeded.
func (f Fetched[T]) OK() bool {
	return f.Err == nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}
