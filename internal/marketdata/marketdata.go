// Package marketdata holds helpers shared by the market data sources.
package marketdata

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"market-advisor/internal/types"
)

// Source names used in FetchError.Source.
const (
	SourceQuote   = "quote"
	SourceProfile = "profile"
	SourceNews    = "news"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-:]{0,19}$`)

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol normalizes symbol and rejects anything that is not a ticker.
func ValidateSymbol(source, symbol string) (string, error) {
	s := NormalizeSymbol(symbol)
	if s == "" {
		return "", types.NewFetchError(source, types.FailureInvalidRequest, 0, errors.New("symbol must not be empty"))
	}
	if !symbolPattern.MatchString(s) {
		return "", types.NewFetchError(source, types.FailureInvalidRequest, 0, errors.New("symbol "+s+" is not a ticker"))
	}
	return s, nil
}

// ValidateMinID rejects negative pagination watermarks.
func ValidateMinID(minID int64) error {
	if minID < 0 {
		return types.NewFetchError(SourceNews, types.FailureInvalidRequest, 0, errors.New("min id must be non-negative"))
	}
	return nil
}

// KindForStatus maps an HTTP status to a failure kind. ok is false for success statuses.
func KindForStatus(status int) (kind types.FailureKind, failed bool) {
	switch {
	case status < 300:
		return "", false
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return types.FailureAuth, true
	case status == http.StatusNotFound:
		return types.FailureNotFound, true
	case status == http.StatusTooManyRequests:
		return types.FailureRateLimit, true
	default:
		return types.FailureNetwork, true
	}
}

// FilterNews drops articles at or below the watermark and repeated URLs, keeping order.
func FilterNews(articles []types.NewsArticle, minID int64) []types.NewsArticle {
	seen := make(map[string]bool, len(articles))
	out := make([]types.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if minID > 0 && a.ID != nil && *a.ID <= minID {
			continue
		}
		if a.URL != "" {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
		}
		out = append(out, a)
	}
	return out
}
