// Package static is an offline market data source with fixed sample data.
package static

import (
	"context"
	"errors"
	"time"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/marketdata"
	"market-advisor/internal/types"
)

const sampleSymbol = "AAPL"

// Source serves canned AAPL data. Any other symbol is NOT_FOUND.
type Source struct{}

var _ interfaces.MarketDataSource = (*Source)(nil)

func New() *Source {
	return &Source{}
}

func (s *Source) FetchQuote(ctx context.Context, symbol string) (types.Quote, error) {
	symbol, err := s.lookup(ctx, marketdata.SourceQuote, symbol)
	if err != nil {
		return types.Quote{}, err
	}
	return types.Quote{
		Symbol:        symbol,
		Current:       252.29,
		Change:        4.84,
		ChangePercent: 1.96,
		High:          253.00,
		Low:           247.27,
		Open:          247.45,
		PreviousClose: 247.45,
	}, nil
}

func (s *Source) FetchProfile(ctx context.Context, symbol string) (types.CompanyProfile, error) {
	symbol, err := s.lookup(ctx, marketdata.SourceProfile, symbol)
	if err != nil {
		return types.CompanyProfile{}, err
	}
	return types.CompanyProfile{
		Symbol:    symbol,
		Name:      types.StringPtr("Apple Inc."),
		Industry:  types.StringPtr("Technology"),
		MarketCap: types.Float64Ptr(3744001.5),
		Exchange:  types.StringPtr("NASDAQ NMS - GLOBAL MARKET"),
		Website:   types.StringPtr("https://www.apple.com/"),
	}, nil
}

func (s *Source) FetchNews(ctx context.Context, category string, minID int64) ([]types.NewsArticle, error) {
	if err := marketdata.ValidateMinID(minID); err != nil {
		return nil, err
	}
	published := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	articles := []types.NewsArticle{
		{
			Headline:    "Apple unveils new iPhone lineup ahead of holiday season",
			Source:      "Reuters",
			URL:         "https://www.reuters.com/technology/apple-iphone-lineup",
			ID:          types.Int64Ptr(7001),
			PublishedAt: published,
		},
		{
			Headline:    "Tech stocks rally as rate cut expectations grow",
			Source:      "CNBC",
			URL:         "https://www.cnbc.com/tech-stocks-rally",
			ID:          types.Int64Ptr(7002),
			PublishedAt: published.Add(-2 * time.Hour),
		},
	}
	logger.Debug(ctx, "Serving static news", "category", category, "min_id", minID)
	return marketdata.FilterNews(articles, minID), nil
}

func (s *Source) lookup(ctx context.Context, source, symbol string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", types.NewFetchError(source, types.FailureNetwork, 0, err)
	}
	symbol, err := marketdata.ValidateSymbol(source, symbol)
	if err != nil {
		return "", err
	}
	if symbol != sampleSymbol {
		return "", types.NewFetchError(source, types.FailureNotFound, 0, errors.New("no sample data for "+symbol))
	}
	return symbol, nil
}
