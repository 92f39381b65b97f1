package interfaces

import (
	"context"

	"market-advisor/internal/types"
)

// MarketDataSource fetches the three independent inputs of a market report.
// Failures are returned as *types.FetchError.
type MarketDataSource interface {
	FetchQuote(ctx context.Context, symbol string) (types.Quote, error)
	FetchProfile(ctx context.Context, symbol string) (types.CompanyProfile, error)
	FetchNews(ctx context.Context, category string, minID int64) ([]types.NewsArticle, error)
}
