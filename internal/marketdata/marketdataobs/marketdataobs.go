package marketdataobs

import (
	"context"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/trace"
	"market-advisor/internal/types"
)

// observableSource wraps a MarketDataSource with logging and tracing
type observableSource struct {
	source interfaces.MarketDataSource
}

var _ interfaces.MarketDataSource = (*observableSource)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(source interfaces.MarketDataSource) interfaces.MarketDataSource {
	return &observableSource{source: source}
}

func (o *observableSource) FetchQuote(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.FetchQuote")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote", "symbol", symbol)
	q, err := o.source.FetchQuote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Quote fetch failed", err, "symbol", symbol)
		return q, err
	}
	logger.DebugSkip(ctx, 1, "Quote received", "symbol", q.Symbol, "price", q.Current, "change_pct", q.ChangePercent)
	return q, nil
}

func (o *observableSource) FetchProfile(ctx context.Context, symbol string) (types.CompanyProfile, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.FetchProfile")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching company profile", "symbol", symbol)
	p, err := o.source.FetchProfile(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Profile fetch failed", err, "symbol", symbol)
		return p, err
	}
	logger.DebugSkip(ctx, 1, "Profile received", "symbol", p.Symbol)
	return p, nil
}

func (o *observableSource) FetchNews(ctx context.Context, category string, minID int64) ([]types.NewsArticle, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.FetchNews")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching news", "category", category, "min_id", minID)
	news, err := o.source.FetchNews(ctx, category, minID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "News fetch failed", err, "category", category)
		return news, err
	}
	logger.DebugSkip(ctx, 1, "News received", "count", len(news))
	return news, nil
}
