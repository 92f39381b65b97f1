package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/marketdata"
	"market-advisor/internal/types"
)

const DefaultBaseURL = "https://finnhub.io/api/v1"

// Params configures the Finnhub client.
type Params struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int // 0 disables client-side limiting
}

// Client fetches quotes, profiles and news from the Finnhub REST API.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

var _ interfaces.MarketDataSource = (*Client)(nil)

func New(p Params) *Client {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// The token travels in a header so it never shows up in logged URLs.
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("X-Finnhub-Token", p.APIKey).
		SetHeader("Accept", "application/json")

	var limiter *rate.Limiter
	if p.RequestsPerMinute > 0 {
		burst := p.RequestsPerMinute
		if burst > 10 {
			burst = 10
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.RequestsPerMinute)), burst)
	}

	return &Client{http: client, limiter: limiter}
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

type profileResponse struct {
	Ticker               string   `json:"ticker"`
	Name                 string   `json:"name"`
	FinnhubIndustry      string   `json:"finnhubIndustry"`
	MarketCapitalization *float64 `json:"marketCapitalization"`
	Exchange             string   `json:"exchange"`
	WebURL               string   `json:"weburl"`
}

type newsResponse struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// FetchQuote gets the real-time quote for symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (types.Quote, error) {
	symbol, err := marketdata.ValidateSymbol(marketdata.SourceQuote, symbol)
	if err != nil {
		return types.Quote{}, err
	}

	var q quoteResponse
	if err := c.get(ctx, marketdata.SourceQuote, "/quote", map[string]string{"symbol": symbol}, &q); err != nil {
		return types.Quote{}, err
	}

	// Finnhub answers unknown symbols with an all-zero quote.
	if q.Current == 0 && q.Timestamp == 0 && q.PreviousClose == 0 {
		return types.Quote{}, types.NewFetchError(marketdata.SourceQuote, types.FailureNotFound, 0, errors.New("no quote for "+symbol))
	}

	return types.Quote{
		Symbol:        symbol,
		Current:       q.Current,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
	}, nil
}

// FetchProfile gets the company profile for symbol.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (types.CompanyProfile, error) {
	symbol, err := marketdata.ValidateSymbol(marketdata.SourceProfile, symbol)
	if err != nil {
		return types.CompanyProfile{}, err
	}

	var p profileResponse
	if err := c.get(ctx, marketdata.SourceProfile, "/stock/profile2", map[string]string{"symbol": symbol}, &p); err != nil {
		return types.CompanyProfile{}, err
	}

	// Unknown symbols come back as {}.
	if p.Ticker == "" && p.Name == "" {
		return types.CompanyProfile{}, types.NewFetchError(marketdata.SourceProfile, types.FailureNotFound, 0, errors.New("no profile for "+symbol))
	}

	return types.CompanyProfile{
		Symbol:    symbol,
		Name:      types.StringPtr(strings.TrimSpace(p.Name)),
		Industry:  types.StringPtr(strings.TrimSpace(p.FinnhubIndustry)),
		MarketCap: p.MarketCapitalization,
		Exchange:  types.StringPtr(strings.TrimSpace(p.Exchange)),
		Website:   types.StringPtr(strings.TrimSpace(p.WebURL)),
	}, nil
}

// FetchNews gets market news for category, newer than minID when minID > 0.
func (c *Client) FetchNews(ctx context.Context, category string, minID int64) ([]types.NewsArticle, error) {
	if err := marketdata.ValidateMinID(minID); err != nil {
		return nil, err
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "general"
	}

	var items []newsResponse
	params := map[string]string{
		"category": category,
		"minId":    strconv.FormatInt(minID, 10),
	}
	if err := c.get(ctx, marketdata.SourceNews, "/news", params, &items); err != nil {
		return nil, err
	}

	articles := make([]types.NewsArticle, 0, len(items))
	for _, item := range items {
		a := types.NewsArticle{
			Headline: PlainText(item.Headline),
			Source:   strings.TrimSpace(item.Source),
			URL:      strings.TrimSpace(item.URL),
		}
		if item.ID != 0 {
			a.ID = types.Int64Ptr(item.ID)
		}
		if item.DateTime > 0 {
			a.PublishedAt = time.Unix(item.DateTime, 0).UTC()
		}
		if a.Headline == "" {
			continue
		}
		articles = append(articles, a)
	}

	return marketdata.FilterNews(articles, minID), nil
}

func (c *Client) get(ctx context.Context, source, path string, params map[string]string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return types.NewFetchError(source, types.FailureNetwork, 0, err)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return types.NewFetchError(source, types.FailureNetwork, 0, err)
	}

	if kind, failed := marketdata.KindForStatus(resp.StatusCode()); failed {
		return types.NewFetchError(source, kind, resp.StatusCode(), errors.New(snippet(resp.String())))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return types.NewFetchError(source, types.FailureMalformed, 0, err)
	}
	return nil
}

// PlainText strips markup and collapses whitespace in provider text.
func PlainText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

func snippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > 200 {
		return body[:200]
	}
	return body
}
