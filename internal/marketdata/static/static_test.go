package static

import (
	"context"
	"errors"
	"testing"

	"market-advisor/internal/types"
)

func TestSampleSymbol(t *testing.T) {
	src := New()
	ctx := context.Background()

	q, err := src.FetchQuote(ctx, "aapl")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if q.Current != 252.29 || q.Change != 4.84 || q.ChangePercent != 1.96 {
		t.Errorf("Unexpected quote %+v", q)
	}

	p, err := src.FetchProfile(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name == nil || *p.Name != "Apple Inc." {
		t.Errorf("Unexpected profile name %v", p.Name)
	}

	news, err := src.FetchNews(ctx, "general", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(news) != 2 {
		t.Errorf("Expected 2 articles, got %d", len(news))
	}
}

func TestUnknownSymbolNotFound(t *testing.T) {
	_, err := New().FetchQuote(context.Background(), "MSFT")
	var fe *types.FetchError
	if !errors.As(err, &fe) || fe.Kind != types.FailureNotFound {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}

func TestNewsWatermark(t *testing.T) {
	news, err := New().FetchNews(context.Background(), "general", 7001)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(news) != 1 || *news[0].ID != 7002 {
		t.Errorf("Expected only article 7002, got %+v", news)
	}
}
