package finnhub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-advisor/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Params{APIKey: "test-key", BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func expectKind(t *testing.T, err error, kind types.FailureKind) {
	t.Helper()
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if fe.Kind != kind {
		t.Errorf("Expected kind %s, got %s (%v)", kind, fe.Kind, err)
	}
}

func TestFetchQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("Expected normalized symbol AAPL, got %s", got)
		}
		if got := r.Header.Get("X-Finnhub-Token"); got != "test-key" {
			t.Errorf("Expected token header, got %q", got)
		}
		w.Write([]byte(`{"c":252.29,"d":4.84,"dp":1.96,"h":253.5,"l":247.27,"o":247.45,"pc":247.45,"t":1760472000}`))
	})

	q, err := client.FetchQuote(context.Background(), " aapl")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if q.Symbol != "AAPL" || q.Current != 252.29 || q.Change != 4.84 || q.ChangePercent != 1.96 {
		t.Errorf("Unexpected quote %+v", q)
	}
	if q.PreviousClose != 247.45 {
		t.Errorf("Expected previous close 247.45, got %v", q.PreviousClose)
	}
}

func TestFetchQuoteUnknownSymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	})

	_, err := client.FetchQuote(context.Background(), "ZZZZ")
	expectKind(t, err, types.FailureNotFound)
}

func TestFetchStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   types.FailureKind
	}{
		{http.StatusUnauthorized, types.FailureAuth},
		{http.StatusForbidden, types.FailureAuth},
		{http.StatusNotFound, types.FailureNotFound},
		{http.StatusTooManyRequests, types.FailureRateLimit},
		{http.StatusInternalServerError, types.FailureNetwork},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":"nope"}`))
		})
		_, err := client.FetchProfile(context.Background(), "AAPL")
		expectKind(t, err, tt.kind)

		var fe *types.FetchError
		errors.As(err, &fe)
		if fe.Status != tt.status {
			t.Errorf("Expected status %d recorded, got %d", tt.status, fe.Status)
		}
	}
}

func TestFetchMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	})
	_, err := client.FetchQuote(context.Background(), "AAPL")
	expectKind(t, err, types.FailureMalformed)
}

func TestFetchNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(Params{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second})
	_, err := client.FetchQuote(context.Background(), "AAPL")
	expectKind(t, err, types.FailureNetwork)
}

func TestFetchInvalidSymbolSkipsNetwork(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no request for an invalid symbol")
	})
	_, err := client.FetchQuote(context.Background(), "")
	expectKind(t, err, types.FailureInvalidRequest)
}

func TestFetchProfileOptionalFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/profile2" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"ticker":"AAPL","name":"Apple Inc","finnhubIndustry":"Technology","marketCapitalization":3744000.5,"exchange":"NASDAQ NMS - GLOBAL MARKET","weburl":""}`))
	})

	p, err := client.FetchProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name == nil || *p.Name != "Apple Inc" {
		t.Errorf("Unexpected name %v", p.Name)
	}
	if p.MarketCap == nil || *p.MarketCap != 3744000.5 {
		t.Errorf("Unexpected market cap %v", p.MarketCap)
	}
	if p.Website != nil {
		t.Errorf("Expected absent website to be nil, got %q", *p.Website)
	}
}

func TestFetchProfileEmptyObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	_, err := client.FetchProfile(context.Background(), "NOPE")
	expectKind(t, err, types.FailureNotFound)
}

func TestFetchNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "general" {
			t.Errorf("Expected category general, got %s", got)
		}
		if got := r.URL.Query().Get("minId"); got != "100" {
			t.Errorf("Expected minId 100, got %s", got)
		}
		w.Write([]byte(`[
			{"id":103,"headline":"Apple <b>beats</b> &amp; raises","source":"Reuters","url":"https://r/1","datetime":1760472000},
			{"id":102,"headline":"  Chips   rally\n","source":"CNBC","url":"https://c/2"},
			{"id":99,"headline":"Stale","source":"CNBC","url":"https://c/3"},
			{"id":101,"headline":"","source":"X","url":"https://x/4"}
		]`))
	})

	news, err := client.FetchNews(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("Expected 2 articles, got %d: %+v", len(news), news)
	}
	if news[0].Headline != "Apple beats & raises" {
		t.Errorf("Expected markup stripped, got %q", news[0].Headline)
	}
	if news[1].Headline != "Chips rally" {
		t.Errorf("Expected whitespace collapsed, got %q", news[1].Headline)
	}
	if news[0].ID == nil || *news[0].ID != 103 {
		t.Errorf("Expected id 103, got %v", news[0].ID)
	}
	if news[0].PublishedAt.IsZero() {
		t.Error("Expected publication time")
	}
}

func TestFetchNewsNegativeWatermark(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no request for a negative watermark")
	})
	_, err := client.FetchNews(context.Background(), "general", -1)
	expectKind(t, err, types.FailureInvalidRequest)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"AT&amp;T  deal", "AT&T deal"},
		{"<p>Fed <i>holds</i></p>", "Fed holds"},
		{"  spaced\tout\n text ", "spaced out text"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no request once the context is done")
	}))
	t.Cleanup(srv.Close)
	client := New(Params{APIKey: "k", BaseURL: srv.URL, RequestsPerMinute: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.FetchQuote(ctx, "AAPL")
	expectKind(t, err, types.FailureNetwork)
}
