package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"market-advisor/internal/advicelog"
	"market-advisor/internal/advisory"
	"market-advisor/internal/advisory/advisoryobs"
	"market-advisor/internal/advisory/noop"
	"market-advisor/internal/advisory/openai"
	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/marketdata/finnhub"
	"market-advisor/internal/marketdata/marketdataobs"
	"market-advisor/internal/marketdata/static"
	"market-advisor/internal/pipeline"
	"market-advisor/internal/prompt"
	"market-advisor/internal/report"
	"market-advisor/internal/store"
	"market-advisor/internal/trace"
	"market-advisor/internal/types"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads the configuration file and the credentials it requires
func loadConfig(ctx context.Context, path string) (*store.Config, store.Credentials, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, store.Credentials{}, &store.ConfigError{Err: err}
	}

	creds, err := store.LoadCredentials(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Missing credentials", err)
		return nil, store.Credentials{}, err
	}
	return cfg, creds, nil
}

// loadMarketData reads prebuilt market data, or returns "" when no file is given
func loadMarketData(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to read market data file", err, "path", path)
		return "", &store.ConfigError{Err: fmt.Errorf("read market data: %w", err)}
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", &store.ConfigError{Err: fmt.Errorf("market data file %s is empty", path)}
	}
	logger.Info(ctx, "Using market data from file, fetching skipped", "path", path, "bytes", len(text))
	return text, nil
}

// initializeSource returns the configured market data source with observability
func initializeSource(ctx context.Context, cfg *store.Config, creds store.Credentials) interfaces.MarketDataSource {
	var src interfaces.MarketDataSource

	switch cfg.DataSource {
	case store.DataSourceFinnhub:
		logger.Info(ctx, "Using LIVE market data from Finnhub", "base_url", cfg.Finnhub.BaseURL)
		src = finnhub.New(finnhub.Params{
			APIKey:            creds.FinnhubAPIKey,
			BaseURL:           cfg.Finnhub.BaseURL,
			Timeout:           cfg.FinnhubTimeout(),
			RequestsPerMinute: cfg.Finnhub.RequestsPerMinute,
		})
	default:
		logger.Warn(ctx, "Using STATIC sample market data")
		src = static.New()
	}

	// Wrap with observability middleware
	return marketdataobs.Wrap(src)
}

// initializeAdvisor returns the configured advisor, retry policy applied, with observability
func initializeAdvisor(ctx context.Context, cfg *store.Config, creds store.Credentials) interfaces.Advisor {
	var completer interfaces.Completer

	switch cfg.LLM.Provider {
	case store.ProviderOpenAI:
		completer = openai.New(creds.OpenAIAPIKey, cfg.LLM.BaseURL)
	default:
		completer = noop.New()
		logger.Warn(ctx, "No LLM provider configured - using Noop advisor (always HOLD)")
	}

	policy := advisory.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.LLM.Retry.MaxAttempts
	policy.BaseDelay = cfg.RetryBaseDelay()
	policy.MaxDelay = cfg.RetryMaxDelay()
	policy.Multiplier = cfg.LLM.Retry.Multiplier

	// Observability sits inside the retry so every attempt gets its own span
	return advisory.WithRetry(advisoryobs.Wrap(advisory.NewClient(completer)), policy)
}

// initializeJournal returns the advice journal, or nil when disabled
func initializeJournal(ctx context.Context, cfg *store.Config) *advicelog.Writer {
	if !cfg.AdviceLog.Enabled {
		logger.Debug(ctx, "Advice journal disabled")
		return nil
	}
	return advicelog.New(cfg.AdviceLog.Dir)
}

// initializePipeline wires source, report builder, prompt composer and advisor
func initializePipeline(ctx context.Context, cfg *store.Config, creds store.Credentials, journal *advicelog.Writer, marketData string) *pipeline.Orchestrator {
	orchestrator := pipeline.New(
		initializeSource(ctx, cfg, creds),
		report.NewBuilder(cfg.News.MaxArticles),
		prompt.NewComposer(cfg.LLM.System),
		initializeAdvisor(ctx, cfg, creds),
		pipeline.Options{
			NewsCategory: cfg.News.Category,
			NewsMinID:    cfg.News.MinID,
			MarketData:   marketData,
			Advice: types.AdviceOptions{
				Model:       cfg.LLM.Model,
				Temperature: cfg.LLM.Temperature,
				MaxTokens:   cfg.LLM.MaxTokens,
				Timeout:     cfg.AdviceTimeout(),
			},
		},
	)
	if journal != nil {
		orchestrator.Journal = journal
	}
	return orchestrator
}

// compressOldJournals gzips journal files past the configured retention
func compressOldJournals(ctx context.Context, cfg *store.Config, journal *advicelog.Writer) {
	if journal == nil || cfg.AdviceLog.RetentionDays <= 0 {
		return
	}
	n, err := journal.CompressOlder(cfg.AdviceLog.RetentionDays)
	if err != nil {
		logger.Warn(ctx, "Failed to compress old journals", "error", err)
		return
	}
	if n > 0 {
		logger.Info(ctx, "Compressed old journals", "count", n, "dir", journal.Dir())
	}
}
