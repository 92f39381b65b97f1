package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Data sources and advisory providers.
const (
	DataSourceFinnhub = "FINNHUB"
	DataSourceStatic  = "STATIC"

	ProviderOpenAI = "OPENAI"
	ProviderNoop   = "NOOP"
)

type Config struct {
	Symbol     string `yaml:"symbol"`
	DataSource string `yaml:"data_source"`
	Finnhub    struct {
		BaseURL           string `yaml:"base_url"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
	} `yaml:"finnhub"`
	News struct {
		Category    string `yaml:"category"`
		MinID       int64  `yaml:"min_id"`
		MaxArticles int    `yaml:"max_articles"`
	} `yaml:"news"`
	LLM struct {
		Provider       string  `yaml:"provider"`
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		BaseURL        string  `yaml:"base_url"`
		System         string  `yaml:"system"`
		Retry          struct {
			MaxAttempts int     `yaml:"max_attempts"`
			BaseDelayMS int     `yaml:"base_delay_ms"`
			MaxDelayMS  int     `yaml:"max_delay_ms"`
			Multiplier  float64 `yaml:"multiplier"`
		} `yaml:"retry"`
	} `yaml:"llm"`
	AdviceLog struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"advice_log"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	c.LLM.Temperature = 0.7
	c.AdviceLog.Enabled = true
	return c
}

func (c *Config) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "AAPL"
	}
	if c.DataSource == "" {
		c.DataSource = DataSourceFinnhub
	}
	if c.Finnhub.BaseURL == "" {
		c.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Finnhub.TimeoutSeconds == 0 {
		c.Finnhub.TimeoutSeconds = 10
	}
	// Finnhub free tier
	if c.Finnhub.RequestsPerMinute == 0 {
		c.Finnhub.RequestsPerMinute = 60
	}
	if c.News.Category == "" {
		c.News.Category = "general"
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 3
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1500
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.LLM.Retry.MaxAttempts == 0 {
		c.LLM.Retry.MaxAttempts = 1
	}
	if c.LLM.Retry.BaseDelayMS == 0 {
		c.LLM.Retry.BaseDelayMS = 1000
	}
	if c.LLM.Retry.MaxDelayMS == 0 {
		c.LLM.Retry.MaxDelayMS = 30000
	}
	if c.LLM.Retry.Multiplier == 0 {
		c.LLM.Retry.Multiplier = 2.0
	}
	if c.AdviceLog.Dir == "" {
		c.AdviceLog.Dir = "logs"
	}
}

func (c *Config) Validate() error {
	c.DataSource = strings.ToUpper(c.DataSource)
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)

	if c.DataSource != DataSourceFinnhub && c.DataSource != DataSourceStatic {
		return fmt.Errorf("invalid data_source '%s': must be 'FINNHUB' or 'STATIC'", c.DataSource)
	}
	if c.LLM.Provider != ProviderOpenAI && c.LLM.Provider != ProviderNoop {
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI' or 'NOOP'", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm.temperature must be between 0.0-1.0, got %.2f", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.TimeoutSeconds < 0 || c.Finnhub.TimeoutSeconds < 0 {
		return errors.New("timeouts must be positive")
	}
	if c.LLM.Retry.MaxAttempts < 1 || c.LLM.Retry.MaxAttempts > 5 {
		return fmt.Errorf("llm.retry.max_attempts must be between 1-5, got %d", c.LLM.Retry.MaxAttempts)
	}
	if c.News.MinID < 0 {
		return fmt.Errorf("news.min_id must be non-negative, got %d", c.News.MinID)
	}
	if c.News.MaxArticles < 0 {
		return fmt.Errorf("news.max_articles must be non-negative, got %d", c.News.MaxArticles)
	}
	if c.Finnhub.RequestsPerMinute < 0 {
		return fmt.Errorf("finnhub.requests_per_minute must be non-negative, got %d", c.Finnhub.RequestsPerMinute)
	}
	return nil
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c := DefaultConfig()
		return c, c.Validate()
	}
	if err != nil {
		return nil, err
	}

	// Keys absent from the file keep their defaults.
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// FinnhubTimeout is the HTTP client timeout for the data provider.
func (c *Config) FinnhubTimeout() time.Duration {
	return time.Duration(c.Finnhub.TimeoutSeconds) * time.Second
}

// AdviceTimeout bounds the advisory call.
func (c *Config) AdviceTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// RetryBaseDelay is the first backoff of the advisory retry policy.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.LLM.Retry.BaseDelayMS) * time.Millisecond
}

// RetryMaxDelay caps the advisory retry backoff.
func (c *Config) RetryMaxDelay() time.Duration {
	return time.Duration(c.LLM.Retry.MaxDelayMS) * time.Millisecond
}
