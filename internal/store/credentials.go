package store

import (
	"fmt"
	"os"
	"strings"
)

// Credential environment variables.
const (
	EnvFinnhubAPIKey = "FINNHUB_API_KEY"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
)

// Credentials are the provider keys read from the process environment.
type Credentials struct {
	FinnhubAPIKey string
	OpenAIAPIKey  string
}

// ConfigError is a configuration problem detected before the pipeline starts.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration error: missing %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadCredentials reads the keys required by the selected adapters.
func LoadCredentials(cfg *Config) (Credentials, error) {
	return credentialsFrom(cfg, os.Getenv)
}

func credentialsFrom(cfg *Config, getenv func(string) string) (Credentials, error) {
	creds := Credentials{
		FinnhubAPIKey: strings.TrimSpace(getenv(EnvFinnhubAPIKey)),
		OpenAIAPIKey:  strings.TrimSpace(getenv(EnvOpenAIAPIKey)),
	}

	var missing []string
	if cfg.DataSource == DataSourceFinnhub && creds.FinnhubAPIKey == "" {
		missing = append(missing, EnvFinnhubAPIKey)
	}
	if cfg.LLM.Provider == ProviderOpenAI && creds.OpenAIAPIKey == "" {
		missing = append(missing, EnvOpenAIAPIKey)
	}
	if len(missing) > 0 {
		return creds, &ConfigError{Missing: missing}
	}
	return creds, nil
}
