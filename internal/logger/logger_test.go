package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: level, Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO"}) })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err != nil {
			t.Fatalf("Bad log line %q: %v", l, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	buf := captureJSON(t, "WARN")
	ctx := context.Background()

	Debug(ctx, "debug message")
	Info(ctx, "info message")
	Warn(ctx, "warn message", "symbol", "AAPL")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("Expected only the warning, got %v", got)
	}
	if got[0]["msg"] != "warn message" || got[0]["symbol"] != "AAPL" {
		t.Errorf("Unexpected record %v", got[0])
	}
}

func TestRecommendationEvent(t *testing.T) {
	buf := captureJSON(t, "INFO")
	Recommendation(context.Background(), "AAPL", "BUY", "HIGH", true, "horizon", "LONG_TERM")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("Expected one record, got %d", len(got))
	}
	r := got[0]
	if r["type"] != "RECOMMENDATION" || r["action"] != "BUY" || r["parsed"] != true || r["horizon"] != "LONG_TERM" {
		t.Errorf("Unexpected record %v", r)
	}
}

func TestFetchFailureEvent(t *testing.T) {
	buf := captureJSON(t, "INFO")
	FetchFailure(context.Background(), "AAPL", "quote", "RATE_LIMIT", errors.New("429"))

	got := lines(t, buf)
	if len(got) != 1 || got[0]["level"] != "WARN" || got[0]["kind"] != "RATE_LIMIT" {
		t.Errorf("Unexpected records %v", got)
	}
}

func TestDetailedLoggingAddsSource(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: "ERROR", Format: "json", DetailedLogging: true, Output: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO"}) })

	Debug(context.Background(), "visible in detailed mode")
	got := lines(t, &buf)
	if len(got) != 1 {
		t.Fatalf("Expected detailed logging to force debug level, got %v", got)
	}
	src, ok := got[0]["source"].(map[string]any)
	if !ok || !strings.HasSuffix(src["file"].(string), "logger_test.go") {
		t.Errorf("Expected caller source, got %v", got[0]["source"])
	}
	if !IsDebugEnabled() {
		t.Error("Expected debug enabled")
	}
}

func TestOperationTimer(t *testing.T) {
	buf := captureJSON(t, "DEBUG")
	op := StartOperation(context.Background(), "fetch", "symbol", "AAPL")
	op.EndWithError(errors.New("boom"))

	got := lines(t, buf)
	if len(got) != 2 {
		t.Fatalf("Expected start and failure records, got %v", got)
	}
	if got[1]["msg"] != "Operation failed" || got[1]["operation"] != "fetch" {
		t.Errorf("Unexpected failure record %v", got[1])
	}
}
