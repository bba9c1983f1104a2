package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestLogger_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("restaurant-api", "debug", &buf)

	log.Error("order_complete", "req-1", "failed to complete order", errors.New("boom"), slog.Uint64("order_id", 7))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	checks := map[string]any{
		"level":      "ERROR",
		"msg":        "failed to complete order",
		"service":    "restaurant-api",
		"action":     "order_complete",
		"request_id": "req-1",
		"error":      "boom",
		"order_id":   float64(7),
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("svc", "warn", &buf)
	log.Info("noise", "", "should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %s", buf.String())
	}
	log.Warn("signal", "", "kept")
	if buf.Len() == 0 {
		t.Fatal("warn line was dropped")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestID_Context(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	if got := RequestID(ctx); got != "abc-123" {
		t.Errorf("RequestID() = %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID(empty) = %q", got)
	}
}
