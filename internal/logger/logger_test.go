package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	if !New("development").Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("development logger should enable debug")
	}
	if New("production").Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("production logger should not enable debug")
	}
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).With(zap.String("request_id", "req-1"))

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx, nil).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Fatalf("request_id = %v", got)
	}
}

func TestFromContextFallback(t *testing.T) {
	fallback := zap.NewExample()
	if FromContext(context.Background(), fallback) != fallback {
		t.Fatalf("expected fallback logger")
	}
	if FromContext(context.Background(), nil) == nil {
		t.Fatalf("expected a no-op logger")
	}
}
