package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core)).Named("ingest")

	logger.Info("player ingested", "player", "Jayson Tatum", "games", 9, "error", errors.New("partial"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got=%d want=1 entries", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "ingest" {
		t.Fatalf("unexpected logger name: %q", e.LoggerName)
	}
	fields := e.ContextMap()
	if fields["player"] != "Jayson Tatum" || fields["games"] != int64(9) {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["error"] != "partial" {
		t.Fatalf("expected named error field, got %+v", fields["error"])
	}
}

func TestLogger_OddArgsAndLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(LevelWarn)
	logger := FromZap(zap.New(core))

	logger.Debug("hidden")
	logger.Warn("dangling", "stat")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got=%d want=1 entries", len(entries))
	}
	if _, ok := entries[0].ContextMap()["stat"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(LevelInfo)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "forecast served")
	logger.InfoContext(context.Background(), "no span")

	entries := logs.All()
	if got := entries[0].ContextMap()["trace_id"]; got != traceID.String() {
		t.Fatalf("got=%v want=%s", got, traceID)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatalf("expected no trace id without a span")
	}
}

func TestLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("ignored")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected nop logger")
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}
}
