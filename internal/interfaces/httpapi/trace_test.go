package httpapi

import (
	"context"
	"testing"
)

func TestSpanFilters(t *testing.T) {
	spanNames := map[string]bool{
		"httpapi.Handler.CreateGame": true,
		"httpapi.Handler.Health":     true,
		"httpapi.RequestLogging":     false,
		"httpapi.writeError":         false,
	}
	for name, want := range spanNames {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", name, got, want)
		}
	}

	paths := map[string]bool{
		"/healthz":     false,
		" /health ":    false,
		"/readyz":      false,
		"/games":       true,
		"/api/games/1": true,
		"/":            true,
	}
	for path, want := range paths {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", path, got, want)
		}
	}
}

func TestStartSpan_WithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := startSpan(ctx, "httpapi.Handler.ListGames")
	defer span.End()

	if gotCtx != ctx {
		t.Fatalf("expected the caller context back")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a no-op span without a parent")
	}
}
