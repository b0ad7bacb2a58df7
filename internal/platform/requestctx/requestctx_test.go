package requestctx

import (
	"context"
	"testing"

	"golang.org/x/text/language"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

func TestLocaleFallback(t *testing.T) {
	if got := GetLocale(context.Background(), language.Japanese); got != language.Japanese {
		t.Fatalf("expected fallback, got %v", got)
	}
	ctx := WithLocale(context.Background(), language.English)
	if got := GetLocale(ctx, language.Japanese); got != language.English {
		t.Fatalf("expected english, got %v", got)
	}
}
