package requestctx

import (
	"context"

	"golang.org/x/text/language"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	localeKey    ctxKey = "locale"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey, tag)
}

// GetLocale returns the request locale, or fallback when none was resolved.
func GetLocale(ctx context.Context, fallback language.Tag) language.Tag {
	if value, ok := ctx.Value(localeKey).(language.Tag); ok {
		return value
	}
	return fallback
}
