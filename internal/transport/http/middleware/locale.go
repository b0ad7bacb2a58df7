package middleware

import (
	"net/http"

	"golang.org/x/text/language"

	"hreval/internal/platform/i18n"
	"hreval/internal/platform/requestctx"
)

const LocaleCookie = "lang"

// Locale resolves the response language from ?lang=, the lang cookie and
// Accept-Language, in that order.
func Locale(fallback language.Tag) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := resolveLocale(r, fallback)
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(requestctx.WithLocale(r.Context(), tag)))
		})
	}
}

func resolveLocale(r *http.Request, fallback language.Tag) language.Tag {
	if tag, ok := i18n.ParseTag(r.URL.Query().Get("lang")); ok {
		return tag
	}
	if cookie, err := r.Cookie(LocaleCookie); err == nil {
		if tag, ok := i18n.ParseTag(cookie.Value); ok {
			return tag
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			return i18n.MatchTags(tags)
		}
	}
	return fallback
}
