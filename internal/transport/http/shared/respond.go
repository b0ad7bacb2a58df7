package shared

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"hreval/internal/platform/i18n"
	"hreval/internal/platform/requestctx"
	"hreval/internal/transport/http/api"
)

// Fail writes an error envelope whose message is the localized text for
// code, falling back to fallback when no translation exists.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, fallback string) {
	api.Fail(w, status, code, Localize(r, code, fallback), requestctx.GetRequestID(r.Context()))
}

func Localize(r *http.Request, key, fallback string) string {
	tag := requestctx.GetLocale(r.Context(), i18n.DefaultTag())
	if msg := i18n.Message(tag, key); msg != "" {
		return msg
	}
	return fallback
}

// DecodeJSON decodes the body into dst and writes the failure response
// itself when the body is unreadable.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Fail(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		Fail(w, r, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return false
	}
	return true
}

func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if value := strings.TrimSpace(first); value != "" {
			return value
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
