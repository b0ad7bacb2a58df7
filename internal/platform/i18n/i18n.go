// Package i18n holds the English and Japanese message catalogs used for
// user-facing API errors and exported documents.
package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	supported = []language.Tag{language.Japanese, language.English}
	matcher   = language.NewMatcher(supported)

	knownMu sync.RWMutex
	known   = map[string]struct{}{}
)

func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag resolves a raw language value to one of the supported tags.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// MatchTags picks the best supported tag for an Accept-Language list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[idx]
}

// Has reports whether key has a registered translation.
func Has(key string) bool {
	knownMu.RLock()
	defer knownMu.RUnlock()
	_, ok := known[key]
	return ok
}

// Message renders key for tag. Unknown keys render as the empty string so
// callers can pick their own fallback.
func Message(tag language.Tag, key string, args ...any) string {
	if !Has(key) {
		return ""
	}
	return message.NewPrinter(tag).Sprintf(key, args...)
}

func set(tag language.Tag, key, msg string) {
	if err := message.SetString(tag, key, msg); err != nil {
		panic("i18n: register " + key + ": " + err.Error())
	}
	knownMu.Lock()
	known[key] = struct{}{}
	knownMu.Unlock()
}
