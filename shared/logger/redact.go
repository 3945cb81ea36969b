package logger

import (
	"log/slog"
	"strings"
)

// Redacted replaces secret material in log output.
const Redacted = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"key":           {},
	"api_key":       {},
	"apikey":        {},
	"token":         {},
	"authorization": {},
	"credential":    {},
	"secret":        {},
	"password":      {},
}

// IsSensitiveKey reports whether an attribute or header name carries secret material.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	if _, ok := sensitiveKeys[k]; ok {
		return true
	}
	return strings.HasSuffix(k, "_token") || strings.HasSuffix(k, "_api_key") || strings.HasSuffix(k, "_secret")
}

// Redact replaces every occurrence of the given secrets in text.
// Empty secrets are ignored.
func Redact(text string, secrets ...string) string {
	for _, s := range secrets {
		if s == "" {
			continue
		}
		text = strings.ReplaceAll(text, s, Redacted)
	}
	return text
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	return a
}
