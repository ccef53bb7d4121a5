package slogx

import (
	"log/slog"
	"strings"
)

// Redacted replaces the value of any sensitive attribute.
const Redacted = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"code":          {},
	"password":      {},
	"confirm":       {},
	"secret":        {},
	"answer_token":  {},
	"session_token": {},
	"authorization": {},
}

// IsSensitive reports whether an attribute key names a credential.
func IsSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// Redact is a slog ReplaceAttr hook. One-time codes, passwords, TOTP
// secrets and tokens never reach the log stream, whatever group they sit in.
func Redact(_ []string, a slog.Attr) slog.Attr {
	if IsSensitive(a.Key) && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, Redacted)
	}
	return a
}
