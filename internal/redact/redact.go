// Package redact masks personally identifiable attribute values in log output.
package redact

import "log/slog"

// Placeholder replaces the value of any redacted attribute.
const Placeholder = "***"

// PIIFields lists the attribute keys whose values never appear in logs.
var PIIFields = []string{"email", "password", "name", "phone", "ssn"}

// Attrs is a slog ReplaceAttr hook that masks PII attribute values.
// Install it in slog.HandlerOptions on any handler that receives
// request-derived attributes.
func Attrs(fields ...string) func(groups []string, a slog.Attr) slog.Attr {
	if len(fields) == 0 {
		fields = PIIFields
	}
	redacted := make(map[string]bool, len(fields))
	for _, f := range fields {
		redacted[f] = true
	}
	return func(_ []string, a slog.Attr) slog.Attr {
		if redacted[a.Key] {
			return slog.String(a.Key, Placeholder)
		}
		return a
	}
}
