// Package security provides the request-admission building blocks of the
// service: the security event logger and the fixed-window rate limiter.
package security

import (
	"log/slog"
	"strings"
	"time"
)

// Logger is a write-only sink for security-relevant facts. Calls never block
// the request path and never return errors; identifiers are masked before
// they reach the log stream and suspicious input is never logged verbatim.
type Logger struct {
	log *slog.Logger
}

// NewLogger wraps the given slog logger. A nil logger falls back to
// slog.Default().
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}

	return &Logger{log: log}
}

func (l *Logger) event(eventType string, attrs ...any) {
	base := []any{
		"event_type", eventType,
		"timestamp", time.Now().UTC(),
	}
	l.log.Info("security_event", append(base, attrs...)...)
}

// LogFailedLogin records a failed authentication attempt. The identifier is
// masked; the reason is an internal category, never the raw input.
func (l *Logger) LogFailedLogin(identifier, ip, reason string) {
	l.event(EventFailedLogin,
		"identifier", MaskIdentifier(identifier),
		"ip_address", ip,
		"reason", reason,
	)
}

// LogSuccessfulLogin records a successful authentication.
func (l *Logger) LogSuccessfulLogin(identifier, ip string) {
	l.event(EventSuccessfulLogin,
		"identifier", MaskIdentifier(identifier),
		"ip_address", ip,
	)
}

// LogRateLimitExceeded records a rate-limit trip for a client and category.
func (l *Logger) LogRateLimitExceeded(clientID, category string) {
	l.event(EventRateLimitExceeded,
		"client_id", clientID,
		"category", category,
	)
}

// LogAuthorizationFailure records a denied request against a resource.
func (l *Logger) LogAuthorizationFailure(identifier, ip, resource string) {
	l.event(EventAuthorizationFailure,
		"identifier", MaskIdentifier(identifier),
		"ip_address", ip,
		"resource", resource,
	)
}

// LogSuspiciousInput records that a field failed the injection heuristic.
// Only the field name, input length, and category are logged, never the
// input itself.
func (l *Logger) LogSuspiciousInput(field, ip string, inputLength int) {
	l.event(EventSuspiciousInput,
		"field", field,
		"ip_address", ip,
		"input_length", inputLength,
		"category", "sql_injection",
	)
}

// LogTokenRefresh records a successful refresh-token exchange.
func (l *Logger) LogTokenRefresh(userID int, ip string) {
	l.event(EventTokenRefresh,
		"user_id", userID,
		"ip_address", ip,
	)
}

// LogLogout records an explicit session end.
func (l *Logger) LogLogout(ip string) {
	l.event(EventLogout,
		"ip_address", ip,
	)
}

// MaskIdentifier hides the middle of a credential-like identifier, keeping at
// most the first two and last two characters. Identifiers too short to mask
// meaningfully are replaced entirely.
func MaskIdentifier(identifier string) string {
	if len(identifier) < 6 {
		return "****"
	}

	return identifier[:2] + strings.Repeat("*", len(identifier)-4) + identifier[len(identifier)-2:]
}
