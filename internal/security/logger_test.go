package security

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	return l, &buf
}

func decodeEvent(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestMaskIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{identifier: "87654321", want: "87****21"},
		{identifier: "123456789012", want: "12********12"},
		{identifier: "123456", want: "12**56"},
		{identifier: "12345", want: "****"},
		{identifier: "1", want: "****"},
		{identifier: "", want: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskIdentifier(tt.identifier))
		})
	}
}

func TestLogFailedLogin_MasksIdentifier(t *testing.T) {
	l, buf := newCaptureLogger(t)

	l.LogFailedLogin("87654321", "10.0.0.1", "invalid credentials")

	record := decodeEvent(t, buf)
	assert.Equal(t, EventFailedLogin, record["event_type"])
	assert.Equal(t, "87****21", record["identifier"])
	assert.NotContains(t, buf.String(), "87654321")
	assert.NotEmpty(t, record["timestamp"])
}

func TestLogSuspiciousInput_NeverLogsRawInput(t *testing.T) {
	l, buf := newCaptureLogger(t)

	input := "1; DROP TABLE users--"
	l.LogSuspiciousInput("club name", "10.0.0.1", len(input))

	record := decodeEvent(t, buf)
	assert.Equal(t, EventSuspiciousInput, record["event_type"])
	assert.Equal(t, float64(len(input)), record["input_length"])
	assert.Equal(t, "sql_injection", record["category"])
	assert.NotContains(t, buf.String(), "DROP TABLE")
}

func TestLogRateLimitExceeded(t *testing.T) {
	l, buf := newCaptureLogger(t)

	l.LogRateLimitExceeded("10.0.0.1", CategoryLogin)

	record := decodeEvent(t, buf)
	assert.Equal(t, EventRateLimitExceeded, record["event_type"])
	assert.Equal(t, "10.0.0.1", record["client_id"])
	assert.Equal(t, CategoryLogin, record["category"])
}

func TestLogTokenRefreshAndLogout(t *testing.T) {
	l, buf := newCaptureLogger(t)

	l.LogTokenRefresh(42, "10.0.0.1")
	record := decodeEvent(t, buf)
	assert.Equal(t, EventTokenRefresh, record["event_type"])
	assert.Equal(t, float64(42), record["user_id"])

	buf.Reset()
	l.LogLogout("10.0.0.1")
	record = decodeEvent(t, buf)
	assert.Equal(t, EventLogout, record["event_type"])
}

func TestNewLogger_NilFallsBackToDefault(t *testing.T) {
	l := NewLogger(nil)
	assert.NotNil(t, l)

	// Must not panic on a default-constructed logger.
	l.LogAuthorizationFailure("87654321", "10.0.0.1", "/api/v1/clubs")
}
