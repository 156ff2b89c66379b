package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("request",
		"authorization", "Bearer abc",
		"Email", "asha@example.org",
		"individual_pan", "ABCDE1234F",
		"section", "Basic Details",
		"note", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig",
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["authorization"])
	assert.Equal(t, "[REDACTED]", fields["Email"])
	assert.Equal(t, "[REDACTED]", fields["individual_pan"])
	assert.Equal(t, "Basic Details", fields["section"])
	assert.Equal(t, "[REDACTED]", fields["note"], "JWT-looking values are redacted under any key")
}

func TestLogger_RedactionCanBeDisabled(t *testing.T) {
	t.Setenv("GRANTDESK_LOG_REDACTION", "off")
	core, logs := observer.New(zapcore.DebugLevel)
	FromZap(zap.New(core)).Warn("debugging", "token", "plain")

	assert.Equal(t, "plain", logs.All()[0].ContextMap()["token"])
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	FromZap(zap.New(core)).With("submission_id", "abc").Error("failed", "company", "Rural Links")

	entry := logs.All()[0]
	assert.Equal(t, "abc", entry.ContextMap()["submission_id"])
	assert.Equal(t, "Rural Links", entry.ContextMap()["company"], "only whole pan segments are redacted")
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)

	l, err := New("prod", "")
	require.NoError(t, err)
	assert.NotNil(t, l)
}
