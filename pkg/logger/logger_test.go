package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_LevelAndService(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "project-service", "warn", FormatJSON)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "project-service", line["service"])
	assert.Equal(t, "shown", line["message"])
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "svc", "loud", FormatJSON)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSanitizeLogMessage(t *testing.T) {
	got := SanitizeLogMessage("login failed password=hunter2 token: abc.def secret=xyz")
	assert.NotContains(t, got, "hunter2")
	assert.NotContains(t, got, "abc.def")
	assert.NotContains(t, got, "xyz")
	assert.Contains(t, got, redactedPlaceholder)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskEmail("alice@example.com"))
	assert.Equal(t, redactedPlaceholder, MaskEmail("not-an-email"))
}
