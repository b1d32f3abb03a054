package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs installs an observer logger for the duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	previous := Logger()
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(previous.Desugar()) })
	return logs
}

func TestLogHelpers(t *testing.T) {
	logs := observeLogs(t)

	LogWarn("failed to refresh streak", errors.New("boom"))
	LogInfo("ingested", "user", "octocat", "days", 3)
	LogDebug("connecting", "store-db-connect", "user:pass@tcp(db)/x", "github_token", "ghp_secret")

	require.Equal(t, 3, logs.Len())
	entries := logs.All()

	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])

	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, "octocat", entries[1].ContextMap()["user"])
	assert.EqualValues(t, 3, entries[1].ContextMap()["days"])

	ctx := entries[2].ContextMap()
	assert.Equal(t, "[REDACTED]", ctx["store-db-connect"])
	assert.Equal(t, "[REDACTED]", ctx["github_token"])
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]any{"user", "octocat", "dangling"})
	assert.Equal(t, []any{"user", "octocat", "dangling"}, out)
	assert.Empty(t, sanitizeKVs(nil))
}

func TestInitLogger(t *testing.T) {
	previous := Logger()
	t.Cleanup(func() { SetLogger(previous.Desugar()) })

	require.NoError(t, InitLogger(true))
	assert.True(t, Logger().Desugar().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(false))
	assert.False(t, Logger().Desugar().Core().Enabled(zap.DebugLevel))
}
