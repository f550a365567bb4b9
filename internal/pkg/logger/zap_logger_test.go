package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("SEARCH", "documents retrieved", map[string]interface{}{"count": 2})
	l.Debug("SEARCH", "no details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "documents retrieved", entries[0].Message)
	assert.Equal(t, "SEARCH", first["module"])
	assert.Equal(t, map[string]interface{}{"count": 2}, first["details"])

	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}

func TestZapLogger_ErrorCarriesRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("WORKER", "embedding failed", map[string]interface{}{"error": errors.New("boom").Error()})
	l.Warn("WORKER", "slow", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "boom", entries[0].ContextMap()["error_ref"])
	assert.NotContains(t, entries[1].ContextMap(), "error_ref")
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("X", "ignored", nil)
	assert.NoError(t, l.Sync())
}
