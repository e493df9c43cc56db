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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestZapAdapter_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "recommend-countries"})

	log.Info("processing job", map[string]interface{}{"jobKey": int64(7)})
	log.WithError(errors.New("boom")).Error("job failed", nil)
	log.With(map[string]interface{}{"attempt": 2}).Warn("retrying", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "processing job", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "recommend-countries", ctx["taskType"])
	assert.Equal(t, int64(7), ctx["jobKey"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, int64(2), entries[2].ContextMap()["attempt"])
}

func TestToZapFields_SortedAndErrorAware(t *testing.T) {
	fields := toZapFields(map[string]interface{}{"b": 1, "a": errors.New("x"), "c": "y"})

	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, zapcore.ErrorType, fields[0].Type)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "c", fields[2].Key)
	assert.Nil(t, toZapFields(nil))
}

func TestNoOpAndTestLoggers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().Info("ignored", map[string]interface{}{"k": "v"})
		NewTestLogger(t).Debug("visible in -v", nil)
	})
}
