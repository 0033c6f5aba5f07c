package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"invoicer/internal/config"
	"invoicer/internal/logger"
)

func TestNew(t *testing.T) {
	l, err := logger.New(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = logger.New(config.LogConfig{Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestGlobal(t *testing.T) {
	prev := logger.L()
	t.Cleanup(func() { logger.SetGlobal(prev) })

	l := zap.NewExample()
	logger.SetGlobal(l)
	assert.Same(t, l, logger.L())
}
