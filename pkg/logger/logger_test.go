package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLogFallsBackToGlobal(t *testing.T) {
	l := Run("fatal")
	assert.Same(t, l, Log(context.Background()))
}

func TestLogFromContext(t *testing.T) {
	Run("fatal")
	reqLogger := zap.NewNop().Sugar().With("request_id", "abc")
	ctx := WithLogger(context.Background(), reqLogger)
	assert.Same(t, reqLogger, Log(ctx))
}

func TestRunUnknownLevel(t *testing.T) {
	l := Run("loud")
	assert.NotNil(t, l)
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
}
