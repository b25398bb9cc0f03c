package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestDetachKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reqCtx, cancel := context.WithCancel(ctxzap.ToContext(context.Background(), zap.New(core)))
	reqCtx = WithAction(reqCtx, "Generate")

	bgCtx := Detach(reqCtx, zap.String("session_id", "s1"))
	cancel()

	assert.NoError(t, bgCtx.Err())
	ctxzap.Info(bgCtx, "done")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Generate", fields["action"])
	assert.Equal(t, "s1", fields["session_id"])
}
