package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/futig/title-assistant/internal/entity"
	pkgRetry "github.com/futig/title-assistant/internal/pkg/retry"
	"github.com/futig/title-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifyHandlerError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		severity ErrorSeverity
		message  string
	}{
		{name: "expired", err: fmt.Errorf("get: %w", entity.ErrSessionNotFound), severity: SeverityWarning, message: render.ErrSessionExpired},
		{name: "too long", err: entity.ErrContentTooLong, severity: SeverityWarning, message: render.ErrContentTooLong},
		{name: "busy", err: entity.ErrGenerationInProgress, severity: SeverityWarning, message: render.ErrBusy},
		{name: "generation", err: entity.NewGenerationError(errors.New("quota")), severity: SeverityError, message: "❌ 生成失败，请重试。"},
		{name: "timeout", err: context.DeadlineExceeded, severity: SeverityError, message: render.ErrTimeout},
		{name: "unknown", err: errors.New("boom"), severity: SeverityError, message: render.ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyHandlerError(tt.err)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.message, got.UserMessage)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("connection reset")))
	assert.True(t, isRetryable(&tgbotapi.Error{Code: 429, Message: "Too Many Requests"}))
	assert.True(t, isRetryable(&tgbotapi.Error{Code: 502, Message: "Bad Gateway"}))
	assert.False(t, isRetryable(&tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}))

	assert.True(t, isNotModified(&tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified"}))
	assert.False(t, isNotModified(&tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}))
}

func TestWithRetry(t *testing.T) {
	cfg := &pkgRetry.RetryConfig{Attempts: 3, Delay: 0, MaxDelay: 0}

	calls := 0
	got, err := withRetry(context.Background(), cfg, zap.NewNop(), "sendMessage", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, &tgbotapi.Error{Code: 502, Message: "Bad Gateway"}
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = withRetry(context.Background(), cfg, zap.NewNop(), "sendMessage", func() (int, error) {
		calls++
		return 0, &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
