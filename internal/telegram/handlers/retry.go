package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/avast/retry-go/v4"
	pkgRetry "github.com/futig/title-assistant/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// withRetry runs send under the configured backoff. Telegram client errors
// other than rate limiting fail immediately.
func withRetry[T any](
	ctx context.Context,
	cfg *pkgRetry.RetryConfig,
	logger *zap.Logger,
	method string,
	send func() (T, error),
) (T, error) {
	opts := append(cfg.ToRetryOptions(ctx),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("telegram request failed, retrying",
				zap.String("method", method),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)

	return retry.DoWithData(send, opts...)
}

func isRetryable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

// isNotModified reports the error Telegram returns when an edit changes nothing
func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		containsFold(apiErr.Message, "message is not modified")
}
