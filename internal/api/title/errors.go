package title

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StatusCode maps usecase errors to HTTP status codes
func StatusCode(err error) int {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrBlankInput),
		errors.Is(err, entity.ErrContentTooLong),
		errors.Is(err, entity.ErrEmptySelection),
		errors.Is(err, entity.ErrUnknownProvider),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrGenerationInProgress),
		errors.Is(err, entity.ErrNoResult):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	respondError(ctx, w, status, message, err)
}
