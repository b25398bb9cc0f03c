package handlers

import (
	"context"
	"errors"
	"net"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

var userErrors = []struct {
	target error
	log    string
}{
	{entity.ErrSessionNotFound, "session not found"},
	{entity.ErrGenerationInProgress, "generation already in progress"},
	{entity.ErrBlankInput, "blank input"},
	{entity.ErrContentTooLong, "content too long"},
	{entity.ErrEmptySelection, "empty keyword selection"},
	{entity.ErrNoResult, "no result to export"},
	{entity.ErrInvalidParameter, "stale keyboard"},
	{entity.ErrInvalidFormat, "invalid export format"},
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	// User and domain errors are expected
	for _, ue := range userErrors {
		if errors.Is(err, ue.target) {
			return &HandlerError{
				Err:         err,
				UserMessage: render.ClassifyError(err),
				LogMessage:  ue.log,
				Severity:    SeverityWarning,
			}
		}
	}

	logMessage := "handler error"
	var genErr *entity.GenerationError
	var netErr net.Error
	switch {
	case errors.As(err, &genErr):
		logMessage = "generation failed"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logMessage = "operation timed out"
	case errors.As(err, &netErr):
		logMessage = "network error"
	}

	return &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  logMessage,
		Severity:    SeverityError,
	}
}

// HandleError provides centralized error handling for all handlers
// It logs the error with appropriate severity and sends a user-friendly message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	// Log with appropriate severity level
	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sendMessage(ctx, chatID, handlerErr.UserMessage, nil)
}
