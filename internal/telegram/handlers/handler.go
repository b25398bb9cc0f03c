package handlers

import (
	"context"

	"github.com/futig/title-assistant/internal/pkg/formatter"
	pkgRetry "github.com/futig/title-assistant/internal/pkg/retry"
	"github.com/futig/title-assistant/internal/pkg/validator"
	"github.com/futig/title-assistant/internal/telegram/keyboard"
	"github.com/futig/title-assistant/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handler state constants
const (
	HandlerStateCallback        = "CALLBACK"
	HandlerStateAskPurpose      = string(state.StepAskPurpose)
	HandlerStateAskContent      = string(state.StepAskContent)
	HandlerStateAskRequirements = string(state.StepAskRequirements)
	HandlerStateGenerating      = string(state.StepGenerating)
	HandlerStateResults         = string(state.StepResults)
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for state-specific handlers
type Handler interface {
	// Handle processes a message for this state
	Handle(ctx context.Context, msg *Message) error

	// GetState returns the state this handler manages
	GetState() string
}

// Dependencies are shared by all handlers
type Dependencies struct {
	Bot          *tgbotapi.BotAPI
	StateManager *state.Manager
	TitleUC      TitleUsecase
	Validator    *validator.Validator
	Formatters   *formatter.Factory
	Keyboard     *keyboard.Builder
	SendRetry    *pkgRetry.RetryConfig
	Logger       *zap.Logger
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	Dependencies
	stateName     string
	messageSender *MessageSender
}

func newBaseHandler(stateName string, deps Dependencies) BaseHandler {
	if deps.SendRetry == nil {
		deps.SendRetry = pkgRetry.DefaultRetryConfig()
	}
	return BaseHandler{
		Dependencies:  deps,
		stateName:     stateName,
		messageSender: NewMessageSender(deps.Bot, deps.SendRetry, deps.Logger),
	}
}

// GetState implements Handler
func (h *BaseHandler) GetState() string {
	return h.stateName
}

// sendMessage is a convenience wrapper for messageSender.Send that only logs failures
func (h *BaseHandler) sendMessage(ctx context.Context, chatID int64, text string, markup interface{}) {
	if _, err := h.messageSender.Send(ctx, chatID, text, markup); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// validStates defines all valid handler states
var validStates = map[string]bool{
	HandlerStateCallback:        true,
	HandlerStateAskPurpose:      true,
	HandlerStateAskContent:      true,
	HandlerStateAskRequirements: true,
	HandlerStateGenerating:      true,
	HandlerStateResults:         true,
}

// IsValidState checks if a state is valid for handler registration
func IsValidState(state string) bool {
	_, ok := validStates[state]
	return ok
}
