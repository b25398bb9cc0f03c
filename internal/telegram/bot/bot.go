package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/telegram/handlers"
	"github.com/futig/title-assistant/internal/telegram/keyboard"
	"github.com/futig/title-assistant/internal/telegram/middleware"
	"github.com/futig/title-assistant/internal/telegram/render"
	"github.com/futig/title-assistant/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	stateManager *state.Manager
	titleUC      handlers.TitleUsecase
	handlers     map[string]handlers.Handler
	keyboard     *keyboard.Builder
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	rateLimitMW  *middleware.RateLimiterMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New creates a new Telegram bot on an authorized API client
func New(
	api *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	stateManager *state.Manager,
	titleUC handlers.TitleUsecase,
	formats []entity.ResultFormat,
	logger *zap.Logger,
) *Bot {
	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:          api,
		cfg:          cfg,
		stateManager: stateManager,
		titleUC:      titleUC,
		keyboard:     keyboard.NewBuilder(formats),
		logger:       logger,
		handlers:     make(map[string]handlers.Handler),
		stopChan:     make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api.Send)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api.Send,
	)

	return bot
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()
	b.rateLimitMW.Stop()

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.HandleUpdate(u)
			}(update)
		}
	}
}

// HandleUpdate runs one update through the middleware chain and routes it
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, b.handleUpdate)
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message != nil && update.Message.From != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage routes a text message by the user's dialogue step
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	userID := message.From.ID
	stateData, err := b.stateManager.GetStateData(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrSessionNotFound) {
			b.sendMessage(ctx, message.Chat.ID, render.ErrNoActiveSession, b.keyboard.StartKeyboard())
			return
		}
		ctxzap.Error(ctx, "failed to get state data",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(ctx, message.Chat.ID, render.ErrGeneric, nil)
		return
	}
	ctx = state.ContextWithStateData(ctx, stateData)

	step := string(stateData.Step)
	handler, exists := b.handlers[step]
	if !exists {
		ctxzap.Warn(ctx, "no handler for state",
			zap.String("state", step),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(ctx, message.Chat.ID, render.ErrInvalidState, nil)
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    userID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("state", step),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(ctx, message.Chat.ID, render.ClassifyError(err), nil)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start":
		b.sendMessage(ctx, message.Chat.ID, render.MsgWelcome, b.keyboard.StartKeyboard())
	case "help":
		b.sendMessage(ctx, message.Chat.ID, render.MsgHelp, nil)
	case "cancel":
		b.handleCancelCommand(ctx, message)
	default:
		b.sendMessage(ctx, message.Chat.ID, render.ErrUnknownCommand, nil)
	}
}

// handleCancelCommand drops the title session and the dialogue state
func (b *Bot) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	telegramSession, err := b.stateManager.GetSession(ctx, userID)
	if err != nil || telegramSession.SessionID == "" {
		b.sendMessage(ctx, chatID, render.ErrNoActiveSession, nil)
		return
	}

	if err := b.titleUC.DeleteSession(ctx, telegramSession.SessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
		ctxzap.Error(ctx, "failed to delete title session",
			zap.Error(err),
			zap.String("session_id", telegramSession.SessionID),
		)
	}

	if err := b.stateManager.DeleteSession(ctx, userID); err != nil {
		ctxzap.Error(ctx, "failed to delete telegram session",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
	}

	b.sendMessage(ctx, chatID, render.MsgSessionFinished, nil)
}

// handleCallbackQuery acknowledges a button click and runs the callback handler
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Answer right away so Telegram stops the button spinner
	b.answerCallback(query.ID, "")

	if query.Message == nil {
		ctxzap.Warn(ctx, "callback without message", zap.String("data", query.Data))
		return
	}

	userID := query.From.ID
	chatID := query.Message.Chat.ID

	callbackData, err := keyboard.ParseCallback(query.Data)
	if err != nil {
		ctxzap.Error(ctx, "invalid callback data",
			zap.Error(err),
			zap.String("data", query.Data),
		)
		return
	}

	// action:start creates a new session and needs no state
	if !(callbackData.Action == keyboard.ActionGeneral && callbackData.Value == keyboard.ValueStart) {
		if stateData, err := b.stateManager.GetStateData(ctx, userID); err == nil {
			ctx = state.ContextWithStateData(ctx, stateData)
		}
	}

	handler, exists := b.handlers[handlers.HandlerStateCallback]
	if !exists {
		ctxzap.Warn(ctx, "callback handler not registered")
		return
	}

	msg := &handlers.Message{
		ChatID:       chatID,
		UserID:       userID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "callback handler error",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(ctx, chatID, render.ClassifyError(err), nil)
	}
}

// sendMessage sends a message to chat and logs failures
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := b.api.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// RegisterHandler registers a handler for a state
func (b *Bot) RegisterHandler(handler handlers.Handler) error {
	state := handler.GetState()

	if !handlers.IsValidState(state) {
		return fmt.Errorf("invalid handler state: %s", state)
	}

	b.handlers[state] = handler
	b.logger.Debug("handler registered",
		zap.String("state", state),
	)
	return nil
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// GetStateManager returns the state manager (for handlers)
func (b *Bot) GetStateManager() *state.Manager {
	return b.stateManager
}

// GetKeyboard returns the keyboard builder (for handlers)
func (b *Bot) GetKeyboard() *keyboard.Builder {
	return b.keyboard
}

// GetTitleUsecase returns the title usecase (for handlers)
func (b *Bot) GetTitleUsecase() handlers.TitleUsecase {
	return b.titleUC
}

// GetConfig returns the bot config (for handlers)
func (b *Bot) GetConfig() *config.TelegramConfig {
	return b.cfg
}
