package telegram

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/pkg/formatter"
	"github.com/futig/title-assistant/internal/pkg/validator"
	"github.com/futig/title-assistant/internal/telegram/bot"
	"github.com/futig/title-assistant/internal/telegram/handlers"
	"github.com/futig/title-assistant/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes against the Telegram API and wires the dialogue handlers
func NewBot(
	cfg *config.TelegramConfig,
	storage state.Storage,
	titleUC handlers.TitleUsecase,
	v *validator.Validator,
	formatters *formatter.Factory,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	b, err := newBot(api, cfg, storage, titleUC, v, formatters, logger)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewBotWithEndpoint is NewBot against a custom Bot API server
func NewBotWithEndpoint(
	cfg *config.TelegramConfig,
	endpoint string,
	client *http.Client,
	storage state.Storage,
	titleUC handlers.TitleUsecase,
	v *validator.Validator,
	formatters *formatter.Factory,
	logger *zap.Logger,
) (*bot.Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	return newBot(api, cfg, storage, titleUC, v, formatters, logger)
}

func newBot(
	api *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	storage state.Storage,
	titleUC handlers.TitleUsecase,
	v *validator.Validator,
	formatters *formatter.Factory,
	logger *zap.Logger,
) (*bot.Bot, error) {
	b := bot.New(api, cfg, state.NewManager(storage), titleUC, formatters.Formats(), logger)

	if err := registerHandlers(b, v, formatters, logger); err != nil {
		return nil, err
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, v *validator.Validator, formatters *formatter.Factory, logger *zap.Logger) error {
	deps := handlers.Dependencies{
		Bot:          b.GetAPI(),
		StateManager: b.GetStateManager(),
		TitleUC:      b.GetTitleUsecase(),
		Validator:    v,
		Formatters:   formatters,
		Keyboard:     b.GetKeyboard(),
		SendRetry:    &b.GetConfig().SendRetry,
		Logger:       logger,
	}

	all := []handlers.Handler{
		handlers.NewCallbackHandler(deps),     // button clicks
		handlers.NewPurposeHandler(deps),      // ASK_PURPOSE
		handlers.NewContentHandler(deps),      // ASK_CONTENT
		handlers.NewRequirementsHandler(deps), // ASK_REQUIREMENTS
		handlers.NewBusyHandler(deps),         // GENERATING
		handlers.NewResultsHandler(deps),      // RESULTS
	}

	for _, h := range all {
		if err := b.RegisterHandler(h); err != nil {
			return err
		}
	}

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", len(all)),
	)

	return nil
}
