package builder

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/title-assistant/internal/api"
	titleapi "github.com/futig/title-assistant/internal/api/title"
	"github.com/futig/title-assistant/internal/api/web"
	"github.com/futig/title-assistant/internal/repository"
	"github.com/futig/title-assistant/internal/telegram"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	c, err := buildCore(context.Background())
	if err != nil {
		return nil, err
	}
	cfg, logger := c.cfg, c.logger

	// Setup API handlers
	titleHandler := titleapi.NewHandler(c.titleUC, c.validator, c.formatters)
	webHandler := web.NewHandler(c.titleUC, c.validator, c.formatters)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(titleHandler, webHandler, c.metrics, cfg.CORSAllowedOrigins, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	return &App{
		server:   server,
		provider: c.provider,
		logger:   logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot. The returned
// closer releases the generative service client.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, io.Closer, error) {
	c, err := buildCore(context.Background())
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, logger := c.cfg, c.logger

	if err := cfg.ValidateTelegram(); err != nil {
		c.provider.Close()
		return nil, nil, nil, err
	}

	telegramState := repository.NewTelegramStateMemory(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, telegramState, c.titleUC, c.validator, c.formatters, logger)
	if err != nil {
		c.provider.Close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, c.provider, nil
}
