package builder

import (
	"context"
	"fmt"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/integration/llm"
	"github.com/futig/title-assistant/internal/pkg/formatter"
	"github.com/futig/title-assistant/internal/pkg/logger"
	"github.com/futig/title-assistant/internal/pkg/metrics"
	"github.com/futig/title-assistant/internal/pkg/validator"
	"github.com/futig/title-assistant/internal/repository"
	titleuc "github.com/futig/title-assistant/internal/usecase/title"
	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"
)

// core holds the components shared by the HTTP server and the Telegram bot
type core struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Metrics
	provider   llm.Provider
	titleUC    *titleuc.TitleUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func buildCore(ctx context.Context) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.Int("purposes", len(cfg.Purposes)),
	)

	m := metrics.New()

	// Initialize generative service connector (with mock support)
	provider, err := llm.NewProvider(ctx, cfg.LLMConnectorCfg, cfg.EnableMocks, log)
	if err != nil {
		return nil, fmt.Errorf("setup llm provider: %w", err)
	}

	// Sessions live in memory and expire after inactivity
	sessions := repository.NewSessionMemory[titleuc.Session](cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval)
	log.Info("Session store initialized",
		zap.Duration("ttl", cfg.SessionCfg.TTL),
		zap.Duration("cleanup_interval", cfg.SessionCfg.CleanupInterval),
	)

	titleUC := titleuc.NewUsecase(
		sessions,
		llm.NewMeteredProvider(provider, m),
		m,
		cfg.Purposes,
		log,
	)
	log.Info("Use cases initialized")

	return &core{
		cfg:        cfg,
		logger:     log,
		metrics:    m,
		provider:   provider,
		titleUC:    titleUC,
		validator:  validator.NewValidator(cfg.MaxContentLength),
		formatters: configureFormatters(cfg.UniDocLicenseKey, formatter.NewPDFFormatter(), log),
	}, nil
}

// configureFormatters installs the UniDoc license and reports export
// capabilities that depend on the environment.
func configureFormatters(uniDocKey string, pdf *formatter.PDFFormatter, log *zap.Logger) *formatter.Factory {
	var opts []formatter.FactoryOption

	if uniDocKey == "" {
		log.Warn("UNIDOC_LICENSE_KEY is not set, docx export disabled")
	} else if err := license.SetMeteredKey(uniDocKey); err != nil {
		log.Warn("unidoc license rejected, docx export disabled", zap.Error(err))
	} else {
		opts = append(opts, formatter.WithDOCX())
	}

	if pdf.FontPath() == "" {
		log.Warn("no CJK font found for pdf export, Chinese text will not render")
	}

	f := formatter.NewFactory(opts...)
	log.Info("Formatters initialized", zap.Any("formats", f.Formats()))

	return f
}
