package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"go.uber.org/zap"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Provider is a generative backend able to produce a GenerationResult.
type Provider interface {
	Generate(ctx context.Context, in entity.TitleInput) (*entity.GenerationResult, error)
	Name() string
	Close() error
}

// GenerationObserver records generation outcomes.
type GenerationObserver interface {
	ObserveGeneration(provider, outcome string, duration time.Duration)
}

// NewProvider picks the connector configured for this process.
func NewProvider(ctx context.Context, cfg config.LLMConnectorConfig, enableMocks bool, logger *zap.Logger) (Provider, error) {
	if enableMocks {
		logger.Info("Using mock connector for generative service")
		return NewMockConnector(logger), nil
	}

	logger.Info("Using real connector for generative service",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
	)

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewConnector(ctx, cfg, logger)
	case config.ProviderOpenAI:
		return NewOpenAIConnector(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// MeteredProvider reports every Generate call to a GenerationObserver.
type MeteredProvider struct {
	next     Provider
	observer GenerationObserver
}

func NewMeteredProvider(next Provider, observer GenerationObserver) *MeteredProvider {
	return &MeteredProvider{next: next, observer: observer}
}

func (p *MeteredProvider) Generate(ctx context.Context, in entity.TitleInput) (*entity.GenerationResult, error) {
	start := time.Now()
	result, err := p.next.Generate(ctx, in)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	p.observer.ObserveGeneration(p.next.Name(), outcome, time.Since(start))

	if err != nil {
		var genErr *entity.GenerationError
		if !errors.As(err, &genErr) {
			err = entity.NewGenerationError(err)
		}
		return nil, err
	}

	return result, nil
}

func (p *MeteredProvider) Name() string {
	return p.next.Name()
}

func (p *MeteredProvider) Close() error {
	return p.next.Close()
}
