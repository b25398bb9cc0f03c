package llm

import (
	"context"
	"errors"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIConnector generates titles through any OpenAI-compatible chat
// completions endpoint using a strict JSON schema response format.
type OpenAIConnector struct {
	config config.LLMConnectorConfig
	client openai.Client
	schema map[string]any
	logger *zap.Logger
}

func NewOpenAIConnector(cfg config.LLMConnectorConfig, logger *zap.Logger) *OpenAIConnector {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(common.NewHTTPClient(cfg.HTTPClientConfig)),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIConnector{
		config: cfg,
		client: openai.NewClient(opts...),
		schema: openAIResponseSchema(),
		logger: logger,
	}
}

// Generate sends one chat completion request and normalizes the JSON answer.
func (c *OpenAIConnector) Generate(ctx context.Context, in entity.TitleInput) (*entity.GenerationResult, error) {
	ctxzap.Info(ctx, "generating titles via openai-compatible service",
		zap.String("model", c.config.Model),
		zap.String("purpose", in.Purpose),
		zap.Int("content_length", len([]rune(in.Content))),
	)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(in)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: c.schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		ctxzap.Error(ctx, "openai generation failed",
			zap.String("model", c.config.Model),
			zap.Error(err),
		)
		return nil, entity.NewGenerationError(err)
	}

	if len(resp.Choices) == 0 {
		err := errors.New("response has no choices")
		ctxzap.Error(ctx, "openai returned no usable choice",
			zap.String("model", c.config.Model),
			zap.Error(err),
		)
		return nil, entity.NewGenerationError(err)
	}

	result := ParseResult(resp.Choices[0].Message.Content)

	ctxzap.Info(ctx, "titles generated successfully",
		zap.Int("title_count", len(result.Titles)),
		zap.Int("keywords_cn", len(result.KeywordsCn)),
		zap.Int("keywords_en", len(result.KeywordsEn)),
	)

	return result, nil
}

// Name identifies the provider in logs and metrics.
func (c *OpenAIConnector) Name() string {
	return config.ProviderOpenAI
}

func (c *OpenAIConnector) Close() error {
	return nil
}
