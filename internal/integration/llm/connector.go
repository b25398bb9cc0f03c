package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/integration/common"
	pkghttp "github.com/futig/title-assistant/pkg/http"
	"github.com/google/generative-ai-go/genai"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const geminiAPIKeyHeader = "x-goog-api-key"

// Connector generates titles through the Gemini API with a structured
// response schema. One request per Generate call.
type Connector struct {
	config config.LLMConnectorConfig
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func NewConnector(
	ctx context.Context,
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) (*Connector, error) {
	httpClient := common.NewHTTPClient(cfg.HTTPClientConfig,
		pkghttp.WithAPIKeyHeader(geminiAPIKeyHeader, cfg.APIKey),
	)

	// The cache client is built without the custom HTTP client, so it needs
	// its own credential or it falls back to application default credentials.
	// An empty key is not rejected here; the first Generate call fails instead.
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = geminiResponseSchema()

	return &Connector{
		config: cfg,
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Generate sends one prompt and normalizes the JSON answer.
func (c *Connector) Generate(ctx context.Context, in entity.TitleInput) (*entity.GenerationResult, error) {
	ctxzap.Info(ctx, "generating titles via gemini",
		zap.String("model", c.config.Model),
		zap.String("purpose", in.Purpose),
		zap.Int("content_length", len([]rune(in.Content))),
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(BuildPrompt(in)))
	if err != nil {
		ctxzap.Error(ctx, "gemini generation failed",
			zap.String("model", c.config.Model),
			zap.Error(err),
		)
		return nil, entity.NewGenerationError(err)
	}

	text, err := responseText(resp)
	if err != nil {
		ctxzap.Error(ctx, "gemini returned no usable candidate",
			zap.String("model", c.config.Model),
			zap.Error(err),
		)
		return nil, entity.NewGenerationError(err)
	}

	result := ParseResult(text)

	ctxzap.Info(ctx, "titles generated successfully",
		zap.Int("title_count", len(result.Titles)),
		zap.Int("keywords_cn", len(result.KeywordsCn)),
		zap.Int("keywords_en", len(result.KeywordsEn)),
	)

	return result, nil
}

// Name identifies the provider in logs and metrics.
func (c *Connector) Name() string {
	return config.ProviderGemini
}

func (c *Connector) Close() error {
	return c.client.Close()
}

// responseText concatenates the text parts of the first candidate.
// A candidate without text yields "" which parses as an empty result.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("response has no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}
