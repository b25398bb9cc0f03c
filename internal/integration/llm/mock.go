package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockProvider = "mock"

// MockConnector returns a deterministic result without calling any service.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, in entity.TitleInput) (*entity.GenerationResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating titles", zap.String("purpose", in.Purpose))

	subject := []rune(strings.TrimSpace(in.Content))
	if len(subject) > 12 {
		subject = subject[:12]
	}

	return &entity.GenerationResult{
		Titles: []entity.GeneratedTitle{
			{Title: fmt.Sprintf("%s：一文读懂", string(subject)), Reasoning: "开门见山，适合" + in.Purpose},
			{Title: fmt.Sprintf("关于%s，你需要知道的三件事", string(subject)), Reasoning: "数字列表提升点击率"},
			{Title: fmt.Sprintf("为什么大家都在聊%s？", string(subject)), Reasoning: "设问句引发好奇"},
		},
		KeywordsCn: []string{"热点", "干货", "推荐", "分享", "攻略", "生活", "科技", "故事", "观点", "趋势"},
		KeywordsEn: []string{"trend", "guide", "tips", "story", "lifestyle", "technology", "insight", "news", "idea", "share"},
	}, nil
}

func (m *MockConnector) Name() string {
	return mockProvider
}

func (m *MockConnector) Close() error {
	return nil
}
