package llm

import (
	"strings"
	"testing"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(entity.TitleInput{
		Content:                "今晚的城市夜景格外迷人",
		Purpose:                "小红书爆款标题",
		AdditionalRequirements: "  语气活泼  ",
	})

	assert.True(t, strings.HasPrefix(prompt, "你是一位专业的中文文案策划和编辑。"))
	assert.Contains(t, prompt, "生成 3 个独特的、高质量的中文标题")
	assert.Contains(t, prompt, "提取 10 个最相关的中文关键词")
	assert.Contains(t, prompt, "提取 10 个最相关的英文关键词")
	assert.Contains(t, prompt, "场景/用途: 小红书爆款标题\n")
	assert.Contains(t, prompt, "额外要求/风格偏好: 语气活泼\n")
	assert.True(t, strings.HasSuffix(prompt, "需要分析的内容:\n\"今晚的城市夜景格外迷人\""))
}

func TestBuildPromptOmitsBlankRequirements(t *testing.T) {
	for _, req := range []string{"", "   ", "\n\t"} {
		prompt := BuildPrompt(entity.TitleInput{
			Content:                "正文",
			Purpose:                "新闻标题",
			AdditionalRequirements: req,
		})
		assert.NotContains(t, prompt, "额外要求")
	}
}

func TestBuildPromptKeepsContentVerbatim(t *testing.T) {
	content := "  第一行\n\"引号\"  "
	prompt := BuildPrompt(entity.TitleInput{Content: content, Purpose: "邮件主题"})

	assert.Contains(t, prompt, "\""+content+"\"")
}
