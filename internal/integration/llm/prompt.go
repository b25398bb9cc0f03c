package llm

import (
	"strings"

	"github.com/futig/title-assistant/internal/entity"
)

const promptHeader = `你是一位专业的中文文案策划和编辑。
请分析以下文本内容，并根据指定的用途完成以下三个任务：
1. 生成 3 个独特的、高质量的中文标题。对于每个标题，请用一句话简要说明推荐理由。
2. 提取 10 个最相关的中文关键词或 Hashtag 标签，用于国内平台搜索流量。
3. 提取 10 个最相关的英文关键词 (English Keywords)，用于寻找国际化素材或图片。`

// BuildPrompt renders the single instruction sent to the generative service.
// The requirements line is omitted when blank; content is quoted verbatim.
func BuildPrompt(in entity.TitleInput) string {
	var sb strings.Builder

	sb.WriteString(promptHeader)
	sb.WriteString("\n\n场景/用途: ")
	sb.WriteString(in.Purpose)
	sb.WriteString("\n")

	if req := strings.TrimSpace(in.AdditionalRequirements); req != "" {
		sb.WriteString("额外要求/风格偏好: ")
		sb.WriteString(req)
		sb.WriteString("\n")
	}

	sb.WriteString("\n需要分析的内容:\n\"")
	sb.WriteString(in.Content)
	sb.WriteString("\"")

	return sb.String()
}
