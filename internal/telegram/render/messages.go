package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/futig/title-assistant/internal/entity"
)

const (
	// Welcome messages
	MsgWelcome = `👋 你好！我是 AI 标题助手。

把文章内容发给我，我会：
• 生成 3 个标题方案，并给出推荐理由
• 提供 10 个中文和 10 个英文配图关键词
• 按你选中的关键词跳转到图库搜索配图`

	MsgHelp = `🤖 可用命令：

/start - 开始新的标题会话
/help - 显示帮助
/cancel - 结束当前会话

使用步骤：
1. 选择或输入标题的使用场景
2. 发送文章内容或核心要点
3. 补充额外要求（可跳过）
4. 查看标题方案，选择关键词搜索配图`

	// Dialogue
	MsgAskPurpose = `📌 这些标题用在什么场景？

选择下方的预设，或直接输入你的用途。`

	MsgAskContent = `📝 场景：%s

请发送需要起标题的文章内容或核心要点。`

	MsgAskRequirements = `✨ 有额外要求或风格偏好吗？
例如：幽默、悬念感、包含数字、不要太夸张。

没有的话点击“跳过”。`

	// Processing
	MsgGenerating = `⏳ 正在生成灵感...`

	// Results
	MsgResultsHeader  = `🎯 生成方案`
	MsgKeywordsHeader = `🏷 关键词配图助手 (%d)`
	MsgKeywordsHint   = `点击关键词选择，选中后用下方按钮搜索配图。`
	MsgNoResults      = `没有生成可用的结果，请点击“重新生成”。`
	MsgSelected       = `已选关键词：%s`
	MsgNothingChosen  = `尚未选择关键词`
	MsgDisclaimer     = `内容由 AI 生成，仅供参考`

	MsgGenerationFailed = `❌ %s`

	// Session finished
	MsgSessionFinished = `👋 会话已结束。

发送 /start 开始新的会话。`

	// Errors
	ErrGeneric            = `❌ 出错了，请重试或发送 /start 重新开始。`
	ErrSessionExpired     = `⌛ 会话已过期，请发送 /start 重新开始。`
	ErrNoActiveSession    = `还没有进行中的会话，请发送 /start 开始。`
	ErrInvalidState       = `❌ 当前步骤无法处理这条消息，请按提示操作或发送 /start 重新开始。`
	ErrUnknownCommand     = `❌ 未知命令，请发送 /help 查看可用命令。`
	ErrBusy               = `⏳ 正在生成中，请稍候。`
	ErrBlankInput         = `❌ 内容不能为空，请重新输入。`
	ErrContentTooLong     = `❌ 内容过长，请精简后再试。`
	ErrNoKeywords         = `请先选择至少一个关键词。`
	ErrStaleKeyboard      = `这组关键词已过期，请使用最新的结果。`
	ErrNoResult           = `还没有可导出的结果。`
	ErrNetworkIssue       = `❌ 网络连接出现问题，请稍后再试。`
	ErrServiceUnavailable = `❌ 服务暂时不可用，请过几分钟再试。`
	ErrTimeout            = `❌ 操作超时，请重试。`
	ErrInvalidInput       = `❌ 输入格式不正确，请换一种方式。`
)

// RenderAskContent formats the content prompt with the chosen purpose
func RenderAskContent(purpose string) string {
	return fmt.Sprintf(MsgAskContent, purpose)
}

// RenderResults formats the generated titles and the keyword panel header.
// The keywords themselves are shown as buttons.
func RenderResults(state entity.TitleState) string {
	var sb strings.Builder

	sb.WriteString(MsgResultsHeader)
	sb.WriteString("\n")
	if state.Purpose != "" {
		sb.WriteString("场景：" + state.Purpose + "\n")
	}
	sb.WriteString("\n")

	if len(state.Results) == 0 {
		sb.WriteString(MsgNoResults)
		sb.WriteString("\n\n")
	}
	for i, r := range state.Results {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Title))
		if r.Reasoning != "" {
			sb.WriteString("推荐理由：" + r.Reasoning + "\n")
		}
		sb.WriteString("\n")
	}

	total := len(state.KeywordsCn) + len(state.KeywordsEn)
	if total > 0 {
		sb.WriteString(fmt.Sprintf(MsgKeywordsHeader, total))
		sb.WriteString("\n")
		sb.WriteString(MsgKeywordsHint)
		sb.WriteString("\n")
	}
	sb.WriteString(RenderSelection(state.SelectedKeywords))
	sb.WriteString("\n\n")
	sb.WriteString(MsgDisclaimer)

	return sb.String()
}

// RenderSelection formats the selected keywords line
func RenderSelection(selected []string) string {
	if len(selected) == 0 {
		return MsgNothingChosen
	}
	return fmt.Sprintf(MsgSelected, strings.Join(selected, "、"))
}

// RenderFailure formats a failed generation
func RenderFailure(state entity.TitleState) string {
	msg := entity.UnexpectedErrorMessage
	if state.Error != nil {
		msg = *state.Error
	}
	return fmt.Sprintf(MsgGenerationFailed, msg)
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return ErrSessionExpired
	case errors.Is(err, entity.ErrGenerationInProgress):
		return ErrBusy
	case errors.Is(err, entity.ErrBlankInput):
		return ErrBlankInput
	case errors.Is(err, entity.ErrContentTooLong):
		return ErrContentTooLong
	case errors.Is(err, entity.ErrEmptySelection):
		return ErrNoKeywords
	case errors.Is(err, entity.ErrNoResult):
		return ErrNoResult
	case errors.Is(err, entity.ErrInvalidParameter):
		return ErrStaleKeyboard
	case errors.Is(err, entity.ErrInvalidFormat):
		return ErrInvalidInput
	}

	var genErr *entity.GenerationError
	if errors.As(err, &genErr) {
		return fmt.Sprintf(MsgGenerationFailed, genErr.Error())
	}

	// Check for timeout errors
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	// Check for syscall errors (connection refused, etc.)
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return ErrServiceUnavailable
		}
		if opErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	// Check for network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
