package keyboard

import (
	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/pkg/search"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	keywordsPerRow = 4
	purposesPerRow = 2
	selectedMark   = "✅ "
)

var downloadLabels = map[entity.ResultFormat]string{
	entity.FormatMarkdown: "📄 .md",
	entity.FormatHTML:     "🌐 .html",
	entity.FormatPDF:      "📕 .pdf",
	entity.FormatDOCX:     "📘 .docx",
}

// Builder creates inline keyboards
type Builder struct {
	formats []entity.ResultFormat
}

// NewBuilder creates a keyboard builder offering downloads in formats
func NewBuilder(formats []entity.ResultFormat) *Builder {
	return &Builder{formats: formats}
}

// StartKeyboard creates the initial start button
func (b *Builder) StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 开始", EncodeCallback(ActionGeneral, ValueStart)),
		),
	)
}

// PurposeKeyboard offers the preset purposes
func (b *Builder) PurposeKeyboard(purposes []string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	var row []tgbotapi.InlineKeyboardButton
	for i, p := range purposes {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(p, EncodeIndex(ActionPurpose, i)))
		if len(row) == purposesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// SkipKeyboard lets the user skip the optional requirements step
func (b *Builder) SkipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ 跳过", EncodeCallback(ActionGeneral, ValueSkip)),
		),
	)
}

// RetryKeyboard is shown after a failed generation
func (b *Builder) RetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 重试", EncodeCallback(ActionGeneral, ValueRegenerate)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 重新开始", EncodeCallback(ActionGeneral, ValueStart)),
		),
	)
}

// KeywordAt resolves a keyword button index. Chinese keywords come first,
// then English ones.
func KeywordAt(state entity.TitleState, i int) (string, bool) {
	if i < len(state.KeywordsCn) {
		return state.KeywordsCn[i], true
	}
	i -= len(state.KeywordsCn)
	if i < len(state.KeywordsEn) {
		return state.KeywordsEn[i], true
	}
	return "", false
}

// ResultsKeyboard creates the keyword panel with search, regenerate and
// download buttons. Search buttons appear only when something is selected.
func (b *Builder) ResultsKeyboard(state entity.TitleState) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	rows = append(rows, b.keywordRows(state, state.KeywordsCn, 0)...)
	rows = append(rows, b.keywordRows(state, state.KeywordsEn, len(state.KeywordsCn))...)

	if len(state.SelectedKeywords) > 0 {
		var searchRow []tgbotapi.InlineKeyboardButton
		for _, p := range entity.SearchProviders {
			url, err := search.BuildURL(p, state.SelectedKeywords)
			if err != nil {
				continue
			}
			searchRow = append(searchRow, tgbotapi.NewInlineKeyboardButtonURL("🔍 "+p.Label(), url))
		}
		if len(searchRow) > 0 {
			rows = append(rows, searchRow)
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 不满意？重新生成", EncodeCallback(ActionGeneral, ValueRegenerate)),
	))

	var downloadRow []tgbotapi.InlineKeyboardButton
	for _, f := range b.formats {
		downloadRow = append(downloadRow, tgbotapi.NewInlineKeyboardButtonData(downloadLabels[f], EncodeCallback(ActionDownload, string(f))))
	}
	if len(downloadRow) > 0 {
		rows = append(rows, downloadRow)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🆕 新的标题", EncodeCallback(ActionGeneral, ValueStart)),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (b *Builder) keywordRows(state entity.TitleState, keywords []string, offset int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, k := range keywords {
		label := k
		if state.IsSelected(k) {
			label = selectedMark + k
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeIndex(ActionKeyword, offset+i)))
		if len(row) == keywordsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return rows
}
