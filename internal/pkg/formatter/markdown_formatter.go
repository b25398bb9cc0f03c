package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(state entity.TitleState) ([]byte, error) {
	return renderMarkdown(state), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

func renderMarkdown(state entity.TitleState) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	fmt.Fprintf(&buf, "**%s:** %s\n\n", purposeLabel, state.Purpose)
	if req := strings.TrimSpace(state.AdditionalRequirements); req != "" {
		fmt.Fprintf(&buf, "**%s:** %s\n\n", requirementsLabel, req)
	}

	for i, t := range state.Results {
		fmt.Fprintf(&buf, "## %d. %s\n\n", i+1, t.Title)
		fmt.Fprintf(&buf, "%s: %s\n\n", reasoningLabel, t.Reasoning)
	}

	writeKeywordSection(&buf, keywordsCnLabel, state.KeywordsCn)
	writeKeywordSection(&buf, keywordsEnLabel, state.KeywordsEn)
	writeKeywordSection(&buf, selectedLabel, state.SelectedKeywords)

	fmt.Fprintf(&buf, "---\n\n*%s*\n", disclaimer)
	return buf.Bytes()
}

func writeKeywordSection(buf *bytes.Buffer, label string, keywords []string) {
	if len(keywords) == 0 {
		return
	}
	fmt.Fprintf(buf, "### %s\n\n", label)
	for _, k := range keywords {
		fmt.Fprintf(buf, "- %s\n", k)
	}
	buf.WriteString("\n")
}
