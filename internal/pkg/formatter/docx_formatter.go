package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(state entity.TitleState) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	addStyled(doc, "Heading1", baseTitle)
	addText(doc, purposeLabel+": "+state.Purpose)
	if req := strings.TrimSpace(state.AdditionalRequirements); req != "" {
		addText(doc, requirementsLabel+": "+req)
	}

	for i, t := range state.Results {
		addStyled(doc, "Heading2", fmt.Sprintf("%d. %s", i+1, t.Title))
		addText(doc, reasoningLabel+": "+t.Reasoning)
	}

	if len(state.KeywordsCn) > 0 {
		addStyled(doc, "Heading3", keywordsCnLabel)
		addText(doc, joinKeywords(state.KeywordsCn, "、"))
	}
	if len(state.KeywordsEn) > 0 {
		addStyled(doc, "Heading3", keywordsEnLabel)
		addText(doc, joinKeywords(state.KeywordsEn, ", "))
	}
	if len(state.SelectedKeywords) > 0 {
		addStyled(doc, "Heading3", selectedLabel)
		addText(doc, joinKeywords(state.SelectedKeywords, " "))
	}

	doc.AddParagraph()
	addText(doc, disclaimer)

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}

func addStyled(doc *document.Document, style, text string) {
	p := doc.AddParagraph()
	p.SetStyle(style)
	p.AddRun().AddText(text)
}

func addText(doc *document.Document, text string) {
	doc.AddParagraph().AddRun().AddText(text)
}
