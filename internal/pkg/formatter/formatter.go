package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
)

const (
	baseTitle         = "标题建议"
	purposeLabel      = "场景/用途"
	requirementsLabel = "额外要求/风格偏好"
	reasoningLabel    = "推荐理由"
	keywordsCnLabel   = "中文标签"
	keywordsEnLabel   = "英文标签"
	selectedLabel     = "已选关键词"
	disclaimer        = "内容由 AI 生成，仅供参考"
)

// Formatter renders a successful title state as a downloadable document
type Formatter interface {
	Format(state entity.TitleState) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// Factory creates formatters for the export formats it offers.
// DOCX is offered only when enabled with WithDOCX.
type Factory struct {
	docx bool
}

type FactoryOption func(*Factory)

// WithDOCX enables DOCX export. A UniDoc license must be installed first,
// otherwise every DOCX document fails to save.
func WithDOCX() FactoryOption {
	return func(f *Factory) {
		f.docx = true
	}
}

func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Formats lists the offered export formats in display order.
func (f *Factory) Formats() []entity.ResultFormat {
	formats := make([]entity.ResultFormat, 0, len(entity.ResultFormats))
	for _, format := range entity.ResultFormats {
		if format == entity.FormatDOCX && !f.docx {
			continue
		}
		formats = append(formats, format)
	}
	return formats
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatHTML:
		return NewHTMLFormatter(), nil
	case entity.FormatDOCX:
		if !f.docx {
			return nil, fmt.Errorf("%w: docx export is not enabled", entity.ErrInvalidFormat)
		}
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFormat, format)
	}
}

// Filename builds the download name for a session export.
func Filename(sessionID string, f Formatter) string {
	return "titles-" + sessionID + f.FileExtension()
}

func joinKeywords(keywords []string, sep string) string {
	return strings.Join(keywords, sep)
}
