package entity

import "time"

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatHTML     ResultFormat = "html"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

// ResultFormats lists export formats in display order.
var ResultFormats = []ResultFormat{FormatMarkdown, FormatHTML, FormatPDF, FormatDOCX}

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// Session is a stored title session.
type Session struct {
	ID        string
	CreatedAt time.Time
}

type GenerateRequest struct {
	Content                string `json:"content"`
	Purpose                string `json:"purpose"`
	AdditionalRequirements string `json:"additionalRequirements"`
}

func (r GenerateRequest) ToInput() TitleInput {
	return TitleInput{
		Content:                r.Content,
		Purpose:                r.Purpose,
		AdditionalRequirements: r.AdditionalRequirements,
	}
}

type ToggleKeywordRequest struct {
	Keyword string `json:"keyword"`
}

type SessionDTO struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	State     TitleState `json:"state"`
}

type SearchURLResponse struct {
	Provider SearchProvider `json:"provider"`
	URL      string         `json:"url"`
}

type PurposesResponse struct {
	Purposes []string `json:"purposes"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
