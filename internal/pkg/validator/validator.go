package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/title-assistant/internal/entity"
)

// Validator checks requests before they reach the title usecase
type Validator struct {
	maxContentLength int
}

func NewValidator(maxContentLength int) *Validator {
	return &Validator{maxContentLength: maxContentLength}
}

// ValidateGenerateRequest rejects blank input and oversized content.
// Length is counted in runes.
func (v *Validator) ValidateGenerateRequest(req *entity.GenerateRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content", entity.ErrBlankInput)
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return fmt.Errorf("%w: purpose", entity.ErrBlankInput)
	}

	if v.maxContentLength > 0 {
		if n := utf8.RuneCountInString(req.Content); n > v.maxContentLength {
			return fmt.Errorf("%w: %d characters (max %d)", entity.ErrContentTooLong, n, v.maxContentLength)
		}
	}

	return nil
}

func (v *Validator) ValidateToggleKeyword(req *entity.ToggleKeywordRequest) error {
	if req.Keyword == "" {
		return fmt.Errorf("%w: keyword", entity.ErrMissingField)
	}
	return nil
}

// ParseProvider validates a search provider path parameter
func (v *Validator) ParseProvider(raw string) (entity.SearchProvider, error) {
	p := entity.SearchProvider(strings.ToLower(raw))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownProvider, raw)
	}
	return p, nil
}

// ParseFormat validates an export format, defaulting to markdown
func (v *Validator) ParseFormat(raw string) (entity.ResultFormat, error) {
	if raw == "" {
		return entity.FormatMarkdown, nil
	}

	f := entity.ResultFormat(strings.ToLower(raw))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q (allowed: markdown, html, pdf, docx)", entity.ErrInvalidFormat, raw)
	}
	return f, nil
}
