package entity

import "strings"

// GeneratedTitle is one candidate headline with its one-sentence rationale.
type GeneratedTitle struct {
	Title     string `json:"title" jsonschema:"description=生成的中文标题"`
	Reasoning string `json:"reasoning" jsonschema:"description=推荐理由"`
}

// GenerationResult is the normalized payload returned by the generative service.
// Slices are never nil after normalization and keep the service order.
type GenerationResult struct {
	Titles     []GeneratedTitle `json:"titles"`
	KeywordsCn []string         `json:"keywordsCn" jsonschema:"description=10个中文关键词"`
	KeywordsEn []string         `json:"keywordsEn" jsonschema:"description=10个英文关键词"`
}

// EmptyGenerationResult returns a result with all sequences empty.
func EmptyGenerationResult() *GenerationResult {
	return &GenerationResult{
		Titles:     []GeneratedTitle{},
		KeywordsCn: []string{},
		KeywordsEn: []string{},
	}
}

// TitleInput holds the user-provided form values.
type TitleInput struct {
	Content                string `json:"content"`
	Purpose                string `json:"purpose"`
	AdditionalRequirements string `json:"additionalRequirements"`
}

// IsBlank reports whether content or purpose is empty after trimming.
func (in TitleInput) IsBlank() bool {
	return strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Purpose) == ""
}

type TitleStatus string

const (
	TitleStatusIdle       TitleStatus = "idle"
	TitleStatusGenerating TitleStatus = "generating"
	TitleStatusSucceeded  TitleStatus = "succeeded"
	TitleStatusFailed     TitleStatus = "failed"
)

// TitleState is the full UI state of one session.
type TitleState struct {
	Content                string           `json:"content"`
	Purpose                string           `json:"purpose"`
	AdditionalRequirements string           `json:"additionalRequirements"`
	Status                 TitleStatus      `json:"status"`
	IsGenerating           bool             `json:"isGenerating"`
	Results                []GeneratedTitle `json:"results"`
	KeywordsCn             []string         `json:"keywordsCn"`
	KeywordsEn             []string         `json:"keywordsEn"`
	SelectedKeywords       []string         `json:"selectedKeywords"`
	Error                  *string          `json:"error,omitempty"`
}

// NewTitleState returns the initial Idle state.
func NewTitleState() TitleState {
	return TitleState{
		Status:           TitleStatusIdle,
		Results:          []GeneratedTitle{},
		KeywordsCn:       []string{},
		KeywordsEn:       []string{},
		SelectedKeywords: []string{},
	}
}

// Input returns the stored form values.
func (s TitleState) Input() TitleInput {
	return TitleInput{
		Content:                s.Content,
		Purpose:                s.Purpose,
		AdditionalRequirements: s.AdditionalRequirements,
	}
}

// IsSelected reports whether keyword is part of the current selection.
func (s TitleState) IsSelected(keyword string) bool {
	for _, k := range s.SelectedKeywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out to readers.
func (s TitleState) Clone() TitleState {
	out := s
	out.Results = append([]GeneratedTitle{}, s.Results...)
	out.KeywordsCn = append([]string{}, s.KeywordsCn...)
	out.KeywordsEn = append([]string{}, s.KeywordsEn...)
	out.SelectedKeywords = append([]string{}, s.SelectedKeywords...)
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	return out
}
