package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleInputIsBlank(t *testing.T) {
	tests := []struct {
		name  string
		input TitleInput
		want  bool
	}{
		{"both filled", TitleInput{Content: "正文", Purpose: "新闻标题"}, false},
		{"blank content", TitleInput{Content: "  \n\t", Purpose: "新闻标题"}, true},
		{"blank purpose", TitleInput{Content: "正文", Purpose: " "}, true},
		{"requirements alone", TitleInput{AdditionalRequirements: "幽默"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.input.IsBlank())
		})
	}
}

func TestTitleStateCloneIsDeep(t *testing.T) {
	msg := "boom"
	s := NewTitleState()
	s.KeywordsCn = []string{"夜景"}
	s.SelectedKeywords = []string{"夜景"}
	s.Error = &msg

	c := s.Clone()
	c.KeywordsCn[0] = "changed"
	c.SelectedKeywords = append(c.SelectedKeywords, "x")
	*c.Error = "changed"

	assert.Equal(t, []string{"夜景"}, s.KeywordsCn)
	assert.Equal(t, []string{"夜景"}, s.SelectedKeywords)
	assert.Equal(t, "boom", *s.Error)
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", NewGenerationError(errors.New("503 from upstream")))

	assert.Equal(t, GenerationFailedMessage, UserMessage(wrapped))
	assert.Equal(t, UnexpectedErrorMessage, UserMessage(errors.New("other")))

	var genErr *GenerationError
	assert.True(t, errors.As(wrapped, &genErr))
	assert.EqualError(t, genErr.Cause, "503 from upstream")
}
