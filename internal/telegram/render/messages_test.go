package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRenderResults(t *testing.T) {
	state := entity.TitleState{
		Purpose: "小红书爆款标题",
		Status:  entity.TitleStatusSucceeded,
		Results: []entity.GeneratedTitle{
			{Title: "T1", Reasoning: "R1"},
			{Title: "T2", Reasoning: "R2"},
		},
		KeywordsCn:       []string{"美妆", "测评"},
		KeywordsEn:       []string{"beauty"},
		SelectedKeywords: []string{"美妆", "beauty"},
	}

	text := RenderResults(state)

	assert.Contains(t, text, "场景：小红书爆款标题")
	assert.Contains(t, text, "1. T1\n推荐理由：R1")
	assert.Contains(t, text, "2. T2\n推荐理由：R2")
	assert.Contains(t, text, "关键词配图助手 (3)")
	assert.Contains(t, text, "已选关键词：美妆、beauty")
	assert.Contains(t, text, MsgDisclaimer)
}

func TestRenderResultsEmpty(t *testing.T) {
	text := RenderResults(entity.NewTitleState())

	assert.Contains(t, text, MsgNoResults)
	assert.Contains(t, text, MsgNothingChosen)
	assert.NotContains(t, text, "关键词配图助手")
}

func TestRenderFailure(t *testing.T) {
	msg := entity.GenerationFailedMessage
	assert.Equal(t, "❌ 生成失败，请重试。", RenderFailure(entity.TitleState{Error: &msg}))
	assert.Equal(t, "❌ "+entity.UnexpectedErrorMessage, RenderFailure(entity.TitleState{}))
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ErrGeneric},
		{name: "session", err: fmt.Errorf("get: %w", entity.ErrSessionNotFound), want: ErrSessionExpired},
		{name: "busy", err: entity.ErrGenerationInProgress, want: ErrBusy},
		{name: "blank", err: entity.ErrBlankInput, want: ErrBlankInput},
		{name: "too long", err: entity.ErrContentTooLong, want: ErrContentTooLong},
		{name: "selection", err: entity.ErrEmptySelection, want: ErrNoKeywords},
		{name: "generation", err: entity.NewGenerationError(errors.New("quota")), want: "❌ 生成失败，请重试。"},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrTimeout},
		{name: "refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: ErrServiceUnavailable},
		{name: "net timeout", err: timeoutError{}, want: ErrTimeout},
		{name: "other", err: errors.New("boom"), want: ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
