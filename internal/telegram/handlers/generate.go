package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/telegram/render"
	"github.com/futig/title-assistant/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// A processing flag older than this is treated as abandoned
const processingTimeout = 5 * time.Minute

type generateFunc func(ctx context.Context, sessionID string) (*entity.SessionDTO, error)

// runGeneration marks the chat as generating, runs gen synchronously and
// posts the result message with the keyword keyboard.
func (h *BaseHandler) runGeneration(ctx context.Context, msg *Message, data *state.StateData, gen generateFunc) error {
	if data.IsProcessing && time.Since(data.ProcessingStarted) < processingTimeout {
		h.sendMessage(ctx, msg.ChatID, render.ErrBusy, nil)
		return nil
	}

	session, err := h.StateManager.GetSession(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get telegram session: %w", err)
	}

	previousStep := data.Step
	data.Step = state.StepGenerating
	data.IsProcessing = true
	data.ProcessingStarted = time.Now()
	if err := h.StateManager.UpdateStateData(ctx, msg.UserID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}

	h.sendMessage(ctx, msg.ChatID, render.MsgGenerating, nil)

	typing := NewTypingNotifier(h.Bot, msg.ChatID)
	typing.Start(ctx)
	dto, genErr := gen(ctx, session.SessionID)
	typing.Stop()

	data.IsProcessing = false
	data.ProcessingStarted = time.Time{}

	if genErr != nil {
		data.Step = previousStep
		if err := h.StateManager.UpdateStateData(ctx, msg.UserID, data); err != nil {
			return fmt.Errorf("update state data: %w", err)
		}
		h.HandleError(ctx, msg.ChatID, genErr)
		return nil
	}

	data.Step = state.StepResults
	result := dto.State

	if result.Status == entity.TitleStatusFailed {
		data.ResultMessageID = 0
		if err := h.StateManager.UpdateStateData(ctx, msg.UserID, data); err != nil {
			return fmt.Errorf("update state data: %w", err)
		}
		h.sendMessage(ctx, msg.ChatID, render.RenderFailure(result), h.Keyboard.RetryKeyboard())
		return nil
	}

	sent, err := h.messageSender.Send(ctx, msg.ChatID, render.RenderResults(result), h.Keyboard.ResultsKeyboard(result))
	if err != nil {
		ctxzap.Error(ctx, "failed to send results", zap.Error(err), zap.Int64("chat_id", msg.ChatID))
	}

	data.ResultMessageID = sent.MessageID
	if err := h.StateManager.UpdateStateData(ctx, msg.UserID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}

	ctxzap.Info(ctx, "telegram results delivered",
		zap.String("session_id", session.SessionID),
		zap.Int("title_count", len(result.Results)),
	)

	return nil
}
