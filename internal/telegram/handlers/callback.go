package handlers

import (
	"context"
	"fmt"

	"github.com/futig/title-assistant/internal/pkg/formatter"
	"github.com/futig/title-assistant/internal/telegram/keyboard"
	"github.com/futig/title-assistant/internal/telegram/render"
	"github.com/futig/title-assistant/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles all callback button clicks
type CallbackHandler struct {
	BaseHandler
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(deps Dependencies) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: newBaseHandler(HandlerStateCallback, deps), // Special state for callbacks
	}
}

// Handle routes callback queries to appropriate actions
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return fmt.Errorf("parse callback: %w", err)
	}

	ctxzap.Info(ctx, "handling callback",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	switch data.Action {
	case keyboard.ActionGeneral:
		return h.handleAction(ctx, msg, data.Value)
	case keyboard.ActionPurpose:
		return h.handlePurpose(ctx, msg, data)
	case keyboard.ActionKeyword:
		return h.handleKeyword(ctx, msg, data)
	case keyboard.ActionDownload:
		return h.handleDownload(ctx, msg, data.Value)
	default:
		ctxzap.Warn(ctx, "unknown callback action",
			zap.String("action", data.Action),
		)
		return fmt.Errorf("unknown action: %s", data.Action)
	}
}

// handleAction handles general actions
func (h *CallbackHandler) handleAction(ctx context.Context, msg *Message, value string) error {
	switch value {
	case keyboard.ValueStart:
		return h.startDialogue(ctx, msg)
	case keyboard.ValueSkip:
		return h.handleSkip(ctx, msg)
	case keyboard.ValueRegenerate:
		return h.handleRegenerate(ctx, msg)
	default:
		return fmt.Errorf("unknown action value: %s", value)
	}
}

// currentStep returns the dialogue step or false when the user has no session
func (h *CallbackHandler) currentStep(ctx context.Context, msg *Message) (*state.StateData, bool) {
	data, err := h.StateManager.GetStateData(ctx, msg.UserID)
	if err != nil {
		h.sendMessage(ctx, msg.ChatID, render.ErrNoActiveSession, h.Keyboard.StartKeyboard())
		return nil, false
	}
	return data, true
}

func (h *CallbackHandler) handlePurpose(ctx context.Context, msg *Message, cb *keyboard.CallbackData) error {
	data, ok := h.currentStep(ctx, msg)
	if !ok {
		return nil
	}
	if data.Step != state.StepAskPurpose {
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidState, nil)
		return nil
	}

	i, err := cb.Index()
	if err != nil {
		return err
	}

	purposes := h.TitleUC.Purposes()
	if i >= len(purposes) {
		return fmt.Errorf("purpose index %d out of range", i)
	}

	return h.choosePurpose(ctx, msg, purposes[i])
}

func (h *CallbackHandler) handleSkip(ctx context.Context, msg *Message) error {
	data, ok := h.currentStep(ctx, msg)
	if !ok {
		return nil
	}
	if data.Step != state.StepAskRequirements {
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidState, nil)
		return nil
	}

	return h.submit(ctx, msg, "")
}

func (h *CallbackHandler) handleRegenerate(ctx context.Context, msg *Message) error {
	data, ok := h.currentStep(ctx, msg)
	if !ok {
		return nil
	}
	if data.Step != state.StepResults {
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidState, nil)
		return nil
	}

	return h.runGeneration(ctx, msg, data, h.TitleUC.Regenerate)
}

// handleKeyword toggles a keyword and redraws the result message in place
func (h *CallbackHandler) handleKeyword(ctx context.Context, msg *Message, cb *keyboard.CallbackData) error {
	data, ok := h.currentStep(ctx, msg)
	if !ok {
		return nil
	}
	if data.Step != state.StepResults || msg.MessageID != data.ResultMessageID {
		h.sendMessage(ctx, msg.ChatID, render.ErrStaleKeyboard, nil)
		return nil
	}

	i, err := cb.Index()
	if err != nil {
		return err
	}

	session, err := h.StateManager.GetSession(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get telegram session: %w", err)
	}

	current, err := h.TitleUC.GetSession(ctx, session.SessionID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	keyword, ok := keyboard.KeywordAt(current.State, i)
	if !ok {
		h.sendMessage(ctx, msg.ChatID, render.ErrStaleKeyboard, nil)
		return nil
	}

	updated, err := h.TitleUC.ToggleKeyword(ctx, session.SessionID, keyword)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	return h.messageSender.Edit(ctx, msg.ChatID, msg.MessageID,
		render.RenderResults(updated.State),
		h.Keyboard.ResultsKeyboard(updated.State),
	)
}

// handleDownload sends the latest result as a document
func (h *CallbackHandler) handleDownload(ctx context.Context, msg *Message, value string) error {
	session, err := h.StateManager.GetSession(ctx, msg.UserID)
	if err != nil {
		h.sendMessage(ctx, msg.ChatID, render.ErrNoActiveSession, h.Keyboard.StartKeyboard())
		return nil
	}

	format, err := h.Validator.ParseFormat(value)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	result, err := h.TitleUC.GetResult(ctx, session.SessionID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	f, err := h.Formatters.Create(format)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	content, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}

	if err := h.messageSender.SendDocument(ctx, msg.ChatID, formatter.Filename(session.SessionID, f), content); err != nil {
		return fmt.Errorf("send document: %w", err)
	}

	ctxzap.Info(ctx, "result exported",
		zap.String("session_id", session.SessionID),
		zap.String("format", string(format)),
	)

	return nil
}
