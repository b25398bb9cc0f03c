package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/telegram/render"
	"github.com/futig/title-assistant/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// PurposeHandler handles ASK_PURPOSE state (free-text purpose)
type PurposeHandler struct {
	BaseHandler
}

func NewPurposeHandler(deps Dependencies) *PurposeHandler {
	return &PurposeHandler{BaseHandler: newBaseHandler(HandlerStateAskPurpose, deps)}
}

func (h *PurposeHandler) Handle(ctx context.Context, msg *Message) error {
	return h.choosePurpose(ctx, msg, msg.Text)
}

// ContentHandler collects the content. In RESULTS state new text starts
// another round with the same purpose.
type ContentHandler struct {
	BaseHandler
}

func NewContentHandler(deps Dependencies) *ContentHandler {
	return &ContentHandler{BaseHandler: newBaseHandler(HandlerStateAskContent, deps)}
}

func NewResultsHandler(deps Dependencies) *ContentHandler {
	return &ContentHandler{BaseHandler: newBaseHandler(HandlerStateResults, deps)}
}

func (h *ContentHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := h.StateManager.GetStateData(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get state data: %w", err)
	}

	req := &entity.GenerateRequest{Content: msg.Text, Purpose: data.Purpose}
	if err := h.Validator.ValidateGenerateRequest(req); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	data.Content = msg.Text
	data.Step = state.StepAskRequirements
	if err := h.StateManager.UpdateStateData(ctx, msg.UserID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}

	h.sendMessage(ctx, msg.ChatID, render.MsgAskRequirements, h.Keyboard.SkipKeyboard())
	return nil
}

// RequirementsHandler handles ASK_REQUIREMENTS state and submits the form
type RequirementsHandler struct {
	BaseHandler
}

func NewRequirementsHandler(deps Dependencies) *RequirementsHandler {
	return &RequirementsHandler{BaseHandler: newBaseHandler(HandlerStateAskRequirements, deps)}
}

func (h *RequirementsHandler) Handle(ctx context.Context, msg *Message) error {
	return h.submit(ctx, msg, strings.TrimSpace(msg.Text))
}

// BusyHandler answers messages that arrive while a generation is running
type BusyHandler struct {
	BaseHandler
}

func NewBusyHandler(deps Dependencies) *BusyHandler {
	return &BusyHandler{BaseHandler: newBaseHandler(HandlerStateGenerating, deps)}
}

func (h *BusyHandler) Handle(ctx context.Context, msg *Message) error {
	h.sendMessage(ctx, msg.ChatID, render.ErrBusy, nil)
	return nil
}

// startDialogue replaces the user's title session with a fresh one and asks for the purpose
func (h *BaseHandler) startDialogue(ctx context.Context, msg *Message) error {
	if previous, err := h.StateManager.GetSession(ctx, msg.UserID); err == nil && previous.SessionID != "" {
		if err := h.TitleUC.DeleteSession(ctx, previous.SessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
			ctxzap.Warn(ctx, "failed to delete previous title session",
				zap.Error(err),
				zap.String("session_id", previous.SessionID),
			)
		}
	}

	session, err := h.TitleUC.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("create title session: %w", err)
	}

	if _, err := h.StateManager.StartSession(ctx, msg.UserID, session.ID); err != nil {
		return fmt.Errorf("start telegram session: %w", err)
	}

	ctxzap.Info(ctx, "telegram dialogue started",
		zap.Int64("user_id", msg.UserID),
		zap.String("session_id", session.ID),
	)

	h.sendMessage(ctx, msg.ChatID, render.MsgAskPurpose, h.Keyboard.PurposeKeyboard(h.TitleUC.Purposes()))
	return nil
}

func (h *BaseHandler) choosePurpose(ctx context.Context, msg *Message, purpose string) error {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		h.sendMessage(ctx, msg.ChatID, render.ErrBlankInput, nil)
		return nil
	}

	data, err := h.StateManager.GetStateData(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get state data: %w", err)
	}

	data.Purpose = purpose
	data.Step = state.StepAskContent
	if err := h.StateManager.UpdateStateData(ctx, msg.UserID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}

	h.sendMessage(ctx, msg.ChatID, render.RenderAskContent(purpose), nil)
	return nil
}

// submit sends the collected form to the generator
func (h *BaseHandler) submit(ctx context.Context, msg *Message, requirements string) error {
	data, err := h.StateManager.GetStateData(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get state data: %w", err)
	}

	in := entity.TitleInput{
		Content:                data.Content,
		Purpose:                data.Purpose,
		AdditionalRequirements: requirements,
	}

	return h.runGeneration(ctx, msg, data, func(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
		return h.TitleUC.Generate(ctx, sessionID, in)
	})
}
