package title

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/pkg/formatter"
	"github.com/futig/title-assistant/internal/pkg/logger"
	"github.com/futig/title-assistant/internal/pkg/response"
	"github.com/futig/title-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    TitleUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func NewHandler(usecase TitleUsecase, validator *validator.Validator, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		validator:  validator,
		formatters: formatters,
	}
}

// ListPurposes handles GET /api/v1/purposes
func (h *Handler) ListPurposes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.PurposesResponse{Purposes: h.usecase.Purposes()})
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	session, err := h.usecase.CreateSession(ctx)
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, session)
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	ctxzap.Debug(ctx, "fetching session")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "DeleteSession"),
	)

	if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session deleted")
	response.NoContent(w)
}

// Generate handles POST /api/v1/sessions/{id}/generate.
// The session enters Generating before the response; the result is
// polled with GetSession.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "Generate"),
	)

	var req entity.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateGenerateRequest(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	session, err := h.usecase.BeginGeneration(ctx, sessionID, req.ToInput())
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	h.runAsync(ctx, r, sessionID, "Generate-async")
	response.Accepted(w, session)
}

// Regenerate handles POST /api/v1/sessions/{id}/regenerate
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "Regenerate"),
	)

	session, err := h.usecase.BeginRegeneration(ctx, sessionID)
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	h.runAsync(ctx, r, sessionID, "Regenerate-async")
	response.Accepted(w, session)
}

// ToggleKeyword handles POST /api/v1/sessions/{id}/keywords/toggle
func (h *Handler) ToggleKeyword(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ToggleKeyword"),
	)

	var req entity.ToggleKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateToggleKeyword(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	session, err := h.usecase.ToggleKeyword(ctx, sessionID, req.Keyword)
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// SearchURL handles GET /api/v1/sessions/{id}/search/{provider}
func (h *Handler) SearchURL(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "SearchURL"),
	)

	provider, err := h.validator.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	url, err := h.usecase.SearchURL(ctx, sessionID, provider)
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.SearchURLResponse{Provider: provider, URL: url})
}

// Export handles GET /api/v1/sessions/{id}/export?format=
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "Export"),
	)

	format, err := h.validator.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	state, err := h.usecase.GetResult(ctx, sessionID)
	if err != nil {
		handleUsecaseError(ctx, w, err)
		return
	}

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	data, err := fmtr.Format(state)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to format result", err)
		return
	}

	ctxzap.Info(ctx, "result exported", zap.String("format", string(format)))
	response.Attachment(w, fmtr.ContentType(), formatter.Filename(sessionID, fmtr), data)
}

func (h *Handler) runAsync(ctx context.Context, r *http.Request, sessionID, action string) {
	bgCtx := logger.Detach(ctx,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("action", action),
	)

	go func() {
		if _, err := h.usecase.RunGeneration(bgCtx, sessionID); err != nil {
			ctxzap.Error(bgCtx, "failed to run generation", zap.Error(err))
		}
	}()
}
