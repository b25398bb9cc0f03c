package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
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

const (
	sessionCookie = "title_session"

	appTitle    = "AI 标题助手"
	appSubtitle = "一键生成标题灵感与配图关键词"

	noticeTooLong = "内容过长，请精简后再试。"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type providerView struct {
	ID    entity.SearchProvider
	Label string
}

type pageData struct {
	AppTitle    string
	AppSubtitle string
	State       entity.TitleState
	Purposes    []string
	Providers   []providerView
	Formats     []entity.ResultFormat
	Notice      string
}

// Handler serves the single-page form front-end. Each browser gets its own
// session, tracked by cookie.
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

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Index")

	session, err := h.session(ctx, w, r)
	if err != nil {
		ctxzap.Error(ctx, "failed to resolve session", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data := pageData{
		AppTitle:    appTitle,
		AppSubtitle: appSubtitle,
		State:       session.State,
		Purposes:    h.usecase.Purposes(),
		Formats:     h.formatters.Formats(),
	}
	for _, p := range entity.SearchProviders {
		data.Providers = append(data.Providers, providerView{ID: p, Label: p.Label()})
	}
	if r.URL.Query().Get("notice") == "too_long" {
		data.Notice = noticeTooLong
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		ctxzap.Error(ctx, "failed to render page", zap.Error(err))
	}
}

// Generate handles POST /generate. Blank input is ignored.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebGenerate")

	session, err := h.session(ctx, w, r)
	if err != nil {
		ctxzap.Error(ctx, "failed to resolve session", zap.Error(err))
		redirectHome(w, r)
		return
	}
	ctx = logger.AddFields(ctx, zap.String("session_id", session.ID))

	req := entity.GenerateRequest{
		Content:                r.PostFormValue("content"),
		Purpose:                r.PostFormValue("purpose"),
		AdditionalRequirements: r.PostFormValue("additionalRequirements"),
	}

	if err := h.validator.ValidateGenerateRequest(&req); err != nil {
		ctxzap.Debug(ctx, "submission ignored", zap.Error(err))
		if errors.Is(err, entity.ErrContentTooLong) {
			http.Redirect(w, r, "/?notice=too_long", http.StatusSeeOther)
			return
		}
		redirectHome(w, r)
		return
	}

	if _, err := h.usecase.BeginGeneration(ctx, session.ID, req.ToInput()); err != nil {
		ctxzap.Debug(ctx, "submission ignored", zap.Error(err))
		redirectHome(w, r)
		return
	}

	h.runAsync(ctx, r, session.ID)
	redirectHome(w, r)
}

// Regenerate handles POST /regenerate
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebRegenerate")

	session, err := h.session(ctx, w, r)
	if err != nil {
		ctxzap.Error(ctx, "failed to resolve session", zap.Error(err))
		redirectHome(w, r)
		return
	}

	if _, err := h.usecase.BeginRegeneration(ctx, session.ID); err != nil {
		ctxzap.Debug(ctx, "regeneration ignored", zap.Error(err))
		redirectHome(w, r)
		return
	}

	h.runAsync(ctx, r, session.ID)
	redirectHome(w, r)
}

// ToggleKeyword handles POST /keywords/toggle
func (h *Handler) ToggleKeyword(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebToggleKeyword")

	session, err := h.session(ctx, w, r)
	if err != nil {
		ctxzap.Error(ctx, "failed to resolve session", zap.Error(err))
		redirectHome(w, r)
		return
	}

	req := entity.ToggleKeywordRequest{Keyword: r.PostFormValue("keyword")}
	if err := h.validator.ValidateToggleKeyword(&req); err == nil {
		if _, err := h.usecase.ToggleKeyword(ctx, session.ID, req.Keyword); err != nil {
			ctxzap.Debug(ctx, "toggle ignored", zap.Error(err))
		}
	}

	http.Redirect(w, r, "/#keywords", http.StatusSeeOther)
}

// Search handles GET /search/{provider} by redirecting to the provider.
// An empty selection does nothing.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebSearch")

	session, err := h.session(ctx, w, r)
	if err != nil {
		ctxzap.Error(ctx, "failed to resolve session", zap.Error(err))
		redirectHome(w, r)
		return
	}

	provider, err := h.validator.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	url, err := h.usecase.SearchURL(ctx, session.ID, provider)
	if err != nil {
		ctxzap.Debug(ctx, "search ignored", zap.Error(err))
		redirectHome(w, r)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// Export handles GET /export?format=
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebExport")

	session, err := h.session(ctx, w, r)
	if err != nil {
		ctxzap.Error(ctx, "failed to resolve session", zap.Error(err))
		redirectHome(w, r)
		return
	}

	format, err := h.validator.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := h.usecase.GetResult(ctx, session.ID)
	if err != nil {
		redirectHome(w, r)
		return
	}

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := fmtr.Format(state)
	if err != nil {
		ctxzap.Error(ctx, "failed to format result", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	response.Attachment(w, fmtr.ContentType(), formatter.Filename(session.ID, fmtr), data)
}

// session returns the session named by the cookie, creating a new one when
// the cookie is missing or the session expired.
func (h *Handler) session(ctx context.Context, w http.ResponseWriter, r *http.Request) (*entity.SessionDTO, error) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		session, err := h.usecase.GetSession(ctx, c.Value)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, entity.ErrSessionNotFound) {
			return nil, err
		}
	}

	session, err := h.usecase.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return session, nil
}

func (h *Handler) runAsync(ctx context.Context, r *http.Request, sessionID string) {
	bgCtx := logger.Detach(ctx,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("session_id", sessionID),
	)

	go func() {
		if _, err := h.usecase.RunGeneration(bgCtx, sessionID); err != nil {
			ctxzap.Error(bgCtx, "failed to run generation", zap.Error(err))
		}
	}()
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
