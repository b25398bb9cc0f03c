package title

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Session binds a stored session id to its controller.
type Session struct {
	entity.Session
	Controller *Controller
}

func (s *Session) toDTO(state entity.TitleState) *entity.SessionDTO {
	return &entity.SessionDTO{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		State:     state,
	}
}

// TitleUsecase implements the title assistant flows on top of per-session controllers
type TitleUsecase struct {
	sessions  SessionRepository
	generator Generator
	metrics   MetricsRecorder
	purposes  []string
	logger    *zap.Logger
}

// NewUsecase creates a new title use case
func NewUsecase(
	sessions SessionRepository,
	generator Generator,
	metrics MetricsRecorder,
	purposes []string,
	logger *zap.Logger,
) *TitleUsecase {
	return &TitleUsecase{
		sessions:  sessions,
		generator: generator,
		metrics:   metrics,
		purposes:  purposes,
		logger:    logger,
	}
}

// Purposes returns the preset usage purposes.
func (uc *TitleUsecase) Purposes() []string {
	return append([]string{}, uc.purposes...)
}

// CreateSession starts an Idle session
func (uc *TitleUsecase) CreateSession(ctx context.Context) (*entity.SessionDTO, error) {
	s := &Session{
		Session: entity.Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now().UTC(),
		},
		Controller: NewController(uc.generator),
	}

	if err := uc.sessions.Create(ctx, s.ID, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", s.ID))

	return s.toDTO(s.Controller.Snapshot()), nil
}

func (uc *TitleUsecase) GetSession(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(s.Controller.Snapshot()), nil
}

func (uc *TitleUsecase) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := uc.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// BeginGeneration stores the input and enters Generating without calling
// the service. RunGeneration must follow.
func (uc *TitleUsecase) BeginGeneration(ctx context.Context, sessionID string, in entity.TitleInput) (*entity.SessionDTO, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.Controller.Begin(in); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "generation started",
		zap.String("session_id", sessionID),
		zap.String("purpose", in.Purpose),
	)

	return s.toDTO(s.Controller.Snapshot()), nil
}

// BeginRegeneration is BeginGeneration with the stored inputs.
func (uc *TitleUsecase) BeginRegeneration(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.Controller.BeginRegenerate(); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "regeneration started", zap.String("session_id", sessionID))

	return s.toDTO(s.Controller.Snapshot()), nil
}

// RunGeneration performs the pending generation of a session.
func (uc *TitleUsecase) RunGeneration(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := s.Controller.Run(ctx)

	ctxzap.Info(ctx, "generation finished",
		zap.String("session_id", sessionID),
		zap.String("status", string(state.Status)),
		zap.Int("title_count", len(state.Results)),
	)

	return s.toDTO(state), nil
}

// Generate begins and runs a generation synchronously.
func (uc *TitleUsecase) Generate(ctx context.Context, sessionID string, in entity.TitleInput) (*entity.SessionDTO, error) {
	if _, err := uc.BeginGeneration(ctx, sessionID, in); err != nil {
		return nil, err
	}
	return uc.RunGeneration(ctx, sessionID)
}

// Regenerate resubmits the stored inputs synchronously.
func (uc *TitleUsecase) Regenerate(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	if _, err := uc.BeginRegeneration(ctx, sessionID); err != nil {
		return nil, err
	}
	return uc.RunGeneration(ctx, sessionID)
}

// ToggleKeyword flips keyword in the selection. Only keywords offered by
// the current result can be added; removal is always allowed.
func (uc *TitleUsecase) ToggleKeyword(ctx context.Context, sessionID, keyword string) (*entity.SessionDTO, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	current := s.Controller.Snapshot()
	if !current.IsSelected(keyword) && !offersKeyword(current, keyword) {
		return nil, fmt.Errorf("%w: keyword %q is not part of the current result", entity.ErrInvalidParameter, keyword)
	}

	state := s.Controller.ToggleKeyword(keyword)
	uc.metrics.KeywordToggled()

	ctxzap.Debug(ctx, "keyword toggled",
		zap.String("session_id", sessionID),
		zap.String("keyword", keyword),
		zap.Int("selected", len(state.SelectedKeywords)),
	)

	return s.toDTO(state), nil
}

// SearchURL returns the provider search URL for the current selection.
func (uc *TitleUsecase) SearchURL(ctx context.Context, sessionID string, provider entity.SearchProvider) (string, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	url, err := s.Controller.SearchURL(provider)
	if err != nil {
		return "", err
	}

	uc.metrics.SearchDispatched(string(provider))
	ctxzap.Info(ctx, "search dispatched",
		zap.String("session_id", sessionID),
		zap.String("provider", string(provider)),
	)

	return url, nil
}

// GetResult returns the state of a session whose last generation succeeded.
func (uc *TitleUsecase) GetResult(ctx context.Context, sessionID string) (entity.TitleState, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return entity.TitleState{}, err
	}

	state := s.Controller.Snapshot()
	if state.Status != entity.TitleStatusSucceeded {
		return entity.TitleState{}, entity.ErrNoResult
	}

	return state, nil
}

func offersKeyword(state entity.TitleState, keyword string) bool {
	for _, list := range [][]string{state.KeywordsCn, state.KeywordsEn} {
		for _, k := range list {
			if k == keyword {
				return true
			}
		}
	}
	return false
}
