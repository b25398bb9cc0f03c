package handlers

import (
	"context"

	"github.com/futig/title-assistant/internal/entity"
)

// TitleUsecase defines the title operations used by the Telegram dialogue.
// Generation runs synchronously inside the update goroutine.
type TitleUsecase interface {
	Purposes() []string
	CreateSession(ctx context.Context) (*entity.SessionDTO, error)
	GetSession(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Generate(ctx context.Context, sessionID string, in entity.TitleInput) (*entity.SessionDTO, error)
	Regenerate(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	ToggleKeyword(ctx context.Context, sessionID, keyword string) (*entity.SessionDTO, error)
	GetResult(ctx context.Context, sessionID string) (entity.TitleState, error)
}
