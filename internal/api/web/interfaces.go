package web

import (
	"context"

	"github.com/futig/title-assistant/internal/entity"
)

type TitleUsecase interface {
	Purposes() []string
	CreateSession(ctx context.Context) (*entity.SessionDTO, error)
	GetSession(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	BeginGeneration(ctx context.Context, sessionID string, in entity.TitleInput) (*entity.SessionDTO, error)
	BeginRegeneration(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	RunGeneration(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	ToggleKeyword(ctx context.Context, sessionID, keyword string) (*entity.SessionDTO, error)
	SearchURL(ctx context.Context, sessionID string, provider entity.SearchProvider) (string, error)
	GetResult(ctx context.Context, sessionID string) (entity.TitleState, error)
}
