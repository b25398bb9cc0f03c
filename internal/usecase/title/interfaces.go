package title

import (
	"context"

	"github.com/futig/title-assistant/internal/entity"
)

// Generator is the generation client used by the controller.
type Generator interface {
	Generate(ctx context.Context, in entity.TitleInput) (*entity.GenerationResult, error)
}

// SessionRepository stores live sessions. Get returns entity.ErrSessionNotFound
// for unknown or expired ids.
type SessionRepository interface {
	Create(ctx context.Context, id string, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MetricsRecorder receives user interaction events.
type MetricsRecorder interface {
	KeywordToggled()
	SearchDispatched(provider string)
}
