package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/telegram/state"
	"github.com/patrickmn/go-cache"
)

var _ state.Storage = &TelegramStateMemory{}

// TelegramStateMemory keeps telegram user mappings in memory with the same
// inactivity TTL as title sessions.
type TelegramStateMemory struct {
	items *cache.Cache
	ttl   time.Duration
}

func NewTelegramStateMemory(ttl, cleanupInterval time.Duration) *TelegramStateMemory {
	return &TelegramStateMemory{
		items: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get retrieves telegram session by user ID
func (r *TelegramStateMemory) Get(_ context.Context, userID int64) (*state.TelegramSession, error) {
	v, ok := r.items.Get(userKey(userID))
	if !ok {
		return nil, fmt.Errorf("%w: telegram user %d", entity.ErrSessionNotFound, userID)
	}

	stored, ok := v.(state.TelegramSession)
	if !ok {
		return nil, fmt.Errorf("telegram session %d has unexpected type %T", userID, v)
	}

	stored.StateData = append([]byte(nil), stored.StateData...)
	return &stored, nil
}

// Set saves a copy of the telegram session
func (r *TelegramStateMemory) Set(_ context.Context, session *state.TelegramSession) error {
	stored := *session
	stored.StateData = append([]byte(nil), session.StateData...)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	r.items.Set(userKey(session.UserID), stored, r.ttl)
	return nil
}

// Delete removes telegram session
func (r *TelegramStateMemory) Delete(_ context.Context, userID int64) error {
	r.items.Delete(userKey(userID))
	return nil
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
