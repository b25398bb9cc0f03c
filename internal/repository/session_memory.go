package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/patrickmn/go-cache"
)

// SessionMemory keeps live sessions in process memory. Entries expire after
// ttl of inactivity; every successful Get extends the lifetime.
type SessionMemory[T any] struct {
	items *cache.Cache
	ttl   time.Duration
}

func NewSessionMemory[T any](ttl, cleanupInterval time.Duration) *SessionMemory[T] {
	return &SessionMemory[T]{
		items: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (r *SessionMemory[T]) Create(_ context.Context, id string, s *T) error {
	if err := r.items.Add(id, s, r.ttl); err != nil {
		return fmt.Errorf("add session %s: %w", id, err)
	}
	return nil
}

func (r *SessionMemory[T]) Get(_ context.Context, id string) (*T, error) {
	v, ok := r.items.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}

	s, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("session %s has unexpected type %T", id, v)
	}

	r.items.Set(id, s, r.ttl)
	return s, nil
}

func (r *SessionMemory[T]) Delete(_ context.Context, id string) error {
	r.items.Delete(id)
	return nil
}

// Count returns the number of stored sessions, expired ones included until
// the next cleanup.
func (r *SessionMemory[T]) Count() int {
	return r.items.ItemCount()
}
