package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/telegram/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct{ name string }

func TestSessionMemoryCRUD(t *testing.T) {
	repo := NewSessionMemory[item](time.Hour, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "a", &item{name: "first"}))
	assert.Error(t, repo.Create(ctx, "a", &item{name: "dup"}))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.name)
	assert.Equal(t, 1, repo.Count())

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestSessionMemoryExpires(t *testing.T) {
	repo := NewSessionMemory[item](50*time.Millisecond, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "a", &item{}))
	time.Sleep(100 * time.Millisecond)

	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestSessionMemoryGetExtendsLifetime(t *testing.T) {
	repo := NewSessionMemory[item](150*time.Millisecond, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "a", &item{}))
	for i := 0; i < 4; i++ {
		time.Sleep(60 * time.Millisecond)
		_, err := repo.Get(ctx, "a")
		require.NoError(t, err)
	}
}

func TestTelegramStateMemory(t *testing.T) {
	repo := NewTelegramStateMemory(time.Hour, time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx, 42)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	session := &state.TelegramSession{
		UserID:    42,
		SessionID: "s-1",
		StateData: json.RawMessage(`{"step":"ASK_CONTENT"}`),
	}
	require.NoError(t, repo.Set(ctx, session))

	// stored value is a copy
	session.SessionID = "changed"
	session.StateData[2] = 'X'

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.SessionID)
	assert.JSONEq(t, `{"step":"ASK_CONTENT"}`, string(got.StateData))
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, 42))
	_, err = repo.Get(ctx, 42)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestTelegramStateThroughManager(t *testing.T) {
	m := state.NewManager(NewTelegramStateMemory(time.Hour, time.Minute))
	ctx := context.Background()

	data, err := m.StartSession(ctx, 7, "sess")
	require.NoError(t, err)
	assert.Equal(t, state.StepAskPurpose, data.Step)

	data.Step = state.StepAskContent
	data.Purpose = "新闻标题"
	require.NoError(t, m.UpdateStateData(ctx, 7, data))

	loaded, err := m.GetStateData(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, state.StepAskContent, loaded.Step)
	assert.Equal(t, "新闻标题", loaded.Purpose)
	assert.Equal(t, state.StateDataCurrentVersion, loaded.Version)

	session, err := m.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "sess", session.SessionID)
}
