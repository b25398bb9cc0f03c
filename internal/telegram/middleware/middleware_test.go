package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(60, 2, zap.NewNop(), sender.Send)
	defer rl.Stop()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	for i := 0; i < 4; i++ {
		rl.Handle(textUpdate(1, "hi"), next)
	}
	assert.Equal(t, 2, handled)
	require.Len(t, sender.sent, 1, "one warning per interval")
	assert.Equal(t, int64(1), sender.sent[0].ChatID)

	// one token per second at 60/min
	clock = clock.Add(time.Second)
	rl.Handle(textUpdate(1, "hi"), next)
	assert.Equal(t, 3, handled)

	// other users have their own bucket
	rl.Handle(textUpdate(2, "hi"), next)
	assert.Equal(t, 4, handled)
}

func TestRateLimiterRemovesInactiveUsers(t *testing.T) {
	rl := NewRateLimiterMiddleware(30, 5, zap.NewNop(), (&recordingSender{}).Send)
	defer rl.Stop()

	clock := time.Now()
	rl.now = func() time.Time { return clock }
	rl.Handle(textUpdate(1, "hi"), func(tgbotapi.Update) {})

	clock = clock.Add(2 * time.Hour)
	rl.removeInactive()

	assert.Empty(t, rl.limits)
}

func TestRecoveryMiddleware(t *testing.T) {
	sender := &recordingSender{}
	core, logs := observer.New(zapcore.ErrorLevel)
	m := NewRecoveryMiddleware(zap.New(core), sender.Send)

	assert.NotPanics(t, func() {
		m.Handle(textUpdate(7, "boom"), func(tgbotapi.Update) { panic("boom") })
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, panicMessage, sender.sent[0].Text)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered in telegram handler").Len())
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewLoggingMiddleware(zap.New(core))

	called := false
	m.Handle(textUpdate(3, "正文"), func(tgbotapi.Update) { called = true })

	assert.True(t, called)
	received := logs.FilterMessage("telegram update received").All()
	require.Len(t, received, 1)
	assert.Equal(t, "text", received[0].ContextMap()["type"])
}
