package handlers

import (
	"context"
	"strings"

	pkgRetry "github.com/futig/title-assistant/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending with retries
type MessageSender struct {
	bot      *tgbotapi.BotAPI
	retryCfg *pkgRetry.RetryConfig
	logger   *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(bot *tgbotapi.BotAPI, retryCfg *pkgRetry.RetryConfig, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		bot:      bot,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// Send sends a message to the specified chat
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	return withRetry(ctx, s.retryCfg, s.logger, "sendMessage", func() (tgbotapi.Message, error) {
		return s.bot.Send(msg)
	})
}

// Edit replaces text and inline keyboard of a sent message. An edit that
// changes nothing is not an error.
func (s *MessageSender) Edit(ctx context.Context, chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)

	_, err := withRetry(ctx, s.retryCfg, s.logger, "editMessageText", func() (tgbotapi.Message, error) {
		return s.bot.Send(edit)
	})
	if err != nil && !isNotModified(err) {
		return err
	}
	return nil
}

// SendDocument uploads data as a file attachment
func (s *MessageSender) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})

	_, err := withRetry(ctx, s.retryCfg, s.logger, "sendDocument", func() (tgbotapi.Message, error) {
		return s.bot.Send(doc)
	})
	return err
}

// AnswerCallback acknowledges a button press. Failures are only logged
func (s *MessageSender) AnswerCallback(callbackID, text string) {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.logger.Warn("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
