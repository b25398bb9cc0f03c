package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"github.com/futig/title-assistant/internal/pkg/formatter"
	"github.com/futig/title-assistant/internal/pkg/metrics"
	pkgRetry "github.com/futig/title-assistant/internal/pkg/retry"
	"github.com/futig/title-assistant/internal/pkg/validator"
	"github.com/futig/title-assistant/internal/repository"
	"github.com/futig/title-assistant/internal/telegram/bot"
	"github.com/futig/title-assistant/internal/telegram/render"
	titleuc "github.com/futig/title-assistant/internal/usecase/title"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUserID = int64(42)
	testToken  = "123:test"
)

type apiCall struct {
	Method    string
	Values    url.Values
	MessageID int
}

// fakeBotAPI answers Bot API requests and records them
type fakeBotAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	nextID int
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		_ = r.ParseMultipartForm(10 << 20)
	} else {
		_ = r.ParseForm()
	}
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.nextID++
	call := apiCall{Method: method, Values: r.Form, MessageID: f.nextID}
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"title_bot"}}`)
	case "sendMessage", "editMessageText", "sendDocument":
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%d}}}`, call.MessageID, testUserID)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeBotAPI) last(method string) apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			return f.calls[i]
		}
	}
	return apiCall{}
}

func (f *fakeBotAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, entity.TitleInput) (*entity.GenerationResult, error) {
	return &entity.GenerationResult{
		Titles: []entity.GeneratedTitle{
			{Title: "T1", Reasoning: "R1"},
			{Title: "T2", Reasoning: "R2"},
			{Title: "T3", Reasoning: "R3"},
		},
		KeywordsCn: []string{"美妆", "测评"},
		KeywordsEn: []string{"beauty", "review"},
	}, nil
}

func newTestBot(t *testing.T) (*bot.Bot, *fakeBotAPI) {
	t.Helper()

	api := &fakeBotAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.TelegramConfig{
		BotToken:           testToken,
		RateLimitPerMinute: 60,
		RateLimitBurst:     20,
		ShutdownTimeout:    1,
		SendRetry:          pkgRetry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}

	sessions := repository.NewSessionMemory[titleuc.Session](time.Hour, time.Minute)
	uc := titleuc.NewUsecase(sessions, stubGenerator{}, metrics.New(), []string{"小红书爆款标题", "新闻标题"}, zap.NewNop())

	b, err := NewBotWithEndpoint(cfg, srv.URL+"/bot%s/%s", srv.Client(),
		repository.NewTelegramStateMemory(time.Hour, time.Minute),
		uc, validator.NewValidator(1000), formatter.NewFactory(), zap.NewNop())
	require.NoError(t, err)

	return b, api
}

func command(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testUserID},
		Chat:      &tgbotapi.Chat{ID: testUserID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testUserID},
		Chat:      &tgbotapi.Chat{ID: testUserID},
		Text:      s,
	}}
}

func click(data string, messageID int) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: testUserID},
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: testUserID},
		},
		Data: data,
	}}
}

func TestDialogueFlow(t *testing.T) {
	b, api := newTestBot(t)

	b.HandleUpdate(command("/start"))
	assert.Equal(t, render.MsgWelcome, api.last("sendMessage").Values.Get("text"))

	b.HandleUpdate(click("action:start", 1))
	ask := api.last("sendMessage")
	assert.Equal(t, render.MsgAskPurpose, ask.Values.Get("text"))
	assert.Contains(t, ask.Values.Get("reply_markup"), "purpose:1")

	b.HandleUpdate(click("purpose:0", ask.MessageID))
	assert.Equal(t, render.RenderAskContent("小红书爆款标题"), api.last("sendMessage").Values.Get("text"))

	b.HandleUpdate(text("产品评测文章全文..."))
	assert.Equal(t, render.MsgAskRequirements, api.last("sendMessage").Values.Get("text"))

	b.HandleUpdate(click("action:skip", 1))
	results := api.last("sendMessage")
	assert.Contains(t, results.Values.Get("text"), "1. T1\n推荐理由：R1")
	assert.NotContains(t, results.Values.Get("reply_markup"), "pixabay.com")
	assert.GreaterOrEqual(t, api.count("sendChatAction"), 1)

	b.HandleUpdate(click("kw:0", results.MessageID))
	edit := api.last("editMessageText")
	assert.Equal(t, fmt.Sprint(results.MessageID), edit.Values.Get("message_id"))
	assert.Contains(t, edit.Values.Get("text"), "已选关键词：美妆")

	var markup tgbotapi.InlineKeyboardMarkup
	require.NoError(t, json.Unmarshal([]byte(edit.Values.Get("reply_markup")), &markup))
	assert.Equal(t, "✅ 美妆", markup.InlineKeyboard[0][0].Text)

	var urls []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.URL != nil {
				urls = append(urls, *btn.URL)
			}
		}
	}
	assert.Contains(t, urls, "https://www.vcg.com/creative/search?phrase=%E7%BE%8E%E5%A6%86")

	b.HandleUpdate(click("dl:markdown", results.MessageID))
	assert.Equal(t, 1, api.count("sendDocument"))

	assert.Contains(t, results.Values.Get("reply_markup"), "dl:pdf")
	assert.NotContains(t, results.Values.Get("reply_markup"), "dl:docx")
	b.HandleUpdate(click("dl:docx", results.MessageID))
	assert.Equal(t, 1, api.count("sendDocument"))
	assert.Equal(t, render.ErrInvalidInput, api.last("sendMessage").Values.Get("text"))

	b.HandleUpdate(command("/cancel"))
	assert.Equal(t, render.MsgSessionFinished, api.last("sendMessage").Values.Get("text"))

	b.HandleUpdate(text("还在吗"))
	assert.Equal(t, render.ErrNoActiveSession, api.last("sendMessage").Values.Get("text"))
}

func TestStaleKeywordKeyboard(t *testing.T) {
	b, api := newTestBot(t)

	b.HandleUpdate(click("action:start", 1))
	b.HandleUpdate(text("新闻标题"))
	b.HandleUpdate(text("正文"))
	b.HandleUpdate(text("幽默"))

	results := api.last("sendMessage")
	require.Contains(t, results.Values.Get("text"), "T1")

	b.HandleUpdate(click("kw:0", results.MessageID-100))
	assert.Equal(t, render.ErrStaleKeyboard, api.last("sendMessage").Values.Get("text"))
	assert.Equal(t, 0, api.count("editMessageText"))
}

func TestBlankContentIsRejected(t *testing.T) {
	b, api := newTestBot(t)

	b.HandleUpdate(click("action:start", 1))
	b.HandleUpdate(text("新闻标题"))
	b.HandleUpdate(text("   "))

	assert.Equal(t, render.ErrBlankInput, api.last("sendMessage").Values.Get("text"))
}

func TestUnknownCommand(t *testing.T) {
	b, api := newTestBot(t)

	b.HandleUpdate(command("/nope"))
	assert.Equal(t, render.ErrUnknownCommand, api.last("sendMessage").Values.Get("text"))
}
