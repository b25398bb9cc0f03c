package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOpenAIConnector(t *testing.T, handler http.HandlerFunc) (*OpenAIConnector, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
		},
		Provider: config.ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/v1/",
	}

	return NewOpenAIConnector(cfg, zap.NewNop()), &hits
}

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
		}},
	})
	return string(body)
}

func TestOpenAIConnectorGenerate(t *testing.T) {
	var captured map[string]any
	var authHeader string

	conn, hits := newTestOpenAIConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &captured))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody(`{"titles":[{"title":"夜色","reasoning":"简洁"}],"keywordsCn":["夜景","城市"],"keywordsEn":["night","city"]}`))
	})

	result, err := conn.Generate(context.Background(), entity.TitleInput{
		Content: "城市夜景",
		Purpose: "新闻标题",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, []entity.GeneratedTitle{{Title: "夜色", Reasoning: "简洁"}}, result.Titles)
	assert.Equal(t, []string{"夜景", "城市"}, result.KeywordsCn)
	assert.Equal(t, []string{"night", "city"}, result.KeywordsEn)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	format := captured["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	jsonSchema := format["json_schema"].(map[string]any)
	assert.Equal(t, schemaName, jsonSchema["name"])
	assert.Equal(t, true, jsonSchema["strict"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].(map[string]any)["content"], "场景/用途: 新闻标题")
}

func TestOpenAIConnectorMalformedContentIsNotAnError(t *testing.T) {
	conn, _ := newTestOpenAIConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody(`not json at all`))
	})

	result, err := conn.Generate(context.Background(), entity.TitleInput{Content: "a", Purpose: "b"})
	require.NoError(t, err)
	assert.Empty(t, result.Titles)
	assert.Empty(t, result.KeywordsCn)
	assert.Empty(t, result.KeywordsEn)
}

func TestOpenAIConnectorServiceErrorSingleAttempt(t *testing.T) {
	conn, hits := newTestOpenAIConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
	})

	_, err := conn.Generate(context.Background(), entity.TitleInput{Content: "a", Purpose: "b"})
	require.Error(t, err)

	var genErr *entity.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, entity.GenerationFailedMessage, err.Error())
	assert.NotNil(t, genErr.Cause)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestOpenAIResponseSchemaIsStrict(t *testing.T) {
	schema := openAIResponseSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []any{"titles", "keywordsCn", "keywordsEn"}, schema["required"])

	props := schema["properties"].(map[string]any)
	titles := props["titles"].(map[string]any)
	items := titles["items"].(map[string]any)
	assert.ElementsMatch(t, []any{"title", "reasoning"}, items["required"])
}
