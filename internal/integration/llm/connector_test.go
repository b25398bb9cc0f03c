package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/title-assistant/internal/config"
	"github.com/futig/title-assistant/internal/entity"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGeminiConnector(t *testing.T, apiKey string, handler http.HandlerFunc) (*Connector, *int32) {
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
		Provider: config.ProviderGemini,
		Model:    "gemini-2.5-flash",
		APIKey:   apiKey,
		BaseURL:  srv.URL,
	}

	conn, err := NewConnector(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, &hits
}

func geminiResponseBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	})
	return string(body)
}

func TestGeminiConnectorGenerate(t *testing.T) {
	var captured map[string]any
	var path, apiKey string

	conn, hits := newTestGeminiConnector(t, "k", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get(geminiAPIKeyHeader)

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &captured))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, geminiResponseBody(`{"titles":[{"title":"T1","reasoning":"R1"}],"keywordsCn":["美妆"],"keywordsEn":["beauty"]}`))
	})

	result, err := conn.Generate(context.Background(), entity.TitleInput{Content: "产品评测", Purpose: "小红书爆款标题"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", path)
	assert.Equal(t, "k", apiKey)

	assert.Equal(t, []entity.GeneratedTitle{{Title: "T1", Reasoning: "R1"}}, result.Titles)
	assert.Equal(t, []string{"美妆"}, result.KeywordsCn)
	assert.Equal(t, []string{"beauty"}, result.KeywordsEn)

	genCfg, ok := captured["generationConfig"].(map[string]any)
	require.True(t, ok, "request carries generationConfig")
	assert.Equal(t, "application/json", genCfg["responseMimeType"])

	schema, ok := genCfg["responseSchema"].(map[string]any)
	require.True(t, ok, "request carries responseSchema")
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, fieldTitles)
	assert.Contains(t, props, fieldKeywordsCn)
	assert.Contains(t, props, fieldKeywordsEn)

	contents, _ := json.Marshal(captured["contents"])
	assert.True(t, strings.Contains(string(contents), "小红书爆款标题"))
}

func TestGeminiConnectorServiceError(t *testing.T) {
	conn, hits := newTestGeminiConnector(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	})

	_, err := conn.Generate(context.Background(), entity.TitleInput{Content: "a", Purpose: "b"})

	var genErr *entity.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "生成失败，请重试。", genErr.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGeminiConnectorWithoutKeyFailsOnlyOnGenerate(t *testing.T) {
	conn, hits := newTestGeminiConnector(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(geminiAPIKeyHeader))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := conn.Generate(context.Background(), entity.TitleInput{Content: "a", Purpose: "b"})

	var genErr *entity.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestResponseTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{
					genai.Text(`{"keywordsCn":`),
					genai.Blob{MIMEType: "image/png", Data: []byte{1}},
					genai.Text(`["夜景"]}`),
				},
			},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"keywordsCn":["夜景"]}`, text)
	assert.Equal(t, []string{"夜景"}, ParseResult(text).KeywordsCn)
}

func TestResponseTextEmptyContentParsesAsEmptyResult(t *testing.T) {
	text, err := responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	})
	require.NoError(t, err)
	assert.Equal(t, "", text)

	result := ParseResult(text)
	assert.Empty(t, result.Titles)
	assert.NotNil(t, result.Titles)
}

func TestResponseTextErrors(t *testing.T) {
	_, err := responseText(nil)
	assert.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	})
	assert.Error(t, err)
}

func TestGeminiResponseSchema(t *testing.T) {
	schema := geminiResponseSchema()

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.ElementsMatch(t, []string{fieldTitles, fieldKeywordsCn, fieldKeywordsEn}, schema.Required)

	titles := schema.Properties[fieldTitles]
	require.NotNil(t, titles)
	assert.Equal(t, genai.TypeArray, titles.Type)
	assert.Equal(t, genai.TypeObject, titles.Items.Type)
	assert.ElementsMatch(t, []string{fieldTitle, fieldReasoning}, titles.Items.Required)

	for _, field := range []string{fieldKeywordsCn, fieldKeywordsEn} {
		prop := schema.Properties[field]
		require.NotNil(t, prop)
		assert.Equal(t, genai.TypeArray, prop.Type)
		assert.Equal(t, genai.TypeString, prop.Items.Type)
	}
}
