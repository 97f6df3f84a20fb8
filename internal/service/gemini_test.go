package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: timeout,
	}, nopLogger())
	require.NoError(t, err)
	return client
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	client, err := NewGeminiClient(GeminiConfig{}, nopLogger())

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestGeminiClient_GenerateContent(t *testing.T) {
	var got geminiRequest
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/"+DefaultGeminiModel+":generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"posture_score\": 80"},{"text":"}"}]}}]}`))
	}, time.Second)

	text, err := client.GenerateContent(context.Background(), GenerateRequest{
		Prompt:   "describe",
		Image:    pngHeader,
		MimeType: "image/png",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"posture_score": 80}`, text)
	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 2)
	assert.Equal(t, "describe", got.Contents[0].Parts[0].Text)
	assert.Equal(t, "image/png", got.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, pngBase64(), got.Contents[0].Parts[1].InlineData.Data)
	assert.Nil(t, got.GenerationConfig)
}

func TestGeminiClient_ModelOverrideAndTokenCap(t *testing.T) {
	var got geminiRequest
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/chat-model:generateContent", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Drink water."}]}}]}`))
	}, time.Second)

	text, err := client.GenerateContent(context.Background(), GenerateRequest{
		Prompt:          "hi",
		Model:           "chat-model",
		MaxOutputTokens: 200,
	})

	require.NoError(t, err)
	assert.Equal(t, "Drink water.", text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, 200, got.GenerationConfig.MaxOutputTokens)
	assert.Len(t, got.Contents[0].Parts, 1)
}

func TestGeminiClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"message":"quota"}}`))
			},
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[]}`))
			},
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestGemini(t, tt.handler, time.Second)

			text, err := client.GenerateContent(context.Background(), GenerateRequest{Prompt: "x"})

			assert.Error(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestGeminiClient_Timeout(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := client.GenerateContent(context.Background(), GenerateRequest{Prompt: "x"})

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
