package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaitan_backend/internal/feature/summary/usecase"
)

func newTestGenerator(t *testing.T, h http.HandlerFunc) *GeminiGenerator {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewGeminiGenerator(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)
	return g
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), Config{}, http.DefaultClient)
	assert.Error(t, err)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var body map[string]any
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/"+DefaultModel+":generateContent"), r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"摘要\n1. 要点"}]},"finishReason":"STOP"}]}`)
	})

	out, err := g.Generate(context.Background(), usecase.Prompt{System: "系统", User: "内容", MaxTokens: 500})

	require.NoError(t, err)
	assert.Equal(t, "摘要\n1. 要点", out)
	assert.Contains(t, body, "systemInstruction")
	cfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 500, cfg["maxOutputTokens"])
}

func TestGeminiGenerator_Generate_Error(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	})

	_, err := g.Generate(context.Background(), usecase.Prompt{User: "x"})

	assert.Error(t, err)
}
