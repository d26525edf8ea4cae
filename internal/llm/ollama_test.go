package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_CompleteWithSystem(t *testing.T) {
	var got ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"{\"verdict\":\"TRUE\"}","done":true}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(&config.LLMConfig{OllamaURL: server.URL + "/", Model: "tiny"})
	require.NoError(t, err)

	reply, err := p.CompleteWithSystem(context.Background(), "be terse", "hello", VerdictOptions())
	require.NoError(t, err)

	assert.Equal(t, `{"verdict":"TRUE"}`, reply)
	assert.Equal(t, "tiny", got.Model)
	assert.Equal(t, "be terse", got.System)
	assert.Equal(t, "hello", got.Prompt)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
}

func TestOllamaProvider_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(&config.LLMConfig{OllamaURL: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "hello", ReadingOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(&config.LLMConfig{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewProvider(&config.LLMConfig{Provider: "openai"})
	assert.Error(t, err, "missing API key")

	p, err := NewProvider(&config.LLMConfig{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = NewProvider(&config.LLMConfig{Provider: " Ollama "})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestCompletionPresets(t *testing.T) {
	for _, opts := range []CompletionOptions{ReadingOptions(), VerdictOptions()} {
		assert.True(t, opts.JSON, "interpreter and oracle replies are JSON objects")
		assert.Zero(t, opts.Temperature)
		assert.Equal(t, 512, opts.MaxTokens)
	}
}
