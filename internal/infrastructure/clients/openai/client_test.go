package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.OpenAIConfig{
		APIKey:          "sk-test",
		Model:           "gpt-test",
		BaseURL:         server.URL + "/",
		MaxOutputTokens: 123,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)
	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestSummarize_Success(t *testing.T) {
	var got responsesRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"reasoning","text":"skip"},{"type":"output_text","text":" La pharmacie du Port est ouverte. "}]}]}`))
	})

	text, ok := client.Summarize(context.Background(), providers.NarrativeInput{
		Instruction: "Réponds en français.",
		Question:    "pharmacie ?",
		Context:     map[string]int{"total": 2},
	})

	require.True(t, ok)
	assert.Equal(t, "La pharmacie du Port est ouverte.", text)
	assert.Equal(t, "gpt-test", got.Model)
	assert.Equal(t, 123, got.MaxOutputTokens)
	require.Len(t, got.Input, 2)
	assert.Equal(t, "system", got.Input[0].Role)
	assert.Contains(t, got.Input[1].Content, `{"total":2}`)
}

func TestSummarize_FailuresAreUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"output":`))
		},
		"empty output": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"output":[]}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)
			text, ok := client.Summarize(context.Background(), providers.NarrativeInput{Question: "bonjour"})
			assert.False(t, ok)
			assert.Empty(t, text)
		})
	}
}
