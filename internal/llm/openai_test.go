package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url, key string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(zerolog.Nop(), Config{BaseURL: url + "/", APIKey: key, Model: "gpt-4o-mini", Temperature: 0.1})
	require.NoError(t, err)
	return c
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Parallel()

	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"# Executive Summary"}}],"usage":{"prompt_tokens":10,"completion_tokens":3}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test")
	out, err := c.Complete(context.Background(), Request{System: "You are a Petrophysicist.", Prompt: "Assess porosity."})
	require.NoError(t, err)

	assert.Equal(t, "# Executive Summary", out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.1, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Assess porosity.", got.Messages[1].Content)
}

func TestOpenAIClient_CompleteWithoutSystem(t *testing.T) {
	t.Parallel()

	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, "k").Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
}

func TestOpenAIClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "missing key",
			handler: func(w http.ResponseWriter, r *http.Request) { t.Error("no request expected") },
			want:    ErrMissingAPIKey,
		},
		{
			name:    "status error",
			key:     "k",
			handler: func(w http.ResponseWriter, r *http.Request) { http.Error(w, "quota", http.StatusTooManyRequests) },
			want:    ErrUpstream,
		},
		{
			name:    "bad json",
			key:     "k",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("{")) },
			want:    ErrUpstream,
		},
		{
			name:    "no choices",
			key:     "k",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"choices":[]}`)) },
			want:    ErrNoChoices,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, tt.key).Complete(context.Background(), Request{Prompt: "p"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewOpenAIClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAIClient(zerolog.Nop(), Config{})
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}
