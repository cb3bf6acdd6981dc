package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/pkg/llm"
	llmopts "github.com/kart-io/docvault/pkg/options/llm"
	"github.com/kart-io/docvault/pkg/utils/json"
)

const testAPIKey = "test-key"

func newTestProvider(t *testing.T, opts *llmopts.ProviderOptions, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	opts.APIKey = testAPIKey
	opts.MaxRetries = 0
	p, err := NewProvider(opts)
	require.NoError(t, err)
	return p
}

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(llmopts.NewChatOptions())
	assert.Error(t, err)
}

func TestEmbedReordersByIndex(t *testing.T) {
	p := newTestProvider(t, llmopts.NewEmbeddingOptions(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, []string{"a", "b"}, req.Input)

		_, _ = io.WriteString(w, `{"data":[{"index":1,"embedding":[2]},{"index":0,"embedding":[1]}]}`)
	})

	got, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}}, got)
}

func TestEmbedMissingIndex(t *testing.T) {
	p := newTestProvider(t, llmopts.NewEmbeddingOptions(), func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"index":0,"embedding":[1]}]}`)
	})

	_, err := p.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestGenerateSendsSystemPromptAndTemperature(t *testing.T) {
	p := newTestProvider(t, llmopts.NewChatOptions(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.NotNil(t, req.Temperature)
		assert.InDelta(t, 0.2, *req.Temperature, 1e-9)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
		assert.Equal(t, "question", req.Messages[1].Content)

		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"answer"}}]}`)
	})

	got, err := p.Generate(context.Background(), "question", "system")
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
}

func TestChatErrorStatus(t *testing.T) {
	p := newTestProvider(t, llmopts.NewChatOptions(), func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
	})

	_, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	assert.ErrorContains(t, err, "401")
}

func TestRegistered(t *testing.T) {
	opts := llmopts.NewChatOptions()
	opts.APIKey = testAPIKey
	p, err := llm.NewChatProvider(opts)
	require.NoError(t, err)
	assert.Equal(t, ProviderName, p.Name())
}
