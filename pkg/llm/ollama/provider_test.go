package ollama

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

func newTestProvider(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts := llmopts.NewChatOptions()
	opts.Provider = ProviderName
	opts.BaseURL = srv.URL
	opts.Model = "llama3"
	opts.MaxRetries = 0
	p, err := NewProvider(opts)
	require.NoError(t, err)
	return p
}

func TestEmbed(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		_, _ = io.WriteString(w, `{"embeddings":[[1,2],[3,4]]}`)
	})

	got, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, got)

	_, err = p.Embed(context.Background(), []string{"a"})
	assert.Error(t, err, "count mismatch must fail")
}

func TestGenerate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "llama3", req.Model)
		assert.InDelta(t, 0.2, req.Options.Temperature, 1e-9)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)

		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"olá"},"done":true}`)
	})

	got, err := p.Generate(context.Background(), "pergunta", "sistema")
	require.NoError(t, err)
	assert.Equal(t, "olá", got)
}

func TestPing(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.Error(t, p.Ping(context.Background()))
}
