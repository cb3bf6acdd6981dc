package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/docvault/testutil"
	"github.com/kart-io/docvault/internal/model"
	ragopts "github.com/kart-io/docvault/pkg/options/rag"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

func newTestIndex() (store.VectorIndex, *store.MemoryBackend, *testutil.Embedder) {
	embedder := &testutil.Embedder{}
	backend := store.NewMemoryBackend()
	return store.NewVectorIndex(embedder, backend, 16), backend, embedder
}

func TestRespondUsesOnlyCallerDocuments(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()
	require.NoError(t, index.Index(ctx, []store.Chunk{
		{DocumentID: "d1", UserID: "alice", Source: "a.pdf", Content: "alice contract clause about payment"},
		{DocumentID: "d2", UserID: "bob", Source: "b.pdf", Content: "bob contract clause about payment"},
	}))

	chat := &testutil.Chat{Reply: "resposta"}
	engine := NewChatEngine(index, chat, ragopts.NewOptions())

	reply, err := engine.Respond(ctx, "contract clause payment", nil, "alice")
	require.NoError(t, err)
	assert.Equal(t, "resposta", reply)

	prompt := chat.LastPrompt()
	assert.Contains(t, prompt, "alice contract clause")
	assert.NotContains(t, prompt, "bob")
	assert.Equal(t, SystemPrompt, chat.Systems[0])
}

func TestRespondWithoutContextNeverEmpty(t *testing.T) {
	index, _, _ := newTestIndex()
	chat := &testutil.Chat{Reply: "  "}
	engine := NewChatEngine(index, chat, ragopts.NewOptions())

	reply, err := engine.Respond(context.Background(), "What is the refund policy?", nil, "carol")
	require.NoError(t, err)
	assert.Equal(t, NotFoundReply, reply)
	assert.Contains(t, chat.LastPrompt(), noContext)
	assert.True(t, strings.HasSuffix(chat.LastPrompt(), "Pergunta: What is the refund policy?"))
}

func TestRespondHistoryWindow(t *testing.T) {
	index, _, _ := newTestIndex()
	chat := &testutil.Chat{Reply: "ok"}
	engine := NewChatEngine(index, chat, &ragopts.Options{TopK: 5, HistoryLimit: 2})

	history := []Turn{
		{Sender: model.SenderUser, Content: "primeira"},
		{Sender: model.SenderUser, Content: "segunda"},
		{Sender: model.SenderAssistant, Content: "terceira"},
	}
	_, err := engine.Respond(context.Background(), "quarta", history, "alice")
	require.NoError(t, err)

	prompt := chat.LastPrompt()
	assert.NotContains(t, prompt, "primeira")
	assert.Contains(t, prompt, "Usuário: segunda\nAssistente: terceira\n")
}

func TestRespondFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("generation", func(t *testing.T) {
		index, _, _ := newTestIndex()
		engine := NewChatEngine(index, &testutil.Chat{Err: boom}, nil)
		_, err := engine.Respond(context.Background(), "q", nil, "alice")
		assert.ErrorIs(t, err, apierrors.ErrChatGenerationFailed)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("retrieval", func(t *testing.T) {
		index, _, embedder := newTestIndex()
		embedder.Err = boom
		chat := &testutil.Chat{Reply: "never"}
		engine := NewChatEngine(index, chat, nil)
		_, err := engine.Respond(context.Background(), "q", nil, "alice")
		assert.ErrorIs(t, err, apierrors.ErrChatGenerationFailed)
		assert.Zero(t, chat.Calls())
	})
}

func TestBuildPromptJoinsChunks(t *testing.T) {
	results := make([]store.SearchResult, 3)
	for i := range results {
		results[i].Content = fmt.Sprintf("trecho %d", i)
	}
	prompt := BuildPrompt(results, nil, "pergunta")
	assert.True(t, strings.HasPrefix(prompt, "Contexto:\ntrecho 0\n\ntrecho 1\n\ntrecho 2\n\nHistórico da Conversa:\n"))
}
