package biz

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/docvault/internal/docvault/store"
	ctxlog "github.com/kart-io/docvault/pkg/infra/logger"
	"github.com/kart-io/docvault/pkg/infra/tracing"
	"github.com/kart-io/docvault/pkg/llm"
	ragopts "github.com/kart-io/docvault/pkg/options/rag"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
)

// ChatEngine answers a question from the caller's own documents.
type ChatEngine struct {
	index        store.VectorIndex
	chat         llm.ChatProvider
	topK         int
	historyLimit int
}

// NewChatEngine creates a chat engine. opts supplies k and the history
// window.
func NewChatEngine(index store.VectorIndex, chat llm.ChatProvider, opts *ragopts.Options) *ChatEngine {
	if opts == nil {
		opts = ragopts.NewOptions()
	}
	return &ChatEngine{
		index:        index,
		chat:         chat,
		topK:         opts.TopK,
		historyLimit: opts.HistoryLimit,
	}
}

// HistoryLimit is the number of previous messages Respond uses.
func (e *ChatEngine) HistoryLimit() int {
	return e.historyLimit
}

// Respond retrieves context scoped to userID and makes one model call.
// Any failure is returned as ErrChatGenerationFailed.
func (e *ChatEngine) Respond(ctx context.Context, question string, history []Turn, userID string) (reply string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "chat.respond",
		trace.WithAttributes(attribute.Int("rag.top_k", e.topK)))
	defer func() { tracing.EndSpan(span, err) }()
	log := ctxlog.Get(ctx)

	results, err := e.index.Search(ctx, question, e.topK, userID)
	if err != nil {
		log.Errorw("context retrieval failed", "error", err.Error())
		return "", apierrors.ErrChatGenerationFailed.WithCause(err)
	}
	span.SetAttributes(attribute.Int("rag.chunks", len(results)))

	if e.historyLimit >= 0 && len(history) > e.historyLimit {
		history = history[len(history)-e.historyLimit:]
	}

	prompt := BuildPrompt(results, history, question)
	reply, err = e.chat.Generate(ctx, prompt, SystemPrompt)
	if err != nil {
		log.Errorw("reply generation failed",
			"provider", e.chat.Name(),
			"error", err.Error(),
		)
		return "", apierrors.ErrChatGenerationFailed.WithCause(err)
	}

	if strings.TrimSpace(reply) == "" {
		return NotFoundReply, nil
	}

	log.Debugw("reply generated", "chunks", len(results), "history", len(history))
	return reply, nil
}
