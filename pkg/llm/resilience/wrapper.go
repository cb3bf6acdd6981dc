package resilience

import (
	"context"

	"github.com/kart-io/docvault/pkg/llm"
)

// EmbeddingProvider guards an embedding provider.
type EmbeddingProvider struct {
	provider llm.EmbeddingProvider
	cb       *CircuitBreaker
}

var _ llm.EmbeddingProvider = (*EmbeddingProvider)(nil)

// WrapEmbedding guards provider with a breaker configured by cfg.
func WrapEmbedding(provider llm.EmbeddingProvider, cfg Config) *EmbeddingProvider {
	return &EmbeddingProvider{provider: provider, cb: NewCircuitBreaker("embedding:"+provider.Name(), cfg)}
}

func (r *EmbeddingProvider) Embed(ctx context.Context, texts []string) (out [][]float32, err error) {
	err = r.cb.Execute(func() error {
		out, err = r.provider.Embed(ctx, texts)
		return err
	})
	return out, err
}

func (r *EmbeddingProvider) EmbedSingle(ctx context.Context, text string) (out []float32, err error) {
	err = r.cb.Execute(func() error {
		out, err = r.provider.EmbedSingle(ctx, text)
		return err
	})
	return out, err
}

func (r *EmbeddingProvider) Name() string { return r.provider.Name() }

// ChatProvider guards a chat provider.
type ChatProvider struct {
	provider llm.ChatProvider
	cb       *CircuitBreaker
}

var _ llm.ChatProvider = (*ChatProvider)(nil)

// WrapChat guards provider with a breaker configured by cfg.
func WrapChat(provider llm.ChatProvider, cfg Config) *ChatProvider {
	return &ChatProvider{provider: provider, cb: NewCircuitBreaker("chat:"+provider.Name(), cfg)}
}

func (r *ChatProvider) Chat(ctx context.Context, messages []llm.Message) (out string, err error) {
	err = r.cb.Execute(func() error {
		out, err = r.provider.Chat(ctx, messages)
		return err
	})
	return out, err
}

func (r *ChatProvider) Generate(ctx context.Context, prompt, systemPrompt string) (out string, err error) {
	err = r.cb.Execute(func() error {
		out, err = r.provider.Generate(ctx, prompt, systemPrompt)
		return err
	})
	return out, err
}

func (r *ChatProvider) Name() string { return r.provider.Name() }
