// Package llm abstracts the embedding and chat model providers. Embedding
// and chat may come from different providers; each registers a factory
// under its name from an init function.
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	llmopts "github.com/kart-io/docvault/pkg/options/llm"
)

// EmbeddingProvider turns text into vectors.
type EmbeddingProvider interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	Name() string
}

// ChatProvider generates replies.
type ChatProvider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	// Generate runs a single turn with an optional system prompt.
	Generate(ctx context.Context, prompt string, systemPrompt string) (string, error)
	Name() string
}

// Message is one chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SystemAndUser builds the two-message conversation used by Generate.
func SystemAndUser(systemPrompt, prompt string) []Message {
	msgs := make([]Message, 0, 2)
	if systemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: systemPrompt})
	}
	return append(msgs, Message{Role: RoleUser, Content: prompt})
}

// Provider implements both embedding and chat.
type Provider interface {
	EmbeddingProvider
	ChatProvider
}

// ProviderFactory creates a full provider.
type ProviderFactory func(opts *llmopts.ProviderOptions) (Provider, error)

// EmbeddingProviderFactory creates an embedding-only provider.
type EmbeddingProviderFactory func(opts *llmopts.ProviderOptions) (EmbeddingProvider, error)

// ChatProviderFactory creates a chat-only provider.
type ChatProviderFactory func(opts *llmopts.ProviderOptions) (ChatProvider, error)

var registry = &providerRegistry{
	providers:          make(map[string]ProviderFactory),
	embeddingProviders: make(map[string]EmbeddingProviderFactory),
	chatProviders:      make(map[string]ChatProviderFactory),
}

type providerRegistry struct {
	mu                 sync.RWMutex
	providers          map[string]ProviderFactory
	embeddingProviders map[string]EmbeddingProviderFactory
	chatProviders      map[string]ChatProviderFactory
}

// RegisterProvider registers a full provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.providers[name] = factory
}

// RegisterEmbeddingProvider registers an embedding-only factory.
func RegisterEmbeddingProvider(name string, factory EmbeddingProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.embeddingProviders[name] = factory
}

// RegisterChatProvider registers a chat-only factory.
func RegisterChatProvider(name string, factory ChatProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.chatProviders[name] = factory
}

// NewEmbeddingProvider creates the provider named by opts.Provider. A
// dedicated embedding factory wins over a full provider factory.
func NewEmbeddingProvider(opts *llmopts.ProviderOptions) (EmbeddingProvider, error) {
	if opts == nil {
		return nil, fmt.Errorf("embedding options is nil")
	}

	registry.mu.RLock()
	ef, eok := registry.embeddingProviders[opts.Provider]
	pf, pok := registry.providers[opts.Provider]
	registry.mu.RUnlock()

	switch {
	case eok:
		return ef(opts)
	case pok:
		return pf(opts)
	}
	return nil, fmt.Errorf("unknown embedding provider: %s (registered: %v)", opts.Provider, ListProviders())
}

// NewChatProvider creates the provider named by opts.Provider. A dedicated
// chat factory wins over a full provider factory.
func NewChatProvider(opts *llmopts.ProviderOptions) (ChatProvider, error) {
	if opts == nil {
		return nil, fmt.Errorf("chat options is nil")
	}

	registry.mu.RLock()
	cf, cok := registry.chatProviders[opts.Provider]
	pf, pok := registry.providers[opts.Provider]
	registry.mu.RUnlock()

	switch {
	case cok:
		return cf(opts)
	case pok:
		return pf(opts)
	}
	return nil, fmt.Errorf("unknown chat provider: %s (registered: %v)", opts.Provider, ListProviders())
}

// ListProviders returns every registered provider name, sorted.
func ListProviders() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[string]struct{})
	for name := range registry.providers {
		seen[name] = struct{}{}
	}
	for name := range registry.embeddingProviders {
		seen[name] = struct{}{}
	}
	for name := range registry.chatProviders {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
