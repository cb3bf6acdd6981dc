// Package ollama implements the Ollama provider for local models.
package ollama

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kart-io/docvault/pkg/llm"
	llmopts "github.com/kart-io/docvault/pkg/options/llm"
	"github.com/kart-io/docvault/pkg/utils/httpclient"
	"github.com/kart-io/docvault/pkg/utils/json"
)

// ProviderName is the registry name.
const ProviderName = "ollama"

func init() {
	llm.RegisterProvider(ProviderName, func(opts *llmopts.ProviderOptions) (llm.Provider, error) {
		return NewProvider(opts)
	})
}

// Provider talks to an Ollama server.
type Provider struct {
	opts   *llmopts.ProviderOptions
	client *httpclient.Client
}

// NewProvider creates the provider.
func NewProvider(opts *llmopts.ProviderOptions) (*Provider, error) {
	if opts == nil {
		return nil, fmt.Errorf("ollama: options is nil")
	}
	return &Provider{
		opts:   opts,
		client: httpclient.NewClient(opts.Timeout, opts.MaxRetries),
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed embeds texts with /api/embed.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := p.post(ctx, "/api/embed", embedRequest{Model: p.opts.Model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// EmbedSingle embeds one text.
func (p *Provider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Chat runs a non-streaming /api/chat call.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	req := chatRequest{
		Model:    p.opts.Model,
		Messages: messages,
		Options:  chatOptions{Temperature: p.opts.Temperature},
	}

	var resp chatResponse
	if err := p.post(ctx, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// Generate runs a single turn through /api/chat so the system prompt and
// temperature are applied the same way as in Chat.
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	return p.Chat(ctx, llm.SystemAndUser(systemPrompt, prompt))
}

// Ping checks that the server answers /api/tags.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url("/api/tags"), nil)
	if err != nil {
		return err
	}
	return p.client.DoJSON(req, nil)
}

func (p *Provider) url(path string) string {
	return strings.TrimRight(p.opts.BaseURL, "/") + path
}

func (p *Provider) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ollama: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url(path), bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("ollama: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := p.client.DoJSON(req, out); err != nil {
		return fmt.Errorf("ollama %s: %w", path, err)
	}
	return nil
}
