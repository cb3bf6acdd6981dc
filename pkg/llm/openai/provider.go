// Package openai implements the OpenAI provider. Any service exposing the
// OpenAI compatible /embeddings and /chat/completions endpoints works by
// pointing BaseURL at it.
package openai

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
const ProviderName = "openai"

func init() {
	llm.RegisterProvider(ProviderName, func(opts *llmopts.ProviderOptions) (llm.Provider, error) {
		return NewProvider(opts)
	})
}

// Provider talks to the OpenAI API.
type Provider struct {
	opts   *llmopts.ProviderOptions
	client *httpclient.Client
}

// NewProvider creates the provider. The model in opts is used for both
// embedding and chat calls, since each role gets its own options.
func NewProvider(opts *llmopts.ProviderOptions) (*Provider, error) {
	if opts == nil {
		return nil, fmt.Errorf("openai: options is nil")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
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

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed embeds texts in one request.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embeddingResponse
	if err := p.post(ctx, "/embeddings", embeddingRequest{Model: p.opts.Model, Input: texts}, &resp); err != nil {
		return nil, err
	}

	// Results carry their input index and are not guaranteed to be ordered.
	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < len(embeddings) {
			embeddings[d.Index] = d.Embedding
		}
	}
	for i, e := range embeddings {
		if e == nil {
			return nil, fmt.Errorf("openai: missing embedding for input %d", i)
		}
	}
	return embeddings, nil
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
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat runs a multi-turn completion.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	temp := p.opts.Temperature
	req := chatRequest{
		Model:       p.opts.Model,
		Messages:    messages,
		Temperature: &temp,
	}

	var resp chatResponse
	if err := p.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Generate runs a single-turn completion.
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	return p.Chat(ctx, llm.SystemAndUser(systemPrompt, prompt))
}

func (p *Provider) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: failed to encode request: %w", err)
	}

	url := strings.TrimRight(p.opts.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.opts.APIKey)
	if p.opts.Organization != "" {
		req.Header.Set("OpenAI-Organization", p.opts.Organization)
	}

	if err := p.client.DoJSON(req, out); err != nil {
		return fmt.Errorf("openai %s: %w", path, err)
	}
	return nil
}
