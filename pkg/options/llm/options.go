// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/pkg/options"
)

var _ options.IOptions = (*ProviderOptions)(nil)

const (
	// GroupEmbedding is the flag group of the embedding provider.
	GroupEmbedding = "embedding"
	// GroupChat is the flag group of the chat provider.
	GroupChat = "chat"
)

// ProviderOptions configures one provider. Embedding and chat are
// configured independently and may use different providers.
type ProviderOptions struct {
	// Provider is the registered provider name (openai, ollama).
	Provider string `json:"provider" mapstructure:"provider"`

	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey falls back to the OPENAI_API_KEY env var.
	APIKey string `json:"-" mapstructure:"api-key"`

	Model string `json:"model" mapstructure:"model"`

	// Temperature is only used by chat providers.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// Timeout bounds one HTTP call to the provider.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	Organization string `json:"organization" mapstructure:"organization"`

	// CacheTTL is how long query embeddings stay in Redis. Zero disables
	// the cache. Only used by the embedding provider.
	CacheTTL time.Duration `json:"cache-ttl" mapstructure:"cache-ttl"`

	// BreakerFailures consecutive failures open the circuit breaker.
	// Zero disables the breaker.
	BreakerFailures int `json:"breaker-failures" mapstructure:"breaker-failures"`

	BreakerTimeout time.Duration `json:"breaker-timeout" mapstructure:"breaker-timeout"`

	group string
}

// NewEmbeddingOptions creates the default embedding provider options.
func NewEmbeddingOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:   "openai",
		BaseURL:    "https://api.openai.com/v1",
		Model:      "text-embedding-3-small",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
		CacheTTL:   24 * time.Hour,

		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
		group:           GroupEmbedding,
	}
}

// NewChatOptions creates the default chat provider options.
func NewChatOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:    "openai",
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		Timeout:     120 * time.Second,
		MaxRetries:  3,

		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
		group:           GroupChat,
	}
}

// Group returns the flag group, "embedding" or "chat".
func (o *ProviderOptions) Group() string {
	if o.group == "" {
		return GroupChat
	}
	return o.group
}

// AddFlags adds flags for the provider under its group.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + o.Group() + "."
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "Provider name (openai, ollama).")
	fs.StringVar(&o.BaseURL, p+"base-url", o.BaseURL, "Provider API base URL.")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "Provider API key (prefer the OPENAI_API_KEY env var).")
	fs.StringVar(&o.Model, p+"model", o.Model, "Model name.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Provider request timeout.")
	fs.IntVar(&o.MaxRetries, p+"max-retries", o.MaxRetries, "Retries on transport errors and 5xx responses.")
	fs.StringVar(&o.Organization, p+"organization", o.Organization, "OpenAI organization id (optional).")
	fs.IntVar(&o.BreakerFailures, p+"breaker-failures", o.BreakerFailures, "Consecutive failures that open the circuit breaker, 0 disables it.")
	fs.DurationVar(&o.BreakerTimeout, p+"breaker-timeout", o.BreakerTimeout, "Time the circuit breaker stays open.")
	if o.Group() == GroupChat {
		fs.Float64Var(&o.Temperature, p+"temperature", o.Temperature, "Sampling temperature.")
	} else {
		fs.DurationVar(&o.CacheTTL, p+"cache-ttl", o.CacheTTL, "Query embedding cache TTL, 0 disables the cache.")
	}
}

// Complete fills the API key from the environment.
func (o *ProviderOptions) Complete() error {
	if o.APIKey == "" && o.Provider == "openai" {
		o.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return nil
}

// Validate validates the provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	g := o.Group()
	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("%s.provider is required", g))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s.base-url is required", g))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("%s.model is required", g))
	}
	if o.Provider == "openai" && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s.api-key is required for the openai provider", g))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s.timeout must be positive", g))
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		errs = append(errs, fmt.Errorf("%s.temperature must be between 0 and 2", g))
	}
	return errs
}
