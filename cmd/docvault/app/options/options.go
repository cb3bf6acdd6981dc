// Package options contains flags and options for initializing the DocVault server.
package options

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/docvault/internal/docvault"
	cliflag "github.com/kart-io/docvault/pkg/app/cliflag"
	genericoptions "github.com/kart-io/docvault/pkg/options"
	authopts "github.com/kart-io/docvault/pkg/options/auth"
	authzopts "github.com/kart-io/docvault/pkg/options/authz"
	dbopts "github.com/kart-io/docvault/pkg/options/database"
	llmopts "github.com/kart-io/docvault/pkg/options/llm"
	logopts "github.com/kart-io/docvault/pkg/options/logger"
	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
	milvusopts "github.com/kart-io/docvault/pkg/options/milvus"
	ragopts "github.com/kart-io/docvault/pkg/options/rag"
	redisopts "github.com/kart-io/docvault/pkg/options/redis"
	httpopts "github.com/kart-io/docvault/pkg/options/server/http"
	storageopts "github.com/kart-io/docvault/pkg/options/storage"
	tracingopts "github.com/kart-io/docvault/pkg/options/tracing"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	HTTPOptions       *httpopts.Options        `json:"http" mapstructure:"http"`
	MiddlewareOptions *mwopts.Options          `json:"middleware" mapstructure:"middleware"`
	LogOptions        *logopts.Options         `json:"log" mapstructure:"log"`
	TracingOptions    *tracingopts.Options     `json:"tracing" mapstructure:"tracing"`
	DBOptions         *dbopts.Options          `json:"db" mapstructure:"db"`
	RedisOptions      *redisopts.Options       `json:"redis" mapstructure:"redis"`
	MilvusOptions     *milvusopts.Options      `json:"milvus" mapstructure:"milvus"`
	VectorOptions     *ragopts.VectorOptions   `json:"vector" mapstructure:"vector"`
	EmbeddingOptions  *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`
	ChatOptions       *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`
	RAGOptions        *ragopts.Options         `json:"rag" mapstructure:"rag"`
	IngestOptions     *ragopts.IngestOptions   `json:"ingest" mapstructure:"ingest"`
	StorageOptions    *storageopts.Options     `json:"storage" mapstructure:"storage"`
	AuthOptions       *authopts.Options        `json:"auth" mapstructure:"auth"`
	AuthzOptions      *authzopts.Options       `json:"authz" mapstructure:"authz"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:       httpopts.NewOptions(),
		MiddlewareOptions: mwopts.NewOptions(),
		LogOptions:        logopts.NewOptions(),
		TracingOptions:    tracingopts.NewOptions(),
		DBOptions:         dbopts.NewOptions(),
		RedisOptions:      redisopts.NewOptions(),
		MilvusOptions:     milvusopts.NewOptions(),
		VectorOptions:     ragopts.NewVectorOptions(),
		EmbeddingOptions:  llmopts.NewEmbeddingOptions(),
		ChatOptions:       llmopts.NewChatOptions(),
		RAGOptions:        ragopts.NewOptions(),
		IngestOptions:     ragopts.NewIngestOptions(),
		StorageOptions:    storageopts.NewOptions(),
		AuthOptions:       authopts.NewOptions(),
		AuthzOptions:      authzopts.NewOptions(),
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.MiddlewareOptions.AddFlags(fss.FlagSet("middleware"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.TracingOptions.AddFlags(fss.FlagSet("tracing"))
	o.DBOptions.AddFlags(fss.FlagSet("db"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.MilvusOptions.AddFlags(fss.FlagSet("milvus"))
	o.VectorOptions.AddFlags(fss.FlagSet("vector"))
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"))
	o.ChatOptions.AddFlags(fss.FlagSet("chat"))
	o.RAGOptions.AddFlags(fss.FlagSet("rag"))
	o.IngestOptions.AddFlags(fss.FlagSet("ingest"))
	o.StorageOptions.AddFlags(fss.FlagSet("storage"))
	o.AuthOptions.AddFlags(fss.FlagSet("auth"))
	o.AuthzOptions.AddFlags(fss.FlagSet("authz"))
	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.DBOptions.Complete(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := o.RedisOptions.Complete(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := o.EmbeddingOptions.Complete(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := o.ChatOptions.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := o.AuthOptions.Complete(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	groups := []genericoptions.IOptions{
		o.HTTPOptions,
		o.MiddlewareOptions,
		o.LogOptions,
		o.TracingOptions,
		o.DBOptions,
		o.RedisOptions,
		o.VectorOptions,
		o.EmbeddingOptions,
		o.ChatOptions,
		o.RAGOptions,
		o.IngestOptions,
		o.StorageOptions,
		o.AuthOptions,
		o.AuthzOptions,
	}
	if o.VectorOptions.Backend == ragopts.BackendMilvus {
		groups = append(groups, o.MilvusOptions)
	}

	return utilerrors.NewAggregate(genericoptions.ValidateAll(groups...))
}

// Config builds a docvault.Config based on ServerOptions.
func (o *ServerOptions) Config() (*docvault.Config, error) {
	return &docvault.Config{
		HTTPOptions:       o.HTTPOptions,
		MiddlewareOptions: o.MiddlewareOptions,
		LogOptions:        o.LogOptions,
		TracingOptions:    o.TracingOptions,
		DBOptions:         o.DBOptions,
		RedisOptions:      o.RedisOptions,
		MilvusOptions:     o.MilvusOptions,
		VectorOptions:     o.VectorOptions,
		EmbeddingOptions:  o.EmbeddingOptions,
		ChatOptions:       o.ChatOptions,
		RAGOptions:        o.RAGOptions,
		IngestOptions:     o.IngestOptions,
		StorageOptions:    o.StorageOptions,
		AuthOptions:       o.AuthOptions,
		AuthzOptions:      o.AuthzOptions,
	}, nil
}
