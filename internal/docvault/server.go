// Package docvault assembles the DocVault server from its options.
package docvault

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/biz"
	"github.com/kart-io/docvault/internal/docvault/handler"
	"github.com/kart-io/docvault/internal/docvault/router"
	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/component/database"
	"github.com/kart-io/docvault/pkg/component/milvus"
	"github.com/kart-io/docvault/pkg/component/redis"
	filestorage "github.com/kart-io/docvault/pkg/component/storage"
	"github.com/kart-io/docvault/pkg/infra/app"
	mwauth "github.com/kart-io/docvault/pkg/infra/middleware/auth"
	"github.com/kart-io/docvault/pkg/infra/pool"
	"github.com/kart-io/docvault/pkg/infra/server"
	transporthttp "github.com/kart-io/docvault/pkg/infra/server/transport/http"
	"github.com/kart-io/docvault/pkg/infra/tracing"
	"github.com/kart-io/docvault/pkg/llm"
	_ "github.com/kart-io/docvault/pkg/llm/ollama"
	_ "github.com/kart-io/docvault/pkg/llm/openai"
	"github.com/kart-io/docvault/pkg/llm/resilience"
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
	"github.com/kart-io/docvault/pkg/security/auth"
	"github.com/kart-io/docvault/pkg/security/auth/jwt"
	"github.com/kart-io/docvault/pkg/security/auth/keycloak"
	"github.com/kart-io/docvault/pkg/security/authz/casbin"
	"github.com/kart-io/docvault/pkg/storage"
)

// Name is the name of the application.
const Name = "docvault"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions       *httpopts.Options
	MiddlewareOptions *mwopts.Options
	LogOptions        *logopts.Options
	TracingOptions    *tracingopts.Options
	DBOptions         *dbopts.Options
	RedisOptions      *redisopts.Options
	MilvusOptions     *milvusopts.Options
	VectorOptions     *ragopts.VectorOptions
	EmbeddingOptions  *llmopts.ProviderOptions
	ChatOptions       *llmopts.ProviderOptions
	RAGOptions        *ragopts.Options
	IngestOptions     *ragopts.IngestOptions
	StorageOptions    *storageopts.Options
	AuthOptions       *authopts.Options
	AuthzOptions      *authzopts.Options
}

// Server represents the DocVault server.
type Server struct {
	srv *server.Manager
}

// NewServer initializes every dependency and returns a Server ready to run.
// Components that were opened before a failure are closed again.
func (cfg *Config) NewServer(ctx context.Context) (s *Server, err error) {
	// 1. logger
	if err := cfg.LogOptions.Init("service.name", Name, "service.version", app.GetVersion()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting DocVault...",
		"embedding", cfg.EmbeddingOptions.Provider,
		"chat", cfg.ChatOptions.Provider,
		"vector", cfg.VectorOptions.Backend,
	)

	var closers []func(context.Context) error
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i](context.WithoutCancel(ctx))
			}
		}
	}()

	mgr := server.NewManager(cfg.HTTPOptions.ShutdownTimeout)
	health := storage.NewManager(0)
	hook := func(name string, stop func(context.Context) error) {
		closers = append(closers, stop)
		mgr.Add(server.NewHook(name, stop))
	}

	// 2. tracing
	tp, err := tracing.NewProvider(ctx, cfg.TracingOptions, app.GetVersion())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	hook("tracing", tp.Shutdown)

	// 3. relational store
	dbClient, err := database.New(ctx, cfg.DBOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	hook("database", func(context.Context) error { return dbClient.Close() })
	if cfg.DBOptions.AutoMigrate {
		if err := store.AutoMigrate(dbClient.DB()); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	if err := health.Register(dbClient); err != nil {
		return nil, err
	}
	ds := store.NewStore(dbClient.DB())
	logger.Infow("Database initialized", "driver", cfg.DBOptions.Driver)

	// 4. redis, optional
	var redisClient *redis.Client
	if cfg.RedisOptions.Enabled {
		redisClient, err = redis.New(ctx, cfg.RedisOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		hook("redis", func(context.Context) error { return redisClient.Close() })
		if err := health.Register(redisClient); err != nil {
			return nil, err
		}
		logger.Infow("Redis initialized", "addr", cfg.RedisOptions.Addr())
	} else {
		logger.Info("Redis is disabled, caches are off")
	}

	// 5. language model providers
	embedder, err := newEmbedder(cfg.EmbeddingOptions, redisClient)
	if err != nil {
		return nil, err
	}
	chat, err := newChat(cfg.ChatOptions)
	if err != nil {
		return nil, err
	}

	// 6. vector index
	var backend store.VectorBackend
	switch cfg.VectorOptions.Backend {
	case ragopts.BackendMemory:
		logger.Warn("Using the in-memory vector backend, vectors are lost on restart")
		backend = store.NewMemoryBackend()
	default:
		mc, err := milvus.New(ctx, cfg.MilvusOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize milvus: %w", err)
		}
		if err := health.Register(mc); err != nil {
			_ = mc.Close(ctx)
			return nil, err
		}
		backend = store.NewMilvusBackend(mc, cfg.MilvusOptions.Collection, cfg.MilvusOptions.Dimension)
		logger.Infow("Milvus initialized", "address", cfg.MilvusOptions.Address, "collection", cfg.MilvusOptions.Collection)
	}
	index := store.NewVectorIndex(embedder, backend, cfg.IngestOptions.EmbedBatchSize)
	hook("vector-index", func(context.Context) error { return index.Close() })

	// 7. file storage
	files, err := filestorage.NewLocal(cfg.StorageOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	if err := health.Register(files); err != nil {
		return nil, err
	}

	// 8. ingestion pool, drained before the stores close
	ingestPool, err := pool.NewPool("ingest", &pool.Config{
		Capacity:    cfg.IngestOptions.Workers,
		Nonblocking: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion pool: %w", err)
	}
	hook("ingest-pool", func(context.Context) error {
		return ingestPool.ReleaseTimeout(cfg.IngestOptions.DrainTimeout)
	})

	// 9. services
	splitter := biz.NewRecursiveSplitter(cfg.RAGOptions.ChunkSize, cfg.RAGOptions.ChunkOverlap)
	pipeline := biz.NewPipeline(ds, index, biz.NewPDFExtractor(), splitter)
	documents := biz.NewDocumentService(ds, index, files, biz.NewDispatcher(pipeline, ingestPool))
	conversations := biz.NewConversationService(ds, biz.NewChatEngine(index, chat, cfg.RAGOptions))
	users := biz.NewUserService(ds, cfg.AuthOptions.AdminRole)

	// 10. identity and access
	authenticator, err := newAuthenticator(cfg.AuthOptions, redisClient)
	if err != nil {
		return nil, err
	}
	authorizer, err := casbin.New(dbClient.DB(), cfg.AuthzOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authorizer: %w", err)
	}
	logger.Infow("Authentication initialized", "provider", authenticator.Type(), "admin_role", cfg.AuthOptions.AdminRole)

	// 11. http
	httpServer := transporthttp.NewServer(Name, cfg.HTTPOptions, cfg.MiddlewareOptions)
	router.Register(httpServer.Engine(), router.Handlers{
		Health:        handler.NewHealthHandler(health),
		Documents:     handler.NewDocumentHandler(documents),
		Conversations: handler.NewConversationHandler(conversations),
	}, mwauth.Authn(authenticator, users.Sync), mwauth.Authz(authorizer))
	if cfg.HTTPOptions.Swagger {
		router.RegisterSwagger(httpServer.Engine())
	}
	mgr.Add(httpServer)

	logger.Infow("DocVault is ready", "addr", cfg.HTTPOptions.Addr)
	return &Server{srv: mgr}, nil
}

// Run serves until ctx is cancelled, then stops the HTTP server first and
// the hooks in reverse registration order.
func (s *Server) Run(ctx context.Context) error {
	return s.srv.Run(ctx)
}

func newEmbedder(opts *llmopts.ProviderOptions, redisClient *redis.Client) (llm.EmbeddingProvider, error) {
	provider, err := llm.NewEmbeddingProvider(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	if opts.BreakerFailures > 0 {
		provider = resilience.WrapEmbedding(provider, resilience.Config{
			MaxFailures: opts.BreakerFailures,
			OpenTimeout: opts.BreakerTimeout,
		})
	}
	if redisClient != nil && opts.CacheTTL > 0 {
		provider = llm.NewCachedEmbeddingProvider(provider, redisClient.Client(), opts.Model, opts.CacheTTL)
	}
	logger.Infow("Embedding provider initialized", "provider", opts.Provider, "model", opts.Model)
	return provider, nil
}

func newChat(opts *llmopts.ProviderOptions) (llm.ChatProvider, error) {
	provider, err := llm.NewChatProvider(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	if opts.BreakerFailures > 0 {
		provider = resilience.WrapChat(provider, resilience.Config{
			MaxFailures: opts.BreakerFailures,
			OpenTimeout: opts.BreakerTimeout,
		})
	}
	logger.Infow("Chat provider initialized", "provider", opts.Provider, "model", opts.Model)
	return provider, nil
}

func newAuthenticator(opts *authopts.Options, redisClient *redis.Client) (auth.Authenticator, error) {
	switch opts.Provider {
	case authopts.ProviderJWT:
		j, err := jwt.New(opts.JWT)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize jwt authenticator: %w", err)
		}
		return j, nil
	case authopts.ProviderKeycloak:
		var kopts []keycloak.Option
		if redisClient != nil && opts.Keycloak.CacheTTL > 0 {
			kopts = append(kopts, keycloak.WithCache(redisClient.Client()))
		}
		return keycloak.New(opts.Keycloak, kopts...), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", opts.Provider)
	}
}
