// Package http provides the gin based HTTP server.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/pkg/infra/middleware"
	mwopts "github.com/kart-io/docvault/pkg/options/middleware"
	options "github.com/kart-io/docvault/pkg/options/server/http"
	apierrors "github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
	"github.com/kart-io/docvault/pkg/utils/validator"
)

// Server is the HTTP server.
type Server struct {
	opts     *options.Options
	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
}

// NewServer creates the gin engine and installs the global middleware
// chain: recovery, request id, tracing, access log, CORS, body limit.
// Routes registered afterwards inherit the chain.
func NewServer(serviceName string, opts *options.Options, mw *mwopts.Options) *Server {
	if opts == nil {
		opts = options.NewOptions()
	}
	if mw == nil {
		mw = mwopts.NewOptions()
	}

	gin.SetMode(gin.ReleaseMode)
	binding.Validator = validator.Global()

	engine := gin.New()
	engine.ContextWithFallback = true
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(mw.Recovery),
		middleware.RequestID(mw.RequestID),
		middleware.Tracing(serviceName, mw.Logger.SkipPaths...),
		middleware.TraceFields(),
		middleware.Logger(mw.Logger),
	)
	if mw.CORS.Enabled {
		engine.Use(middleware.CORS(mw.CORS))
	}
	engine.Use(middleware.BodyLimit(mw.BodyLimit))

	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, apierrors.ErrRouteNotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		response.Fail(c, apierrors.ErrRouteNotFound.WithMessage("Method not allowed"))
	})

	return &Server{opts: opts, engine: engine}
}

// Name returns the server name.
func (s *Server) Name() string { return "http" }

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Start binds the listen address and serves in the background. Bind errors
// are returned synchronously.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("HTTP server stopped unexpectedly", "error", err.Error())
		}
	}()
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.opts.Addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
