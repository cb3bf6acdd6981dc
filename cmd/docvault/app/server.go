// Package app provides the DocVault server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/docvault/cmd/docvault/app/options"
	"github.com/kart-io/docvault/internal/docvault"
	"github.com/kart-io/docvault/pkg/infra/app"
)

const commandDesc = `DocVault

Document management and retrieval-augmented chat over uploaded PDFs.

This server provides:
  - PDF upload with background text extraction, chunking and embedding
  - Per-user chat grounded on the indexed documents
  - Conversation history with titles derived from the first question
  - Role based access backed by an external identity provider`

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	return app.NewApp(
		app.WithName(docvault.Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithConfigWatch(),
		app.WithRunFunc(run(opts)),
	)
}

func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
// A second signal exits immediately.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
