// Package server runs the HTTP server and the process-wide shutdown hooks
// under one lifecycle.
package server

import "context"

// Lifecycle defines the lifecycle interface for servers.
type Lifecycle interface {
	// Start starts the server without blocking.
	Start(ctx context.Context) error
	// Stop stops the server gracefully.
	Stop(ctx context.Context) error
}

// Runnable represents a component that can be started and stopped.
type Runnable interface {
	Lifecycle
	// Name returns the server name for identification.
	Name() string
}

// Hook adapts a shutdown function to Runnable.
type Hook struct {
	name string
	stop func(ctx context.Context) error
}

// NewHook returns a Runnable whose Start is a no-op.
func NewHook(name string, stop func(ctx context.Context) error) *Hook {
	return &Hook{name: name, stop: stop}
}

func (h *Hook) Name() string                   { return h.name }
func (h *Hook) Start(context.Context) error    { return nil }
func (h *Hook) Stop(ctx context.Context) error { return h.stop(ctx) }
