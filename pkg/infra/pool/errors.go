// Package pool provides a bounded goroutine pool for background work.
package pool

import "errors"

var (
	// ErrPoolClosed is returned when submitting to a released pool.
	ErrPoolClosed = errors.New("pool closed")

	// ErrPoolOverload is returned when a nonblocking pool is full.
	ErrPoolOverload = errors.New("pool overloaded")

	// ErrInvalidPoolConfig is returned for a nil or non-positive capacity config.
	ErrInvalidPoolConfig = errors.New("invalid pool config")
)
