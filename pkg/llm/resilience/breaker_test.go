package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/pkg/llm"
)

var errBoom = errors.New("boom")

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker("test", Config{MaxFailures: 2, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return now }

	calls := 0
	fail := func() error { calls++; return errBoom }

	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), ErrCircuitOpen)
	assert.Equal(t, 2, calls, "open breaker must not call through")

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker("test", Config{MaxFailures: 1, OpenTimeout: time.Second})
	cb.now = func() time.Time { return now }

	_ = cb.Execute(func() error { return errBoom })
	now = now.Add(2 * time.Second)
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitOpen)
}

func TestSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{MaxFailures: 2})
	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errBoom })
	assert.Equal(t, StateClosed, cb.State())
}

type failingChat struct{ calls int }

func (f *failingChat) Chat(context.Context, []llm.Message) (string, error) { return "", errBoom }
func (f *failingChat) Generate(context.Context, string, string) (string, error) {
	f.calls++
	return "", errBoom
}
func (f *failingChat) Name() string { return "failing" }

func TestWrapChat(t *testing.T) {
	inner := &failingChat{}
	chat := WrapChat(inner, Config{MaxFailures: 1, OpenTimeout: time.Hour})

	_, err := chat.Generate(context.Background(), "q", "s")
	assert.ErrorIs(t, err, errBoom)
	_, err = chat.Generate(context.Background(), "q", "s")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "failing", chat.Name())
}
