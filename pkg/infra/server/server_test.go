package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunnable struct {
	name     string
	startErr error
	log      *[]string
}

func (f *fakeRunnable) Name() string { return f.name }

func (f *fakeRunnable) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeRunnable) Stop(context.Context) error {
	*f.log = append(*f.log, "stop "+f.name)
	return nil
}

func TestManagerStopsInReverseOrder(t *testing.T) {
	var log []string
	m := NewManager(time.Second)
	m.Add(&fakeRunnable{name: "db", log: &log})
	m.Add(NewHook("pool", func(context.Context) error {
		log = append(log, "stop pool")
		return nil
	}))
	m.Add(&fakeRunnable{name: "http", log: &log})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	assert.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return len(m.started) == 3
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"start db", "start http", "stop http", "stop pool", "stop db"}, log)
}

func TestManagerStartFailureRollsBack(t *testing.T) {
	var log []string
	m := NewManager(time.Second)
	m.Add(&fakeRunnable{name: "db", log: &log})
	m.Add(&fakeRunnable{name: "http", log: &log, startErr: errors.New("address in use")})

	err := m.Start(context.Background())
	assert.ErrorContains(t, err, "failed to start http")
	assert.Equal(t, []string{"start db", "stop db"}, log)
}

func TestHookErrorsAreAggregated(t *testing.T) {
	m := NewManager(time.Second)
	m.Add(NewHook("a", func(context.Context) error { return errors.New("a failed") }))
	m.Add(NewHook("b", func(context.Context) error { return errors.New("b failed") }))
	require.NoError(t, m.Start(context.Background()))

	err := m.Stop(context.Background())
	assert.ErrorContains(t, err, "a failed")
	assert.ErrorContains(t, err, "b failed")
}
