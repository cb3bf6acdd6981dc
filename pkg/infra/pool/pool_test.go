package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolRejectsInvalidConfig(t *testing.T) {
	_, err := NewPool("bad", nil)
	assert.ErrorIs(t, err, ErrInvalidPoolConfig)

	_, err = NewPool("bad", &Config{Capacity: 0})
	assert.ErrorIs(t, err, ErrInvalidPoolConfig)
}

func TestSubmitRunsTasks(t *testing.T) {
	p, err := NewPool("test", &Config{Capacity: 8, ExpiryDuration: time.Minute})
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			seen++
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Equal(t, 20, seen)
	assert.Equal(t, int64(20), p.Stats().SubmittedTasks)
}

func TestPanicIsRecovered(t *testing.T) {
	recovered := make(chan interface{}, 1)
	cfg := &Config{Capacity: 8, ExpiryDuration: time.Minute}
	cfg.PanicHandler = func(r interface{}) { recovered <- r }

	p, err := NewPool("panicky", cfg)
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	select {
	case r := <-recovered:
		assert.Equal(t, "boom", r)
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler not called")
	}
	assert.Eventually(t, func() bool { return p.Stats().PanicRecovered == 1 }, time.Second, 10*time.Millisecond)
}

func TestNonblockingOverload(t *testing.T) {
	p, err := NewPool("tiny", &Config{Capacity: 1, Nonblocking: true, ExpiryDuration: time.Second})
	require.NoError(t, err)
	defer p.Release()

	block := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-block }))

	err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolOverload)
	assert.Equal(t, int64(1), p.Stats().RejectedTasks)
	close(block)
}

func TestSubmitAfterRelease(t *testing.T) {
	p, err := NewPool("closed", &Config{Capacity: 8, ExpiryDuration: time.Minute})
	require.NoError(t, err)
	require.NoError(t, p.ReleaseTimeout(time.Second))
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
	p.Release()
}
