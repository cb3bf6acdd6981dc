package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	name string
	err  error
	wait time.Duration
}

func (m *mockClient) Name() string { return m.name }

func (m *mockClient) Ping(ctx context.Context) error {
	if m.wait > 0 {
		select {
		case <-time.After(m.wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.err
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	m := NewManager(time.Second)
	require.NoError(t, m.Register(&mockClient{name: "redis"}))
	assert.Error(t, m.Register(&mockClient{name: "redis"}))
	assert.Error(t, m.Register(nil))
	assert.Equal(t, []string{"redis"}, m.Names())
}

func TestHealthCheckAll(t *testing.T) {
	m := NewManager(50 * time.Millisecond)
	require.NoError(t, m.Register(&mockClient{name: "postgres"}))
	require.NoError(t, m.Register(&mockClient{name: "milvus", err: errors.New("connection refused")}))
	require.NoError(t, m.Register(&mockClient{name: "redis", wait: time.Second}))

	statuses := m.HealthCheckAll(context.Background())
	require.Len(t, statuses, 3)

	assert.Equal(t, "milvus", statuses[0].Name)
	assert.False(t, statuses[0].Healthy)
	assert.Equal(t, "connection refused", statuses[0].Error)

	assert.Equal(t, "postgres", statuses[1].Name)
	assert.True(t, statuses[1].Healthy)

	assert.Equal(t, "redis", statuses[2].Name)
	assert.False(t, statuses[2].Healthy, "slow probe must hit the timeout")

	assert.False(t, AllHealthy(statuses))
	assert.True(t, AllHealthy(statuses[1:2]))
}
