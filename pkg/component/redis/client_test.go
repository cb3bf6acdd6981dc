package redis

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	options "github.com/kart-io/docvault/pkg/options/redis"
)

func TestNewPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	opts := options.NewOptions()
	opts.Host = mr.Host()
	opts.Port = port

	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "redis", c.Name())
	require.NoError(t, c.Client().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	mr.Close()

	opts := options.NewOptions()
	opts.Host = "127.0.0.1"
	opts.Port = port
	opts.MaxRetries = -1

	_, err := New(context.Background(), opts)
	assert.ErrorContains(t, err, "failed to ping redis")
}
