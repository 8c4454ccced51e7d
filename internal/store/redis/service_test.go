package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) (*Backend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewBackend(client)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestBackendMissingKey(t *testing.T) {
	b, _ := newTestBackend(t)

	data, found, err := b.Get(context.Background(), "problems")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestBackendSetGet(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBackend(t)

	require.NoError(t, b.Set(ctx, "problems", []byte(`[]`)))

	raw, err := mr.Get("solvelog:problems")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
	assert.Zero(t, mr.TTL("solvelog:problems"))

	data, found, err := b.Get(ctx, "problems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(data))
	assert.NoError(t, b.Ping(ctx))
}

func TestBackendUnavailable(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBackend(t)
	mr.Close()

	_, _, err := b.Get(ctx, "problems")
	assert.Error(t, err)
	assert.Error(t, b.Set(ctx, "problems", []byte(`[]`)))
}
