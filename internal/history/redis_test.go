package history

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisBackend(t *testing.T) (*miniredis.Miniredis, *RedisBackend) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	b, err := NewRedisBackend(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return mr, b
}

func TestRedisBackend(t *testing.T) {
	_, b := newMiniredisBackend(t)
	exerciseBackend(t, b)
	assert.NoError(t, b.Ping())
}

// TestRedisBackend_KeyLayout verifies the persisted value sits under the prefixed key.
func TestRedisBackend_KeyLayout(t *testing.T) {
	mr, b := newMiniredisBackend(t)
	s := NewStore(b, "", nil)
	s.Load(context.Background())
	require.NoError(t, s.Record(context.Background(), "Seoul"))

	got, err := mr.Get(redisKeyPrefix + DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `["Seoul"]`, got)
}

// TestRedisBackend_MalformedValue verifies a hand-edited value loads as empty history.
func TestRedisBackend_MalformedValue(t *testing.T) {
	mr, b := newMiniredisBackend(t)
	require.NoError(t, mr.Set(redisKeyPrefix+DefaultKey, "[broken"))

	s := NewStore(b, "", nil)
	s.Load(context.Background())
	assert.Empty(t, s.Entries())
}

func TestNewRedisBackend_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisBackend(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestNewRedisBackend_Auth(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	mr.RequireAuth("secret")

	_, err = NewRedisBackend(context.Background(), mr.Addr(), "wrong", 0)
	assert.Error(t, err)

	b, err := NewRedisBackend(context.Background(), mr.Addr(), "secret", 0)
	require.NoError(t, err)
	defer b.Close()
	assert.NoError(t, b.Ping())
}
