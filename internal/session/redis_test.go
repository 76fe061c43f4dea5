package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/loginhub/pkg/model"
)

// testRedis connects to LOGINHUB_TEST_REDIS_URL or skips.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("LOGINHUB_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LOGINHUB_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return rdb
}

func TestRedisScope(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	prefix := "loginhub:test:"
	id := uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), prefix+id) })

	scope := NewRedisScope(rdb, prefix, id, time.Minute)

	_, ok, err := scope.Get(ctx, KeyMaster)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, scope.Set(ctx, KeyMaster, "true"))
	v, ok, err := scope.Get(ctx, KeyMaster)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	ttl, err := rdb.TTL(ctx, prefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, scope.Delete(ctx, KeyMaster))
	require.NoError(t, scope.Delete(ctx, KeyMaster))
	_, ok, err = scope.Get(ctx, KeyMaster)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisScopeAsTabStorage(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	prefix := "loginhub:test:"
	tabA, tabB := uuid.NewString(), uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), prefix+tabA, prefix+tabB) })

	durable := NewMemoryScope()
	a := NewStore(durable, NewRedisScope(rdb, prefix, tabA, time.Minute), testLogger())
	b := NewStore(durable, NewRedisScope(rdb, prefix, tabB, time.Minute), testLogger())

	require.NoError(t, a.Write(ctx, model.NewMasterSession()))

	sess, err := a.Read(ctx)
	require.NoError(t, err)
	assert.True(t, sess.IsMaster())

	sess, err = b.Read(ctx)
	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated(), "master flag leaked into another tab")
}
