package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb), mr
}

func TestCreateGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sid-1", "user-1", time.Hour))

	sess, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Greater(t, sess.ExpiresAt, sess.IssuedAt)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Get(ctx, "sid-1")
	assert.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sid-1", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sid-1")
	assert.Error(t, err)
}

func TestRevokeAllForUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sid-1", "user-1", time.Hour))
	require.NoError(t, store.Create(ctx, "sid-2", "user-1", time.Hour))
	require.NoError(t, store.Create(ctx, "sid-3", "user-2", time.Hour))

	require.NoError(t, store.RevokeAllForUser(ctx, "user-1"))

	_, err := store.Get(ctx, "sid-1")
	assert.Error(t, err)
	_, err = store.Get(ctx, "sid-2")
	assert.Error(t, err)

	// other users keep their sessions
	sess, err := store.Get(ctx, "sid-3")
	require.NoError(t, err)
	assert.Equal(t, "user-2", sess.UserID)
}

func TestThrottleSeen(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	assert.True(t, store.ThrottleSeen(ctx, "user-1", time.Minute))
	assert.False(t, store.ThrottleSeen(ctx, "user-1", time.Minute))

	mr.FastForward(2 * time.Minute)
	assert.True(t, store.ThrottleSeen(ctx, "user-1", time.Minute))
}
