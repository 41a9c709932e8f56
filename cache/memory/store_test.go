package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/cache/memory"
)

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	val, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestStore_GetMiss(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()

	_, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "perm:user-1:platform", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "perm:user-1:tenant:x", []byte("b"), time.Minute))
	require.NoError(t, s.Set(ctx, "roles:user-2:platform", []byte("c"), time.Minute))

	require.NoError(t, s.DeletePrefix(ctx, "perm:user-1:"))

	_, ok1, _ := s.Get(ctx, "perm:user-1:platform")
	_, ok2, _ := s.Get(ctx, "perm:user-1:tenant:x")
	_, ok3, _ := s.Get(ctx, "roles:user-2:platform")

	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.True(t, ok3)
}

func TestStore_Incr(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()
	ctx := context.Background()

	v1, err := s.Incr(ctx, "rl:ip:1.2.3.4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	v2, err := s.Incr(ctx, "rl:ip:1.2.3.4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)
}

func TestStore_Incr_ResetsAfterExpiry(t *testing.T) {
	t.Parallel()

	s := memory.New()
	defer s.Close()
	ctx := context.Background()

	_, err := s.Incr(ctx, "k", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	v, err := s.Incr(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}
