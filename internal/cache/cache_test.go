package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Names []string `json:"names"`
}

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "gallery", listing{Names: []string{"kart1.jpg"}}, time.Minute))

	var got listing
	require.NoError(t, store.Get(ctx, "gallery", &got))
	assert.Equal(t, []string{"kart1.jpg"}, got.Names)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, store.Get(ctx, "gallery", &got), ErrCacheMiss)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", 42, 0))
	require.NoError(t, store.Delete(ctx, "k"))

	var value int
	assert.ErrorIs(t, store.Get(ctx, "k", &value), ErrCacheMiss)
}

func TestRememberLoadsOnceAndCaches(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	first, err := Remember(ctx, store, nil, "numbers", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, store, nil, "numbers", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	failure := errors.New("backend down")

	_, err := Remember(ctx, store, nil, "courses", time.Minute, func(context.Context) (string, error) {
		return "", failure
	})
	assert.ErrorIs(t, err, failure)

	var value string
	assert.ErrorIs(t, store.Get(ctx, "courses", &value), ErrCacheMiss)
}

func TestNewWithoutRedisURLUsesMemory(t *testing.T) {
	store, err := New(context.Background(), " ", nil)
	require.NoError(t, err)
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
	assert.NoError(t, store.Close())
}

func TestNewRejectsInvalidRedisURL(t *testing.T) {
	_, err := New(context.Background(), "not a url://", nil)
	assert.Error(t, err)
}
